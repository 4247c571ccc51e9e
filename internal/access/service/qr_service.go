package service

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

type qrService struct {
	size int
}

// Encode renders payload at medium error correction, scaled to size x size pixels.
func (q *qrService) Encode(payload string) ([]byte, error) {
	code, err := qr.Encode(payload, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}

	scaled, err := barcode.Scale(code, q.size, q.size)
	if err != nil {
		return nil, fmt.Errorf("failed to scale qr code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// NewQRService creates a QRService rendering square images of the given edge length.
// Sizes below 64 pixels are raised to 64.
func NewQRService(size int) QRService {
	if size < 64 {
		size = 64
	}
	return &qrService{size: size}
}
