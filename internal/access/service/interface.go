// Package service provides the cryptographic and encoding primitives of the token lifecycle.
package service

import (
	"context"

	accessDomain "github.com/allisson/ghostpass/internal/access/domain"
)

// TokenService generates bearer values and their lookup hashes.
type TokenService interface {
	// GenerateToken returns a new 256-bit random bearer value and its hash.
	GenerateToken() (plainToken string, tokenHash string, err error)

	// HashToken returns the hex SHA-256 of a bearer value.
	HashToken(plainToken string) string
}

// QRService renders payloads as QR code images.
type QRService interface {
	// Encode returns a PNG of payload.
	Encode(payload string) ([]byte, error)
}

// AuditSigner signs and verifies audit log records.
type AuditSigner interface {
	// Sign returns the HMAC-SHA256 signature of log under a key derived from key.
	Sign(key []byte, log *accessDomain.AuditLog) ([]byte, error)

	// Verify returns ErrSignatureInvalid when log.Signature doesn't match.
	Verify(key []byte, log *accessDomain.AuditLog) error
}

// KMSKeeper is the subset of *secrets.Keeper used to unwrap key material.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KMSService opens keepers for a KMS key URI.
type KMSService interface {
	OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error)
}
