package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	accessDomain "github.com/allisson/ghostpass/internal/access/domain"
)

// signingInfo is the HKDF info string; bump the suffix when the canonical form changes.
const signingInfo = "ghostpass-audit-log-signing-v1"

type auditSigner struct{}

// NewAuditSigner creates an HKDF-SHA256 / HMAC-SHA256 audit log signer.
func NewAuditSigner() AuditSigner {
	return &auditSigner{}
}

func (a *auditSigner) deriveSigningKey(key []byte) ([]byte, error) {
	reader := hkdf.New(sha256.New, key, nil, []byte(signingInfo))

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(reader, signingKey); err != nil {
		return nil, err
	}
	return signingKey, nil
}

// canonicalizeLog encodes
// request_id || actor_id || token_id || action || reason || metadata || created_at
// with 4-byte length prefixes on variable-length fields.
func (a *auditSigner) canonicalizeLog(log *accessDomain.AuditLog) ([]byte, error) {
	buf := make([]byte, 0, 256)

	buf = append(buf, log.RequestID[:]...)
	buf = append(buf, log.ActorID[:]...)
	buf = append(buf, log.TokenID[:]...)
	buf = appendLengthPrefixed(buf, []byte(log.Action))
	buf = appendLengthPrefixed(buf, []byte(log.Reason))

	if log.Metadata != nil {
		metadataBytes, err := json.Marshal(log.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		buf = appendLengthPrefixed(buf, metadataBytes)
	} else {
		buf = appendLengthPrefixed(buf, nil)
	}

	buf = binary.BigEndian.AppendUint64(buf, uint64(log.CreatedAt.UnixNano()))

	return buf, nil
}

func appendLengthPrefixed(buf []byte, data []byte) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}

func (a *auditSigner) Sign(key []byte, log *accessDomain.AuditLog) ([]byte, error) {
	if len(key) == 0 {
		return nil, accessDomain.ErrSigningKeyMissing
	}

	signingKey, err := a.deriveSigningKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}
	defer zero(signingKey)

	canonical, err := a.canonicalizeLog(log)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize log: %w", err)
	}

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(canonical)
	return mac.Sum(nil), nil
}

func (a *auditSigner) Verify(key []byte, log *accessDomain.AuditLog) error {
	expectedSig, err := a.Sign(key, log)
	if err != nil {
		return fmt.Errorf("failed to compute expected signature: %w", err)
	}

	if !hmac.Equal(log.Signature, expectedSig) {
		return accessDomain.ErrSignatureInvalid
	}
	return nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
