package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accessDomain "github.com/allisson/ghostpass/internal/access/domain"
)

func newAuditLog() *accessDomain.AuditLog {
	return &accessDomain.AuditLog{
		ID:        uuid.Must(uuid.NewV7()),
		RequestID: uuid.Must(uuid.NewV7()),
		ActorID:   uuid.Must(uuid.NewV7()),
		Action:    accessDomain.ActionTokenRevoke,
		TokenID:   uuid.Must(uuid.NewV7()),
		Reason:    "lost phone",
		Metadata:  map[string]any{"purpose": "venue_admission"},
		CreatedAt: time.Now().UTC(),
	}
}

func TestAuditSigner_SignAndVerify(t *testing.T) {
	signer := NewAuditSigner()
	key := []byte("0123456789abcdef0123456789abcdef")

	t.Run("Success_RoundTrip", func(t *testing.T) {
		log := newAuditLog()

		sig, err := signer.Sign(key, log)
		require.NoError(t, err)
		assert.Len(t, sig, 32)

		log.Signature = sig
		assert.NoError(t, signer.Verify(key, log))
	})

	t.Run("Success_Deterministic", func(t *testing.T) {
		log := newAuditLog()

		sig1, err := signer.Sign(key, log)
		require.NoError(t, err)
		sig2, err := signer.Sign(key, log)
		require.NoError(t, err)
		assert.Equal(t, sig1, sig2)
	})

	t.Run("Success_NilMetadata", func(t *testing.T) {
		log := newAuditLog()
		log.Metadata = nil

		sig, err := signer.Sign(key, log)
		require.NoError(t, err)
		log.Signature = sig
		assert.NoError(t, signer.Verify(key, log))
	})

	t.Run("Error_TamperedReason", func(t *testing.T) {
		log := newAuditLog()
		sig, err := signer.Sign(key, log)
		require.NoError(t, err)

		log.Signature = sig
		log.Reason = "nothing to see"
		assert.ErrorIs(t, signer.Verify(key, log), accessDomain.ErrSignatureInvalid)
	})

	t.Run("Error_TamperedActor", func(t *testing.T) {
		log := newAuditLog()
		sig, err := signer.Sign(key, log)
		require.NoError(t, err)

		log.Signature = sig
		log.ActorID = uuid.Must(uuid.NewV7())
		assert.ErrorIs(t, signer.Verify(key, log), accessDomain.ErrSignatureInvalid)
	})

	t.Run("Error_WrongKey", func(t *testing.T) {
		log := newAuditLog()
		sig, err := signer.Sign(key, log)
		require.NoError(t, err)

		log.Signature = sig
		assert.ErrorIs(t, signer.Verify([]byte("another-key"), log), accessDomain.ErrSignatureInvalid)
	})

	t.Run("Error_FieldBoundaryShift", func(t *testing.T) {
		a := newAuditLog()
		a.Action = "token.revoke"
		a.Reason = "x"

		b := *a
		b.Action = "token.revok"
		b.Reason = "ex"

		sigA, err := signer.Sign(key, a)
		require.NoError(t, err)
		sigB, err := signer.Sign(key, &b)
		require.NoError(t, err)
		assert.NotEqual(t, sigA, sigB)
	})

	t.Run("Error_MissingKey", func(t *testing.T) {
		_, err := signer.Sign(nil, newAuditLog())
		assert.ErrorIs(t, err, accessDomain.ErrSigningKeyMissing)
	})
}
