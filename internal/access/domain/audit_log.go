package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActionTokenRevoke is the audit action recorded for revocations.
const ActionTokenRevoke = "token.revoke"

// AuditLog is an append-only, signed record of a privileged token operation.
type AuditLog struct {
	ID        uuid.UUID
	RequestID uuid.UUID
	ActorID   uuid.UUID
	Action    string
	TokenID   uuid.UUID
	Reason    string
	Metadata  map[string]any
	Signature []byte
	IsSigned  bool
	CreatedAt time.Time
}
