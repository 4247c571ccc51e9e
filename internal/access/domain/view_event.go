package domain

import (
	"time"

	"github.com/google/uuid"
)

// ViewEvent records one successful projection of a profile through a token.
type ViewEvent struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	TokenID   uuid.UUID
	ViewerIP  string
	CreatedAt time.Time
}
