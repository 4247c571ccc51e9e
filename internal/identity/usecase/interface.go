// Package usecase implements caller authentication and role management.
package usecase

import (
	"context"

	"github.com/google/uuid"

	identityDomain "github.com/allisson/ghostpass/internal/identity/domain"
)

// IdentityRepository defines persistence operations for identity role records.
type IdentityRepository interface {
	// Get retrieves an identity by ID. Returns ErrIdentityNotFound if not found.
	Get(ctx context.Context, id uuid.UUID) (*identityDomain.Identity, error)

	// UpsertRole creates the identity or replaces its email and role.
	UpsertRole(ctx context.Context, identity *identityDomain.Identity) error
}

// IdentityUseCase resolves bearer credentials to callers and manages roles.
type IdentityUseCase interface {
	// Authenticate verifies a caller bearer JWT and resolves the caller's role.
	// Identities without a role record are members.
	Authenticate(ctx context.Context, bearer string) (*identityDomain.Caller, error)

	// SetRole grants or changes the role of an identity.
	SetRole(ctx context.Context, id uuid.UUID, email string, role identityDomain.Role) error
}
