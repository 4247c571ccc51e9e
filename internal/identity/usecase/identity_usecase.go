package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	identityDomain "github.com/allisson/ghostpass/internal/identity/domain"
	identityService "github.com/allisson/ghostpass/internal/identity/service"
)

type identityUseCase struct {
	identityRepo IdentityRepository
	verifier     identityService.JWTVerifier
}

func (i *identityUseCase) Authenticate(ctx context.Context, bearer string) (*identityDomain.Caller, error) {
	if bearer == "" {
		return nil, identityDomain.ErrInvalidCredentials
	}

	claims, err := i.verifier.Verify(bearer)
	if err != nil {
		return nil, err
	}

	caller := &identityDomain.Caller{
		ID:    claims.Subject,
		Email: claims.Email,
		Role:  identityDomain.RoleMember,
	}

	identity, err := i.identityRepo.Get(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, identityDomain.ErrIdentityNotFound) {
			return caller, nil
		}
		return nil, err
	}

	if identity.Role.Valid() {
		caller.Role = identity.Role
	}
	if caller.Email == "" {
		caller.Email = identity.Email
	}

	return caller, nil
}

func (i *identityUseCase) SetRole(
	ctx context.Context,
	id uuid.UUID,
	email string,
	role identityDomain.Role,
) error {
	if !role.Valid() {
		return identityDomain.ErrInvalidRole
	}

	return i.identityRepo.UpsertRole(ctx, &identityDomain.Identity{
		ID:        id,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	})
}

// NewIdentityUseCase creates a new IdentityUseCase.
func NewIdentityUseCase(
	identityRepo IdentityRepository,
	verifier identityService.JWTVerifier,
) IdentityUseCase {
	return &identityUseCase{
		identityRepo: identityRepo,
		verifier:     verifier,
	}
}
