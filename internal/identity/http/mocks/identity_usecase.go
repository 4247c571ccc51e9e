// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	identityDomain "github.com/allisson/ghostpass/internal/identity/domain"
)

// MockIdentityUseCase is a mock implementation of IdentityUseCase for testing.
type MockIdentityUseCase struct {
	mock.Mock
}

// Authenticate mocks the Authenticate method of IdentityUseCase.
func (m *MockIdentityUseCase) Authenticate(ctx context.Context, bearer string) (*identityDomain.Caller, error) {
	args := m.Called(ctx, bearer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Caller), args.Error(1)
}

// SetRole mocks the SetRole method of IdentityUseCase.
func (m *MockIdentityUseCase) SetRole(
	ctx context.Context,
	id uuid.UUID,
	email string,
	role identityDomain.Role,
) error {
	args := m.Called(ctx, id, email, role)
	return args.Error(0)
}
