package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	identityDomain "github.com/allisson/ghostpass/internal/identity/domain"
	identityMocks "github.com/allisson/ghostpass/internal/identity/http/mocks"
)

func TestRunSetRole(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	id := uuid.New()
	email := "admin@example.com"

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &identityMocks.MockIdentityUseCase{}
		mockUseCase.On("SetRole", ctx, id, email, identityDomain.RoleAdmin).Return(nil)

		var out bytes.Buffer
		err := RunSetRole(ctx, mockUseCase, logger, &out, id.String(), email, "Admin", "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "now has role admin")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &identityMocks.MockIdentityUseCase{}
		mockUseCase.On("SetRole", ctx, id, email, identityDomain.RoleMember).Return(nil)

		var out bytes.Buffer
		err := RunSetRole(ctx, mockUseCase, logger, &out, id.String(), email, "member", "json")
		require.NoError(t, err)

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		require.Equal(t, id.String(), result["id"])
		require.Equal(t, "member", result["role"])
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-id", func(t *testing.T) {
		err := RunSetRole(ctx, nil, logger, &bytes.Buffer{}, "not-a-uuid", email, "admin", "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid identity ID format")
	})

	t.Run("invalid-email", func(t *testing.T) {
		err := RunSetRole(ctx, nil, logger, &bytes.Buffer{}, id.String(), "not-an-email", "admin", "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid email")
	})

	t.Run("empty-email", func(t *testing.T) {
		mockUseCase := &identityMocks.MockIdentityUseCase{}
		mockUseCase.On("SetRole", ctx, id, "", identityDomain.RoleAdmin).Return(nil)

		err := RunSetRole(ctx, mockUseCase, logger, &bytes.Buffer{}, id.String(), "  ", "admin", "text")

		require.NoError(t, err)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-role", func(t *testing.T) {
		err := RunSetRole(ctx, nil, logger, &bytes.Buffer{}, id.String(), email, "superuser", "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid role")
	})

	t.Run("use-case-error", func(t *testing.T) {
		mockUseCase := &identityMocks.MockIdentityUseCase{}
		mockUseCase.On("SetRole", ctx, id, email, identityDomain.RoleAdmin).Return(errors.New("db down"))

		err := RunSetRole(ctx, mockUseCase, logger, &bytes.Buffer{}, id.String(), email, "admin", "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to set role")
		mockUseCase.AssertExpectations(t)
	})
}
