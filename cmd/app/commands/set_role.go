package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	identityDomain "github.com/allisson/ghostpass/internal/identity/domain"
	identityUseCase "github.com/allisson/ghostpass/internal/identity/usecase"
	customValidation "github.com/allisson/ghostpass/internal/validation"
)

// RunSetRole grants a role to an identity, creating the role record when missing.
// The identity ID is the "sub" claim of the caller's JWT.
func RunSetRole(
	ctx context.Context,
	identityUseCase identityUseCase.IdentityUseCase,
	logger *slog.Logger,
	writer io.Writer,
	id, email, role string,
	format string,
) error {
	identityID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid identity ID format: %w", err)
	}

	// Email is optional.
	email = strings.TrimSpace(email)
	if err := validation.Validate(email, customValidation.Email); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}

	parsedRole := identityDomain.Role(strings.ToLower(strings.TrimSpace(role)))
	if !parsedRole.Valid() {
		return fmt.Errorf("invalid role: %s (valid options: member, admin)", role)
	}

	logger.Info("setting identity role",
		slog.String("identity_id", identityID.String()),
		slog.String("role", string(parsedRole)),
	)

	if err := identityUseCase.SetRole(ctx, identityID, email, parsedRole); err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]any{
			"id":    identityID.String(),
			"email": email,
			"role":  parsedRole,
		}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "Identity %s now has role %s\n", identityID, parsedRole)
	}

	logger.Info("role updated",
		slog.String("identity_id", identityID.String()),
		slog.String("role", string(parsedRole)),
	)

	return nil
}
