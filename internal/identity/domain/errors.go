package domain

import (
	"github.com/allisson/ghostpass/internal/errors"
)

// Identity errors.
var (
	// ErrIdentityNotFound indicates no role record exists for the identity.
	ErrIdentityNotFound = errors.Wrap(errors.ErrNotFound, "identity not found")

	// ErrInvalidCredentials indicates a missing, malformed, expired or forged bearer JWT.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrInvalidRole indicates an unknown role value.
	ErrInvalidRole = errors.Wrap(errors.ErrInvalidInput, "invalid role")
)
