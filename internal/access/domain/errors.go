package domain

import (
	"github.com/allisson/ghostpass/internal/errors"
)

// Access token errors.
var (
	// ErrTokenNotFound indicates the token doesn't exist or must not be revealed.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")

	// ErrInvalidPurpose indicates an unknown token purpose.
	ErrInvalidPurpose = errors.Wrap(errors.ErrInvalidInput, "invalid token purpose")

	// ErrInvalidTTL indicates a requested lifetime outside the purpose policy.
	ErrInvalidTTL = errors.Wrap(errors.ErrInvalidInput, "ttl outside allowed range")

	// ErrProfileAccessDenied is returned to issuers that don't own the profile.
	// Missing profiles produce the same error.
	ErrProfileAccessDenied = errors.Wrap(errors.ErrForbidden, "profile access denied")

	// ErrRevokeDenied indicates the caller neither issued the token nor is an admin.
	ErrRevokeDenied = errors.Wrap(errors.ErrForbidden, "token revoke denied")

	// ErrSignatureInvalid indicates an audit log signature mismatch.
	ErrSignatureInvalid = errors.New("audit log signature is invalid")

	// ErrSigningKeyMissing indicates no audit signing key is configured.
	ErrSigningKeyMissing = errors.New("audit signing key is not configured")
)
