package domain

import (
	"github.com/allisson/ghostpass/internal/errors"
)

// ErrProfileNotFound indicates a profile with the specified ID was not found.
var ErrProfileNotFound = errors.Wrap(errors.ErrNotFound, "profile not found")
