// Package http provides caller authentication middleware for gin routes.
package http

import (
	"context"

	identityDomain "github.com/allisson/ghostpass/internal/identity/domain"
)

type callerKey struct{}

// WithCaller stores the authenticated caller in the context.
func WithCaller(ctx context.Context, caller *identityDomain.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// GetCaller retrieves the authenticated caller from the context.
func GetCaller(ctx context.Context) (*identityDomain.Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(*identityDomain.Caller)
	return caller, ok && caller != nil
}
