// Package http provides HTTP middleware and handlers for registry authentication.
package http

import (
	"context"

	authDomain "github.com/allisson/registry-auth/internal/auth/domain"
)

// authResultKey is a context key type for storing authentication results.
type authResultKey struct{}

// WithAuthResult stores the authentication result in the context.
func WithAuthResult(ctx context.Context, result *authDomain.AuthenticationResult) context.Context {
	return context.WithValue(ctx, authResultKey{}, result)
}

// GetAuthResult retrieves the authentication result from the context.
// Returns (result, true) if a result is present, or (nil, false) if none was set.
func GetAuthResult(ctx context.Context) (*authDomain.AuthenticationResult, bool) {
	result, ok := ctx.Value(authResultKey{}).(*authDomain.AuthenticationResult)
	return result, ok && result != nil
}
