// Package usecase implements the authentication decisions of the registry front-end:
// choosing the authentication method from configuration and checking the credentials
// of each request.
package usecase

import (
	"context"
	"net/http"
	"time"

	authDomain "github.com/allisson/registry-auth/internal/auth/domain"
)

// Authenticator checks the credentials carried by a request.
type Authenticator interface {
	// Name returns the authenticator name (e.g., "credential", "token").
	Name() string

	// CheckCredentials never returns an error: every outcome is encoded in the
	// returned result. The result is never nil.
	CheckCredentials(ctx context.Context, r *http.Request) *authDomain.AuthenticationResult
}

// TokenAuthenticatorFactory builds the token-based authenticator from the configured
// public key material.
type TokenAuthenticatorFactory func(ctx context.Context, keyMaterial string) (Authenticator, error)

// Clock returns the current time.
type Clock func() time.Time
