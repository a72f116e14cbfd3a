// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/registry-auth/internal/auth/domain"
)

// MockAuthenticator is a mock implementation of Authenticator for testing.
type MockAuthenticator struct {
	mock.Mock
}

// Name mocks the Name method of Authenticator.
func (m *MockAuthenticator) Name() string {
	args := m.Called()
	return args.String(0)
}

// CheckCredentials mocks the CheckCredentials method of Authenticator.
func (m *MockAuthenticator) CheckCredentials(
	ctx context.Context,
	r *http.Request,
) *authDomain.AuthenticationResult {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*authDomain.AuthenticationResult)
}
