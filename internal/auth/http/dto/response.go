// Package dto provides data transfer objects for HTTP response handling.
package dto

import (
	authDomain "github.com/allisson/registry-auth/internal/auth/domain"
)

// AuthCheckResponse is the authentication result handed to the downstream token issuer.
type AuthCheckResponse struct {
	Verified     bool     `json:"verified"`
	Username     string   `json:"username"`
	Capabilities []string `json:"capabilities"`
	ExpiresAt    int64    `json:"exp"` // unix milliseconds, 0 when unset
	Audience     string   `json:"aud"`
}

// MapResultToResponse converts a domain authentication result to an API response.
func MapResultToResponse(result *authDomain.AuthenticationResult) AuthCheckResponse {
	var expiresAt int64
	if !result.ExpiresAt.IsZero() {
		expiresAt = result.ExpiresAt.UnixMilli()
	}

	return AuthCheckResponse{
		Verified:     result.Verified,
		Username:     result.Principal,
		Capabilities: result.Capabilities.Strings(),
		ExpiresAt:    expiresAt,
		Audience:     result.Audience,
	}
}

// WriteAuthorizedResponse is returned by the registry write probe.
type WriteAuthorizedResponse struct {
	Status string `json:"status"`
}
