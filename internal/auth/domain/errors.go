package domain

import (
	"github.com/allisson/registry-auth/internal/errors"
)

// Authentication errors.
var (
	// ErrUnknownCapability indicates a capability name outside {pull, push}.
	ErrUnknownCapability = errors.Wrap(errors.ErrInvalidInput, "unknown capability")

	// ErrInvalidKeyMaterial indicates the token verification key could not be parsed.
	ErrInvalidKeyMaterial = errors.Wrap(errors.ErrInvalidInput, "invalid token verification key")

	// ErrInvalidToken indicates a registry token failed verification.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid registry token")

	// ErrMissingToken indicates the request carried no registry token.
	ErrMissingToken = errors.Wrap(errors.ErrUnauthorized, "missing registry token")
)
