package http

import (
	"fmt"

	authDomain "github.com/allisson/registry-auth/internal/auth/domain"
)

// Challenge describes the WWW-Authenticate header sent with 401 responses.
type Challenge struct {
	Scheme string
	Realm  string
}

// NewChallenge returns the challenge matching the authentication method: Bearer for
// token mode, Basic otherwise.
func NewChallenge(kind authDomain.AuthMethodKind, realm string) Challenge {
	scheme := "Basic"
	if kind == authDomain.TokenBasedMethod {
		scheme = "Bearer"
	}
	return Challenge{Scheme: scheme, Realm: realm}
}

// String formats the challenge as a WWW-Authenticate header value.
func (c Challenge) String() string {
	return fmt.Sprintf("%s realm=%q", c.Scheme, c.Realm)
}
