package service

import (
	"encoding/base64"
	"net/http"
	"strings"

	authDomain "github.com/allisson/registry-auth/internal/auth/domain"
)

const (
	authorizationHeader = "Authorization"
	basicScheme         = "basic"
	bearerScheme        = "bearer"
)

// basicCredentialExtractor implements CredentialExtractor for "Basic base64(user:pass)".
type basicCredentialExtractor struct{}

// NewBasicCredentialExtractor creates a CredentialExtractor for HTTP Basic credentials.
func NewBasicCredentialExtractor() CredentialExtractor {
	return &basicCredentialExtractor{}
}

// ExtractCredentials decodes the Authorization header.
//
// The scheme is matched case-insensitively. The decoded value is split on the first
// colon so passwords may contain colons.
func (b *basicCredentialExtractor) ExtractCredentials(r *http.Request) authDomain.ExtractedCredentials {
	header := r.Header.Get(authorizationHeader)
	if header == "" {
		return authDomain.NoCredentials()
	}

	payload, ok := cutScheme(header, basicScheme)
	if !ok || payload == "" {
		return authDomain.InvalidCredentials()
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return authDomain.InvalidCredentials()
	}

	username, password, found := strings.Cut(string(decoded), ":")
	if !found {
		return authDomain.InvalidCredentials()
	}

	return authDomain.CredentialPair(username, password)
}

// ExtractBearerToken returns the token of an "Authorization: Bearer <token>" header.
// A Basic header is accepted too, in which case the password is the token; docker
// login forwards registry tokens that way.
func ExtractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get(authorizationHeader)
	if header == "" {
		return "", false
	}

	if token, ok := cutScheme(header, bearerScheme); ok {
		token = strings.TrimSpace(token)
		return token, token != ""
	}

	creds := NewBasicCredentialExtractor().ExtractCredentials(r)
	if creds.IsPair() && creds.Password != "" {
		return creds.Password, true
	}

	return "", false
}

// cutScheme strips "<scheme> " from the header, matching the scheme case-insensitively.
func cutScheme(header, scheme string) (string, bool) {
	prefix := scheme + " "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
