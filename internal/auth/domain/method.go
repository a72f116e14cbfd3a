package domain

// AuthMethodKind tags the authentication method chosen from configuration.
type AuthMethodKind string

const (
	// TokenBasedMethod verifies signed registry tokens with a configured public key.
	TokenBasedMethod AuthMethodKind = "token"
	// CredentialMethod verifies basic credentials against an optional admin pair.
	CredentialMethod AuthMethodKind = "credential"
)

// AuthMethod is a tagged variant: KeyMaterial is set for TokenBasedMethod and Admin
// is optionally set for CredentialMethod.
type AuthMethod struct {
	Kind        AuthMethodKind
	KeyMaterial string
	Admin       *AdminCredential
}

// IsOpen reports whether the method grants read access to everyone without any
// admin configured.
func (m AuthMethod) IsOpen() bool {
	return m.Kind == CredentialMethod && m.Admin == nil
}

// Description returns a human readable summary without secrets.
func (m AuthMethod) Description() string {
	switch {
	case m.Kind == TokenBasedMethod:
		return "registry tokens verified with the configured public key"
	case m.IsOpen():
		return "no authentication configured, read-only access for everyone"
	default:
		return "basic credentials checked against the configured admin user"
	}
}
