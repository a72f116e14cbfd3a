package domain

import "time"

// AuthenticationResult is produced per request by an authenticator and consumed by
// the downstream token issuer.
//
// The credential verifier always sets Verified: authorization failures are expressed
// only through a reduced capability set. The token authenticator clears Verified when
// a presented token does not verify.
type AuthenticationResult struct {
	Verified     bool
	Principal    string
	Capabilities CapabilitySet
	ExpiresAt    time.Time
	Audience     string
}

// NewAnonymousResult returns the pull-only result granted to anonymous callers and to
// callers whose credentials did not match.
func NewAnonymousResult(now time.Time, validity time.Duration) *AuthenticationResult {
	return &AuthenticationResult{
		Verified:     true,
		Principal:    AnonymousPrincipal,
		Capabilities: PullOnly(),
		ExpiresAt:    now.Add(validity),
		Audience:     "",
	}
}

// NewAdminResult returns the pull+push result granted to the admin principal.
func NewAdminResult(username string, now time.Time, validity time.Duration) *AuthenticationResult {
	return &AuthenticationResult{
		Verified:     true,
		Principal:    username,
		Capabilities: PullPush(),
		ExpiresAt:    now.Add(validity),
		Audience:     "",
	}
}

// NewUnverifiedResult returns a result that grants nothing.
func NewUnverifiedResult() *AuthenticationResult {
	return &AuthenticationResult{
		Verified:     false,
		Principal:    AnonymousPrincipal,
		Capabilities: CapabilitySet{},
	}
}

// HasCapability reports whether the result is verified and grants the capability.
func (r *AuthenticationResult) HasCapability(capability Capability) bool {
	return r != nil && r.Verified && r.Capabilities.Has(capability)
}

// IsAnonymous reports whether the result belongs to the anonymous principal.
func (r *AuthenticationResult) IsAnonymous() bool {
	return r == nil || r.Principal == AnonymousPrincipal
}
