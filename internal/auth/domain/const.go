// Package domain defines the authentication domain models of the registry front-end.
// Implements a two-tier capability model (pull, pull+push) granted to a single admin
// principal or to anonymous callers.
package domain

import (
	"fmt"
	"time"
)

// Capability defines a registry operation that can be granted to a request.
type Capability string

const (
	// PullCapability allows reading manifests and blobs.
	PullCapability Capability = "pull"

	// PushCapability allows writing manifests and blobs.
	PushCapability Capability = "push"
)

// AnonymousPrincipal is the principal name reported for requests that did not
// authenticate as the admin.
const AnonymousPrincipal = "anonymous"

// DefaultResultValidity is the window added to the current time to compute the
// expiry of an authentication result.
//
// The value is 3600 milliseconds. The service it replaces added 60*60 to a
// millisecond epoch, which reads like one hour but is 3.6 seconds; the observed
// value is kept until the intended token lifetime is confirmed. Operators can
// override it through configuration.
const DefaultResultValidity = 3600 * time.Millisecond

// CapabilitySet is an ordered set of capabilities drawn from {pull, push}.
// Only {pull} and {pull, push} are ever produced.
type CapabilitySet []Capability

// PullOnly returns the read-only capability set.
func PullOnly() CapabilitySet {
	return CapabilitySet{PullCapability}
}

// PullPush returns the read-write capability set.
func PullPush() CapabilitySet {
	return CapabilitySet{PullCapability, PushCapability}
}

// Has reports whether the set contains the capability.
func (s CapabilitySet) Has(capability Capability) bool {
	for _, c := range s {
		if c == capability {
			return true
		}
	}
	return false
}

// Strings returns the capabilities as plain strings, preserving order.
func (s CapabilitySet) Strings() []string {
	out := make([]string, 0, len(s))
	for _, c := range s {
		out = append(out, string(c))
	}
	return out
}

// ParseCapability converts a string into a Capability.
func ParseCapability(value string) (Capability, error) {
	switch Capability(value) {
	case PullCapability, PushCapability:
		return Capability(value), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCapability, value)
	}
}

// NormalizeCapabilities maps an arbitrary list of capability names onto one of the
// two producible sets. Unknown names are ignored. Push implies pull. A list that
// grants nothing known yields an empty set.
func NormalizeCapabilities(values []string) CapabilitySet {
	var pull, push bool
	for _, v := range values {
		c, err := ParseCapability(v)
		if err != nil {
			continue
		}
		switch c {
		case PullCapability:
			pull = true
		case PushCapability:
			push = true
		}
	}

	switch {
	case push:
		return PullPush()
	case pull:
		return PullOnly()
	default:
		return CapabilitySet{}
	}
}
