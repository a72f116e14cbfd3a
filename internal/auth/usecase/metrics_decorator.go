package usecase

import (
	"context"
	"net/http"
	"time"

	authDomain "github.com/allisson/registry-auth/internal/auth/domain"
	"github.com/allisson/registry-auth/internal/metrics"
)

const (
	metricsDomain   = "auth"
	checkOperation  = "check_credentials"
	statusGrantPush = "granted_push"
	statusGrantPull = "granted_pull"
	statusRejected  = "rejected"
)

// authenticatorWithMetrics decorates an Authenticator with metrics instrumentation.
type authenticatorWithMetrics struct {
	next    Authenticator
	metrics metrics.BusinessMetrics
}

// NewAuthenticatorWithMetrics wraps an Authenticator with metrics recording.
func NewAuthenticatorWithMetrics(next Authenticator, m metrics.BusinessMetrics) Authenticator {
	return &authenticatorWithMetrics{
		next:    next,
		metrics: m,
	}
}

// Name returns the name of the wrapped authenticator.
func (a *authenticatorWithMetrics) Name() string {
	return a.next.Name()
}

// CheckCredentials records the outcome and duration of each check.
func (a *authenticatorWithMetrics) CheckCredentials(
	ctx context.Context,
	r *http.Request,
) *authDomain.AuthenticationResult {
	start := time.Now()
	result := a.next.CheckCredentials(ctx, r)

	status := statusRejected
	switch {
	case result.HasCapability(authDomain.PushCapability):
		status = statusGrantPush
	case result.HasCapability(authDomain.PullCapability):
		status = statusGrantPull
	}

	a.metrics.RecordOperation(ctx, metricsDomain, checkOperation, status)
	a.metrics.RecordDuration(ctx, metricsDomain, checkOperation, time.Since(start), status)

	return result
}
