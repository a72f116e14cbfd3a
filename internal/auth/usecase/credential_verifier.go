package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	authDomain "github.com/allisson/registry-auth/internal/auth/domain"
	authService "github.com/allisson/registry-auth/internal/auth/service"
)

// CredentialAuthenticatorName is the name of the basic credential authenticator.
const CredentialAuthenticatorName = "credential"

// credentialVerifier checks basic credentials against an optional admin credential.
//
// Every path grants at least pull: only a matching admin pair upgrades to push, and
// a deployment without an admin credential is read-only for everyone.
type credentialVerifier struct {
	admin     *authDomain.AdminCredential
	extractor authService.CredentialExtractor
	equal     func(a, b []byte) bool
	validity  time.Duration
	now       Clock
	logger    *slog.Logger
}

// NewCredentialVerifier creates the basic credential authenticator. A nil admin
// leaves the deployment open for reads. The admin credential is copied and never
// mutated afterwards.
func NewCredentialVerifier(
	admin *authDomain.AdminCredential,
	extractor authService.CredentialExtractor,
	validity time.Duration,
	logger *slog.Logger,
) Authenticator {
	return newCredentialVerifier(admin, extractor, validity, time.Now, logger)
}

func newCredentialVerifier(
	admin *authDomain.AdminCredential,
	extractor authService.CredentialExtractor,
	validity time.Duration,
	now Clock,
	logger *slog.Logger,
) *credentialVerifier {
	var snapshot *authDomain.AdminCredential
	if admin != nil {
		copied := *admin
		snapshot = &copied
	}

	return &credentialVerifier{
		admin:     snapshot,
		extractor: extractor,
		equal:     authService.ConstantTimeEqual,
		validity:  validity,
		now:       now,
		logger:    logger,
	}
}

// Name returns the authenticator name.
func (v *credentialVerifier) Name() string {
	return CredentialAuthenticatorName
}

// CheckCredentials grants pull to everyone and push to the admin.
func (v *credentialVerifier) CheckCredentials(
	ctx context.Context,
	r *http.Request,
) *authDomain.AuthenticationResult {
	creds := v.extractor.ExtractCredentials(r)

	if v.admin == nil {
		return v.anonymous()
	}

	if !creds.IsPair() {
		v.logger.DebugContext(ctx, "no usable credentials, granting pull access",
			slog.String("extraction", creds.Status.String()))
		return v.anonymous()
	}

	matched, err := v.matchesAdmin(creds)
	if err != nil {
		v.logger.ErrorContext(ctx, "failed to compare credentials", slog.Any("error", err))
		return v.anonymous()
	}

	if !matched {
		v.logger.WarnContext(ctx, "credentials do not match the admin user, granting pull access")
		return v.anonymous()
	}

	return authDomain.NewAdminResult(v.admin.Username, v.now(), v.validity)
}

// matchesAdmin compares both fields in full before combining the outcomes so the
// time taken does not reveal which field differed.
func (v *credentialVerifier) matchesAdmin(creds authDomain.ExtractedCredentials) (matched bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			matched = false
			err = fmt.Errorf("credential comparison panicked: %v", rec)
		}
	}()

	usernameMatch := v.equal([]byte(creds.Username), []byte(v.admin.Username))
	passwordMatch := v.equal([]byte(creds.Password), []byte(v.admin.Password))

	return usernameMatch && passwordMatch, nil
}

func (v *credentialVerifier) anonymous() *authDomain.AuthenticationResult {
	return authDomain.NewAnonymousResult(v.now(), v.validity)
}
