package usecase

import (
	"context"
	"log/slog"
	"time"

	authDomain "github.com/allisson/registry-auth/internal/auth/domain"
	authService "github.com/allisson/registry-auth/internal/auth/service"
)

// MethodConfig holds the configuration values that decide the authentication method.
type MethodConfig struct {
	TokenPublicKey string
	Username       string
	Password       string
}

// Dependencies are the collaborators used to build the selected authenticator.
type Dependencies struct {
	Extractor    authService.CredentialExtractor
	TokenFactory TokenAuthenticatorFactory
	Validity     time.Duration
	Logger       *slog.Logger
	Clock        Clock
}

// SelectMethod chooses the authentication method. A token key wins over an admin
// credential; with neither configured the method is credential-based without an admin.
func SelectMethod(cfg MethodConfig) authDomain.AuthMethod {
	if cfg.TokenPublicKey != "" {
		return authDomain.AuthMethod{
			Kind:        authDomain.TokenBasedMethod,
			KeyMaterial: cfg.TokenPublicKey,
		}
	}

	if cfg.Username != "" && cfg.Password != "" {
		return authDomain.AuthMethod{
			Kind: authDomain.CredentialMethod,
			Admin: &authDomain.AdminCredential{
				Username: cfg.Username,
				Password: cfg.Password,
			},
		}
	}

	return authDomain.AuthMethod{Kind: authDomain.CredentialMethod}
}

// SelectAuthenticator builds the authenticator for the selected method. Only the
// token factory can fail.
func SelectAuthenticator(ctx context.Context, cfg MethodConfig, deps Dependencies) (Authenticator, error) {
	method := SelectMethod(cfg)

	if method.Kind == authDomain.TokenBasedMethod {
		return deps.TokenFactory(ctx, method.KeyMaterial)
	}

	if method.IsOpen() {
		deps.Logger.WarnContext(ctx,
			"no authentication configured (JWT_REGISTRY_TOKENS_PUBLIC_KEY, or USERNAME/PASSWORD), "+
				"defaulting to read-only access for everyone",
		)
	}

	now := deps.Clock
	if now == nil {
		now = time.Now
	}

	validity := deps.Validity
	if validity <= 0 {
		validity = authDomain.DefaultResultValidity
	}

	extractor := deps.Extractor
	if extractor == nil {
		extractor = authService.NewBasicCredentialExtractor()
	}

	return newCredentialVerifier(method.Admin, extractor, validity, now, deps.Logger), nil
}
