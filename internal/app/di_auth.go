package app

import (
	"context"
	"fmt"

	authDomain "github.com/allisson/registry-auth/internal/auth/domain"
	authHTTP "github.com/allisson/registry-auth/internal/auth/http"
	authService "github.com/allisson/registry-auth/internal/auth/service"
	authUseCase "github.com/allisson/registry-auth/internal/auth/usecase"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() authService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = authService.NewKMSService()
	})
	return c.kmsService
}

// PasswordCipher returns the cipher for KMS encrypted admin passwords.
func (c *Container) PasswordCipher() authService.PasswordCipher {
	c.passwordCipherInit.Do(func() {
		c.passwordCipher = authService.NewPasswordCipher(c.KMSService())
	})
	return c.passwordCipher
}

// MethodConfig resolves the configuration values that select the authentication
// method. PASSWORD wins over PASSWORD_CIPHERTEXT; the ciphertext is decrypted only
// when no token key is configured.
func (c *Container) MethodConfig(ctx context.Context) (authUseCase.MethodConfig, error) {
	methodConfig := authUseCase.MethodConfig{
		TokenPublicKey: c.config.TokenPublicKey,
		Username:       c.config.Username,
		Password:       c.config.Password,
	}

	if methodConfig.TokenPublicKey != "" || methodConfig.Password != "" || c.config.PasswordCiphertext == "" {
		return methodConfig, nil
	}

	password, err := c.PasswordCipher().DecryptPassword(ctx, c.config.KMSKeyURI, c.config.PasswordCiphertext)
	if err != nil {
		return authUseCase.MethodConfig{}, fmt.Errorf("failed to resolve admin password: %w", err)
	}
	methodConfig.Password = password

	return methodConfig, nil
}

// Method returns the authentication method selected by the configuration.
func (c *Container) Method(ctx context.Context) (authDomain.AuthMethod, error) {
	methodConfig, err := c.MethodConfig(ctx)
	if err != nil {
		return authDomain.AuthMethod{}, err
	}
	return authUseCase.SelectMethod(methodConfig), nil
}

// Challenge returns the WWW-Authenticate challenge of the configured method.
func (c *Container) Challenge() authHTTP.Challenge {
	kind := authDomain.CredentialMethod
	if c.config.TokenPublicKey != "" {
		kind = authDomain.TokenBasedMethod
	}
	return authHTTP.NewChallenge(kind, c.config.AuthRealm)
}

// Authenticator returns the authenticator selected by the configuration, wrapped with
// metrics when enabled.
func (c *Container) Authenticator(ctx context.Context) (authUseCase.Authenticator, error) {
	c.authenticatorInit.Do(func() {
		authenticator, err := c.initAuthenticator(ctx)
		c.setResult("authenticator", err)
		c.authenticator = authenticator
	})
	if err := c.storedError("authenticator"); err != nil {
		return nil, err
	}
	return c.authenticator, nil
}

func (c *Container) initAuthenticator(ctx context.Context) (authUseCase.Authenticator, error) {
	methodConfig, err := c.MethodConfig(ctx)
	if err != nil {
		return nil, err
	}

	logger := c.Logger()
	baseAuthenticator, err := authUseCase.SelectAuthenticator(ctx, methodConfig, authUseCase.Dependencies{
		Extractor:    authService.NewBasicCredentialExtractor(),
		TokenFactory: authUseCase.NewRegistryTokenAuthenticatorFactory(logger),
		Validity:     c.config.AuthResultValidity,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}

	if !c.config.MetricsEnabled {
		return baseAuthenticator, nil
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for authenticator: %w", err)
	}
	return authUseCase.NewAuthenticatorWithMetrics(baseAuthenticator, businessMetrics), nil
}
