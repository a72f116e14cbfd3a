package usecase

import (
	"context"
	"crypto"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authDomain "github.com/allisson/registry-auth/internal/auth/domain"
	authService "github.com/allisson/registry-auth/internal/auth/service"
	"github.com/allisson/registry-auth/internal/errors"
)

// TokenAuthenticatorName is the name of the registry token authenticator.
const TokenAuthenticatorName = "token"

const pemMarker = "-----BEGIN"

// RegistryTokenClaims are the claims carried by a registry token.
type RegistryTokenClaims struct {
	Username     string   `json:"username,omitempty"`
	Capabilities []string `json:"capabilities"`
	jwt.RegisteredClaims
}

// PublicKey is a parsed verification key together with the signing methods it accepts.
type PublicKey struct {
	Key     crypto.PublicKey
	Methods []string
}

// ParsePublicKey parses PEM key material, raw or base64 encoded. RSA, ECDSA and
// Ed25519 public keys are supported.
func ParsePublicKey(material string) (*PublicKey, error) {
	material = strings.TrimSpace(material)
	if material == "" {
		return nil, errors.Wrap(authDomain.ErrInvalidKeyMaterial, "key material is empty")
	}

	pemBytes := []byte(material)
	if !strings.Contains(material, pemMarker) {
		decoded, err := base64.StdEncoding.DecodeString(material)
		if err != nil {
			return nil, errors.Wrap(authDomain.ErrInvalidKeyMaterial, "key material is neither PEM nor base64")
		}
		pemBytes = decoded
	}

	if key, err := jwt.ParseECPublicKeyFromPEM(pemBytes); err == nil {
		return &PublicKey{Key: key, Methods: []string{"ES256", "ES384", "ES512"}}, nil
	}

	if key, err := jwt.ParseRSAPublicKeyFromPEM(pemBytes); err == nil {
		return &PublicKey{Key: key, Methods: []string{"RS256", "RS384", "RS512"}}, nil
	}

	if key, err := jwt.ParseEdPublicKeyFromPEM(pemBytes); err == nil {
		return &PublicKey{Key: key, Methods: []string{jwt.SigningMethodEdDSA.Alg()}}, nil
	}

	return nil, errors.Wrap(authDomain.ErrInvalidKeyMaterial, "unsupported public key")
}

// tokenAuthenticator verifies registry tokens signed by the configured key.
type tokenAuthenticator struct {
	publicKey *PublicKey
	now       Clock
	logger    *slog.Logger
}

// NewTokenAuthenticator creates an authenticator that verifies registry tokens.
func NewTokenAuthenticator(publicKey *PublicKey, logger *slog.Logger) Authenticator {
	return newTokenAuthenticator(publicKey, time.Now, logger)
}

func newTokenAuthenticator(publicKey *PublicKey, now Clock, logger *slog.Logger) *tokenAuthenticator {
	return &tokenAuthenticator{
		publicKey: publicKey,
		now:       now,
		logger:    logger,
	}
}

// NewRegistryTokenAuthenticatorFactory returns the factory used by SelectAuthenticator
// in token mode.
func NewRegistryTokenAuthenticatorFactory(logger *slog.Logger) TokenAuthenticatorFactory {
	return func(ctx context.Context, keyMaterial string) (Authenticator, error) {
		publicKey, err := ParsePublicKey(keyMaterial)
		if err != nil {
			return nil, err
		}
		return NewTokenAuthenticator(publicKey, logger), nil
	}
}

// Name returns the authenticator name.
func (t *tokenAuthenticator) Name() string {
	return TokenAuthenticatorName
}

// CheckCredentials verifies the bearer token of the request. Anything short of a
// valid token yields an unverified result.
func (t *tokenAuthenticator) CheckCredentials(
	ctx context.Context,
	r *http.Request,
) *authDomain.AuthenticationResult {
	raw, ok := authService.ExtractBearerToken(r)
	if !ok {
		t.logger.DebugContext(ctx, "registry token missing")
		return authDomain.NewUnverifiedResult()
	}

	claims, err := t.parse(raw)
	if err != nil {
		t.logger.WarnContext(ctx, "registry token rejected", slog.Any("error", err))
		return authDomain.NewUnverifiedResult()
	}

	capabilities := authDomain.NormalizeCapabilities(claims.Capabilities)
	if len(capabilities) == 0 {
		t.logger.WarnContext(ctx, "registry token grants no capabilities")
		return authDomain.NewUnverifiedResult()
	}

	principal := claims.Username
	if principal == "" {
		principal = claims.Subject
	}
	if principal == "" {
		principal = authDomain.AnonymousPrincipal
	}

	var audience string
	if len(claims.Audience) > 0 {
		audience = claims.Audience[0]
	}

	return &authDomain.AuthenticationResult{
		Verified:     true,
		Principal:    principal,
		Capabilities: capabilities,
		ExpiresAt:    claims.ExpiresAt.Time,
		Audience:     audience,
	}
}

func (t *tokenAuthenticator) parse(raw string) (*RegistryTokenClaims, error) {
	claims := &RegistryTokenClaims{}
	_, err := jwt.ParseWithClaims(
		raw,
		claims,
		func(token *jwt.Token) (any, error) {
			return t.publicKey.Key, nil
		},
		jwt.WithValidMethods(t.publicKey.Methods),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, errors.Wrap(authDomain.ErrInvalidToken, err.Error())
	}
	return claims, nil
}
