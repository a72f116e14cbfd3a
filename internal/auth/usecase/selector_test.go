package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/registry-auth/internal/auth/domain"
	"github.com/allisson/registry-auth/internal/auth/http/mocks"
)

func TestSelectMethod(t *testing.T) {
	tests := []struct {
		name     string
		cfg      MethodConfig
		expected authDomain.AuthMethod
	}{
		{
			name: "TokenKeyOnly",
			cfg:  MethodConfig{TokenPublicKey: "key"},
			expected: authDomain.AuthMethod{
				Kind:        authDomain.TokenBasedMethod,
				KeyMaterial: "key",
			},
		},
		{
			name: "TokenKeyWinsOverCredential",
			cfg:  MethodConfig{TokenPublicKey: "key", Username: "admin", Password: "s3cret"},
			expected: authDomain.AuthMethod{
				Kind:        authDomain.TokenBasedMethod,
				KeyMaterial: "key",
			},
		},
		{
			name: "CredentialPair",
			cfg:  MethodConfig{Username: "admin", Password: "s3cret"},
			expected: authDomain.AuthMethod{
				Kind:  authDomain.CredentialMethod,
				Admin: &authDomain.AdminCredential{Username: "admin", Password: "s3cret"},
			},
		},
		{
			name:     "UsernameWithoutPassword",
			cfg:      MethodConfig{Username: "admin"},
			expected: authDomain.AuthMethod{Kind: authDomain.CredentialMethod},
		},
		{
			name:     "PasswordWithoutUsername",
			cfg:      MethodConfig{Password: "s3cret"},
			expected: authDomain.AuthMethod{Kind: authDomain.CredentialMethod},
		},
		{
			name:     "NothingConfigured",
			cfg:      MethodConfig{},
			expected: authDomain.AuthMethod{Kind: authDomain.CredentialMethod},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SelectMethod(tt.cfg))
		})
	}
}

func TestSelectAuthenticator(t *testing.T) {
	t.Run("Success_TokenModeUsesFactory", func(t *testing.T) {
		expected := &mocks.MockAuthenticator{}
		var received string
		deps := Dependencies{
			TokenFactory: func(ctx context.Context, keyMaterial string) (Authenticator, error) {
				received = keyMaterial
				return expected, nil
			},
			Logger: createTestLogger(),
		}

		authenticator, err := SelectAuthenticator(
			context.Background(),
			MethodConfig{TokenPublicKey: "key", Username: "admin", Password: "s3cret"},
			deps,
		)

		require.NoError(t, err)
		assert.Same(t, expected, authenticator)
		assert.Equal(t, "key", received)
	})

	t.Run("Error_TokenFactoryFails", func(t *testing.T) {
		factoryErr := errors.New("bad key")
		deps := Dependencies{
			TokenFactory: func(ctx context.Context, keyMaterial string) (Authenticator, error) {
				return nil, factoryErr
			},
			Logger: createTestLogger(),
		}

		authenticator, err := SelectAuthenticator(context.Background(), MethodConfig{TokenPublicKey: "key"}, deps)

		assert.Nil(t, authenticator)
		assert.ErrorIs(t, err, factoryErr)
	})

	t.Run("Success_CredentialMode", func(t *testing.T) {
		logger, buf := createBufferLogger()
		deps := Dependencies{Logger: logger, Clock: fixedClock, Validity: time.Minute}

		authenticator, err := SelectAuthenticator(
			context.Background(),
			MethodConfig{Username: "admin", Password: "s3cret"},
			deps,
		)

		require.NoError(t, err)
		assert.Equal(t, "credential", authenticator.Name())
		assert.NotContains(t, buf.String(), "level=WARN")

		result := authenticator.CheckCredentials(context.Background(), basicRequest("admin", "s3cret"))
		assert.Equal(t, authDomain.PullPush(), result.Capabilities)
		assert.Equal(t, fixedNow.Add(time.Minute), result.ExpiresAt)
	})

	t.Run("Success_OpenModeWarnsOnce", func(t *testing.T) {
		logger, buf := createBufferLogger()
		deps := Dependencies{Logger: logger, Clock: fixedClock}

		authenticator, err := SelectAuthenticator(context.Background(), MethodConfig{}, deps)

		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(buf.String(), "level=WARN"))
		assert.Contains(t, buf.String(), "read-only access for everyone")

		result := authenticator.CheckCredentials(context.Background(), basicRequest("admin", "s3cret"))
		assertAnonymous(t, result)
	})
}
