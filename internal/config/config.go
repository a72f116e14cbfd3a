// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"

	customValidation "github.com/allisson/registry-auth/internal/validation"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// TokenPublicKey is the PEM public key (raw or base64) verifying registry tokens.
	// When set it takes priority over the admin credential.
	TokenPublicKey string
	// Username is the admin username.
	Username string
	// Password is the admin password.
	Password string
	// PasswordCiphertext is the KMS encrypted admin password, used when Password is empty.
	PasswordCiphertext string
	// KMSKeyURI is the gocloud.dev secrets keeper URI decrypting PasswordCiphertext.
	KMSKeyURI string

	// AuthResultValidity is how long an authentication result stays valid.
	AuthResultValidity time.Duration
	// AuthRealm is the realm advertised in WWW-Authenticate challenges.
	AuthRealm string

	// RateLimitEnabled indicates whether per-IP rate limiting of credential checks is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of credential checks allowed per second per IP.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size of the per-IP rate limiter.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int

	// ShutdownTimeout bounds graceful shutdown of the servers.
	ShutdownTimeout time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Authentication method
		TokenPublicKey:     env.GetString("JWT_REGISTRY_TOKENS_PUBLIC_KEY", ""),
		Username:           env.GetString("USERNAME", ""),
		Password:           env.GetString("PASSWORD", ""),
		PasswordCiphertext: env.GetString("PASSWORD_CIPHERTEXT", ""),
		KMSKeyURI:          env.GetString("KMS_KEY_URI", ""),

		// Authentication result
		AuthResultValidity: env.GetDuration("AUTH_RESULT_VALIDITY_MILLISECONDS", 3600, time.Millisecond),
		AuthRealm:          env.GetString("AUTH_REALM", "registry"),

		// Rate Limiting (IP-based, credential checks)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 5.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 10),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "registry_auth"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),

		// Shutdown
		ShutdownTimeout: env.GetDuration("SHUTDOWN_TIMEOUT_SECONDS", 10, time.Second),
	}
}

// Validate checks the configuration and returns an ErrInvalidInput wrapped error
// describing every invalid field.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.ServerPort, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.LogLevel, validation.Required, customValidation.LogLevel),
		validation.Field(&c.PasswordCiphertext, customValidation.KMSCiphertext),
		validation.Field(&c.KMSKeyURI,
			validation.When(c.PasswordCiphertext != "" && c.Password == "", validation.Required),
			customValidation.NoWhitespace,
			customValidation.KeyURI,
		),
		validation.Field(&c.AuthResultValidity, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.AuthRealm, validation.Required, customValidation.NotBlank),
		validation.Field(&c.RateLimitRequestsPerSec,
			validation.When(c.RateLimitEnabled, validation.Required, validation.Min(0.001)),
		),
		validation.Field(&c.RateLimitBurst,
			validation.When(c.RateLimitEnabled, validation.Required, validation.Min(1)),
		),
		validation.Field(&c.CORSAllowOrigins, validation.When(c.CORSEnabled, validation.Required)),
		validation.Field(&c.MetricsNamespace, validation.When(c.MetricsEnabled, validation.Required)),
		validation.Field(&c.MetricsPort,
			validation.When(c.MetricsEnabled,
				validation.Required,
				validation.Min(1),
				validation.Max(65535),
				validation.NotIn(c.ServerPort).Error("must differ from the server port"),
			),
		),
		validation.Field(&c.ShutdownTimeout, validation.Required),
	)
	return customValidation.WrapValidationError(err)
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
