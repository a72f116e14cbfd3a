package commands

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/registry-auth/internal/app"
	"github.com/allisson/registry-auth/internal/config"
)

func testServerConfig() *config.Config {
	return &config.Config{
		LogLevel:           "error",
		ServerHost:         "127.0.0.1",
		ServerPort:         0,
		AuthResultValidity: time.Second,
		AuthRealm:          "registry",
		MetricsNamespace:   "commands_test",
		MetricsPort:        0,
		ShutdownTimeout:    time.Second,
	}
}

func TestServe(t *testing.T) {
	t.Run("stops-on-context-cancel", func(t *testing.T) {
		cfg := testServerConfig()
		cfg.MetricsEnabled = true
		container := app.NewContainer(cfg)
		defer closeContainer(container, container.Logger())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- serve(ctx, container, cfg) }()

		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("serve did not return after cancel")
		}
	})

	t.Run("returns-listen-error", func(t *testing.T) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer func() { _ = listener.Close() }()

		cfg := testServerConfig()
		cfg.ServerPort = listener.Addr().(*net.TCPAddr).Port
		container := app.NewContainer(cfg)
		defer closeContainer(container, container.Logger())

		err = serve(context.Background(), container, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "api server error")
	})

	t.Run("returns-init-error", func(t *testing.T) {
		cfg := testServerConfig()
		cfg.TokenPublicKey = "not a key"
		container := app.NewContainer(cfg)
		defer closeContainer(container, container.Logger())

		err := serve(context.Background(), container, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize HTTP server")
	})
}

func TestRunServer_InvalidConfig(t *testing.T) {
	t.Setenv("SERVER_PORT", "0")

	err := RunServer(context.Background(), "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
