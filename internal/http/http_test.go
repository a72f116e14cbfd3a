package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/registry-auth/internal/auth/domain"
	authHTTP "github.com/allisson/registry-auth/internal/auth/http"
	authService "github.com/allisson/registry-auth/internal/auth/service"
	authUseCase "github.com/allisson/registry-auth/internal/auth/usecase"
	"github.com/allisson/registry-auth/internal/metrics"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestServer creates a server whose router uses the credential verifier with
// an admin user, or no admin at all when username is empty.
func createTestServer(t *testing.T, username, password string, rateLimit bool) *Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := createTestLogger()
	authenticator, err := authUseCase.SelectAuthenticator(
		ctx,
		authUseCase.MethodConfig{Username: username, Password: password},
		authUseCase.Dependencies{Logger: logger},
	)
	require.NoError(t, err)

	server := NewServer("127.0.0.1", 0, logger)
	require.NoError(t, server.SetupRouter(ctx, RouterConfig{
		Authenticator:           authenticator,
		Challenge:               authHTTP.NewChallenge(authDomain.CredentialMethod, "registry"),
		RateLimitEnabled:        rateLimit,
		RateLimitRequestsPerSec: 0.5,
		RateLimitBurst:          2,
	}))
	return server
}

func serve(server *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, req)
	return w
}

func withBasicAuth(req *http.Request, username, password string) *http.Request {
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(username+":"+password)))
	return req
}

func TestServer_HealthEndpoint(t *testing.T) {
	server := createTestServer(t, "", "", false)

	w := serve(server, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestServer_ReadyEndpointBeforeStart(t *testing.T) {
	server := createTestServer(t, "", "", false)

	w := serve(server, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"not_ready"}`, w.Body.String())
}

func TestServer_AuthCheck(t *testing.T) {
	server := createTestServer(t, "admin", "s3cret", false)

	t.Run("admin", func(t *testing.T) {
		req := withBasicAuth(httptest.NewRequest(http.MethodGet, "/auth/check", nil), "admin", "s3cret")

		w := serve(server, req)

		require.Equal(t, http.StatusOK, w.Code)
		var response map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, true, response["verified"])
		assert.Equal(t, "admin", response["username"])
		assert.Equal(t, []any{"pull", "push"}, response["capabilities"])
		assert.Equal(t, "", response["aud"])
		assert.NotZero(t, response["exp"])
	})

	t.Run("wrong password", func(t *testing.T) {
		req := withBasicAuth(httptest.NewRequest(http.MethodGet, "/auth/check", nil), "admin", "guess")

		w := serve(server, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"anonymous"`)
		assert.Contains(t, w.Body.String(), `"capabilities":["pull"]`)
	})
}

func TestServer_RegistryRoutes(t *testing.T) {
	server := createTestServer(t, "admin", "s3cret", false)
	manifest := "/v2/library/alpine/manifests/latest"

	t.Run("anonymous ping", func(t *testing.T) {
		w := serve(server, httptest.NewRequest(http.MethodGet, "/v2/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "registry/2.0", w.Header().Get("Docker-Distribution-API-Version"))
	})

	t.Run("anonymous write", func(t *testing.T) {
		w := serve(server, httptest.NewRequest(http.MethodPut, manifest, nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, `Basic realm="registry"`, w.Header().Get("WWW-Authenticate"))
	})

	t.Run("wrong password write", func(t *testing.T) {
		req := withBasicAuth(httptest.NewRequest(http.MethodDelete, manifest, nil), "admin", "guess")

		w := serve(server, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("admin write", func(t *testing.T) {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
			req := withBasicAuth(httptest.NewRequest(method, manifest, nil), "admin", "s3cret")

			w := serve(server, req)

			assert.Equal(t, http.StatusAccepted, w.Code, method)
			assert.JSONEq(t, `{"status":"authorized"}`, w.Body.String(), method)
		}
	})
}

func TestServer_OpenModeIsReadOnly(t *testing.T) {
	server := createTestServer(t, "", "", false)

	w := serve(server, httptest.NewRequest(http.MethodGet, "/v2/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	req := withBasicAuth(httptest.NewRequest(http.MethodPut, "/v2/a/blobs/uploads/", nil), "admin", "s3cret")
	w = serve(server, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServer_RateLimitOnAuthCheck(t *testing.T) {
	server := createTestServer(t, "admin", "s3cret", true)

	for i := 0; i < 2; i++ {
		w := serve(server, httptest.NewRequest(http.MethodGet, "/auth/check", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := serve(server, httptest.NewRequest(http.MethodGet, "/auth/check", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestServer_RateLimitOnWriteProbe(t *testing.T) {
	server := createTestServer(t, "admin", "s3cret", true)

	codes := map[int]int{}
	for i := 0; i < 20; i++ {
		req := withBasicAuth(httptest.NewRequest(http.MethodPut, "/v2/repo/manifests/latest", nil), "admin", "guess")
		codes[serve(server, req).Code]++
	}

	assert.Equal(t, 2, codes[http.StatusUnauthorized])
	assert.Equal(t, 18, codes[http.StatusTooManyRequests])
}

func TestServer_RateLimitSharedAcrossRoutes(t *testing.T) {
	server := createTestServer(t, "admin", "s3cret", true)

	w := serve(server, httptest.NewRequest(http.MethodGet, "/auth/check", nil))
	require.Equal(t, http.StatusOK, w.Code)
	w = serve(server, httptest.NewRequest(http.MethodGet, "/v2/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	req := withBasicAuth(httptest.NewRequest(http.MethodPut, "/v2/repo/manifests/latest", nil), "admin", "s3cret")
	w = serve(server, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestServer_NotFound(t *testing.T) {
	server := createTestServer(t, "", "", false)

	w := serve(server, httptest.NewRequest(http.MethodGet, "/nonexistent", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_NoMetricsEndpoint(t *testing.T) {
	server := createTestServer(t, "", "", false)

	w := serve(server, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_WithHTTPMetrics(t *testing.T) {
	provider, err := metrics.NewProvider("server_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	server := NewServer("127.0.0.1", 0, createTestLogger())
	require.NoError(t, server.SetupRouter(ctx, RouterConfig{
		Authenticator: authUseCase.NewCredentialVerifier(
			nil,
			authService.NewBasicCredentialExtractor(),
			time.Second,
			createTestLogger(),
		),
		Challenge:        authHTTP.NewChallenge(authDomain.CredentialMethod, "registry"),
		MeterProvider:    provider.MeterProvider(),
		MetricsNamespace: "server_test",
	}))

	serve(server, httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), "server_test_http_requests_total")
}

func TestServer_StartAndShutdown(t *testing.T) {
	server := createTestServer(t, "", "", false)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(context.Background())
	}()

	assert.Eventually(t, func() bool {
		w := serve(server, httptest.NewRequest(http.MethodGet, "/ready", nil))
		return w.Code == http.StatusOK
	}, time.Second, 10*time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(shutdownCtx))

	assert.NoError(t, <-errChan)
	w := serve(server, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestServer_StartWithoutRouter(t *testing.T) {
	server := NewServer("127.0.0.1", 0, createTestLogger())

	assert.Error(t, server.Start(context.Background()))
}

func TestRequestIDMiddleware_HeaderIsUUIDv7(t *testing.T) {
	server := createTestServer(t, "", "", false)

	w := serve(server, httptest.NewRequest(http.MethodGet, "/health", nil))

	parsed, err := uuid.Parse(w.Header().Get("X-Request-Id"))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestCustomLoggerMiddleware(t *testing.T) {
	buf := &safeBuffer{}
	logger := slog.New(slog.NewJSONHandler(buf, nil))

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/fail", func(c *gin.Context) { c.Status(http.StatusBadGateway) })
	router.GET("/panic", func(c *gin.Context) { panic("test panic") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), `"level":"INFO"`)
	assert.Contains(t, buf.String(), `"request_id"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Contains(t, buf.String(), `"level":"WARN"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestMetricsServer_Endpoints(t *testing.T) {
	provider, err := metrics.NewProvider("test_app")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 8081, createTestLogger(), provider)

	w := httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}
