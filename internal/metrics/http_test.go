package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("http_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	middleware, err := HTTPMetricsMiddleware(provider.MeterProvider(), "http_test")
	require.NoError(t, err)

	router := gin.New()
	router.Use(middleware)
	router.GET("/v2/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})
	router.PUT("/v2/*path", func(c *gin.Context) {
		c.JSON(http.StatusAccepted, gin.H{"status": "authorized"})
	})

	for _, target := range []string{"/v2/", "/v2/"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	for _, target := range []string{"/v2/library/alpine/manifests/latest", "/v2/library/busybox/manifests/1"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, target, nil))
		require.Equal(t, http.StatusAccepted, w.Code)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wp-admin", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	output := scrape(t, provider)

	assertMetricLine(t, output, `http_test_http_requests_total`,
		`method="GET".*route="/v2/".*status_code="200"`, `2`)
	assertMetricLine(t, output, `http_test_http_requests_total`,
		`method="PUT".*route="/v2/\*path".*status_code="202"`, `2`)
	assertMetricLine(t, output, `http_test_http_requests_total`,
		`route="unmatched".*status_code="404"`, `1`)
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/v2/*path", routeLabel("/v2/*path"))
	assert.Equal(t, "unmatched", routeLabel(""))
}
