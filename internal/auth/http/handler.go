package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/registry-auth/internal/auth/http/dto"
	apperrors "github.com/allisson/registry-auth/internal/errors"
	"github.com/allisson/registry-auth/internal/httputil"
)

// registryAPIVersionHeader is sent on /v2/ so clients recognise a registry v2 endpoint.
const registryAPIVersionHeader = "Docker-Distribution-API-Version"

// AuthHandler serves the authentication result and the capability-gated registry routes.
type AuthHandler struct {
	logger *slog.Logger
}

// NewAuthHandler creates a new authentication handler.
func NewAuthHandler(logger *slog.Logger) *AuthHandler {
	return &AuthHandler{logger: logger}
}

// CheckHandler returns the authentication result of the request.
// GET /auth/check - Requires AuthenticationMiddleware.
// Returns 200 OK with the result.
func (h *AuthHandler) CheckHandler(c *gin.Context) {
	result, ok := GetAuthResult(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapResultToResponse(result))
}

// PingHandler answers the registry version check.
// GET /v2/ - Requires pull capability.
func (h *AuthHandler) PingHandler(c *gin.Context) {
	c.Header(registryAPIVersionHeader, "registry/2.0")
	c.JSON(http.StatusOK, gin.H{})
}

// WriteProbeHandler confirms that a registry write would be allowed.
// POST|PUT|PATCH|DELETE /v2/*path - Requires push capability.
// Returns 202 Accepted.
func (h *AuthHandler) WriteProbeHandler(c *gin.Context) {
	c.Header(registryAPIVersionHeader, "registry/2.0")
	c.JSON(http.StatusAccepted, dto.WriteAuthorizedResponse{Status: "authorized"})
}
