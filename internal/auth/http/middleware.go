package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/registry-auth/internal/auth/domain"
	authUseCase "github.com/allisson/registry-auth/internal/auth/usecase"
	apperrors "github.com/allisson/registry-auth/internal/errors"
	"github.com/allisson/registry-auth/internal/httputil"
)

const wwwAuthenticateHeader = "WWW-Authenticate"

// AuthenticationMiddleware runs the authenticator on every request and stores the
// result in the request context for GetAuthResult.
//
// Error handling:
//   - Unverified result (invalid or missing registry token) → 401 with challenge
//
// Usage:
//
//	router.GET("/v2/",
//	    AuthenticationMiddleware(authenticator, challenge, logger),
//	    AuthorizationMiddleware(authDomain.PullCapability, challenge, logger),
//	    handler)
func AuthenticationMiddleware(
	authenticator authUseCase.Authenticator,
	challenge Challenge,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := authenticator.CheckCredentials(c.Request.Context(), c.Request)
		if result == nil || !result.Verified {
			logger.Debug("authentication failed: credentials not verified",
				slog.String("authenticator", authenticator.Name()))
			c.Header(wwwAuthenticateHeader, challenge.String())
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		ctx := WithAuthResult(c.Request.Context(), result)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("principal", result.Principal),
			slog.Any("capabilities", result.Capabilities.Strings()))

		c.Next()
	}
}

// AuthorizationMiddleware requires the authenticated result to grant the capability.
//
// MUST be used after AuthenticationMiddleware. Anonymous callers lacking the capability
// get 401 with a challenge so registry clients prompt for login; named principals get 403.
func AuthorizationMiddleware(
	capability authDomain.Capability,
	challenge Challenge,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, ok := GetAuthResult(c.Request.Context())
		if !ok {
			logger.Debug("authorization failed: no authentication result in context")
			c.Header(wwwAuthenticateHeader, challenge.String())
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !result.HasCapability(capability) {
			logger.Debug("authorization failed: missing capability",
				slog.String("principal", result.Principal),
				slog.String("capability", string(capability)))

			if result.IsAnonymous() {
				c.Header(wwwAuthenticateHeader, challenge.String())
				httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			} else {
				httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			}
			c.Abort()
			return
		}

		c.Next()
	}
}
