package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Registry clients are not browsers, so CORS only matters for web UIs calling
// /auth/check or probing /v2/ from another origin.
var (
	registryCORSMethods = []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}

	registryCORSRequestHeaders = []string{"Authorization", "Content-Type"}

	// A UI needs the challenge to know which login to show.
	registryCORSExposedHeaders = []string{
		"X-Request-Id",
		"WWW-Authenticate",
		"Docker-Distribution-API-Version",
	}
)

const registryCORSMaxAge = 12 * time.Hour

// createCORSMiddleware returns nil when CORS is disabled or no origin survives
// parsing of the comma separated list.
func createCORSMiddleware(enabled bool, allowOrigins string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins := parseOrigins(allowOrigins)
	if len(origins) == 0 {
		logger.Warn("CORS enabled but CORS_ALLOW_ORIGINS has no origin, not applying CORS")
		return nil
	}

	logger.Info("CORS enabled for registry endpoints", slog.Any("origins", origins))

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     registryCORSMethods,
		AllowHeaders:     registryCORSRequestHeaders,
		ExposeHeaders:    registryCORSExposedHeaders,
		AllowCredentials: true,
		MaxAge:           registryCORSMaxAge,
	})
}

func parseOrigins(allowOrigins string) []string {
	var origins []string
	for _, origin := range strings.Split(allowOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
