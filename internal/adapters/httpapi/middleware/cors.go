package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsMethods       = "GET, POST, OPTIONS"
	corsHeaders       = "Content-Type"
	corsExposeHeaders = "Location, X-Request-ID"
	corsMaxAge        = "600"
)

// CORS answers cross-origin requests from the configured origins. A "*" entry
// opens the API to any origin without credentials. Requests without an Origin
// header are not cross-origin and pass through untouched.
func CORS(origins []string) gin.HandlerFunc {
	allowAny, allowed := parseOrigins(origins)

	return func(c *gin.Context) {
		origin := strings.TrimRight(strings.TrimSpace(c.GetHeader("Origin")), "/")
		if origin == "" {
			c.Next()

			return
		}

		c.Writer.Header().Add("Vary", "Origin")

		_, listed := allowed[origin]
		switch {
		case listed:
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
		case allowAny:
			c.Header("Access-Control-Allow-Origin", "*")
		default:
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusForbidden)

				return
			}

			c.Next()

			return
		}

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", corsMethods)
			c.Header("Access-Control-Allow-Headers", corsHeaders)
			c.Header("Access-Control-Max-Age", corsMaxAge)
			c.AbortWithStatus(http.StatusNoContent)

			return
		}

		c.Header("Access-Control-Expose-Headers", corsExposeHeaders)
		c.Next()
	}
}

func parseOrigins(origins []string) (bool, map[string]struct{}) {
	allowed := make(map[string]struct{}, len(origins))
	allowAny := false

	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		switch o {
		case "":
		case "*":
			allowAny = true
		default:
			allowed[o] = struct{}{}
		}
	}

	return allowAny, allowed
}
