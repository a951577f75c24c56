package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"

	"qrtrack/internal/adapters/httpapi/problems"
)

type clientIPKey struct{}

// RateLimit caps requests per client IP over a sliding window. Paths in
// exempt bypass the limiter.
func RateLimit(limit int, window time.Duration, exempt ...string) gin.HandlerFunc {
	if limit <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	skip := make(map[string]struct{}, len(exempt))
	for _, p := range exempt {
		skip[p] = struct{}{}
	}

	limiter := httprate.NewRateLimiter(limit, window,
		httprate.WithKeyFuncs(keyByClientIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"success":false,"error":"` + problems.ErrorTooManyRequests + `"}`))
		}),
	)

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()

			return
		}

		passed := false
		req := c.Request.WithContext(context.WithValue(c.Request.Context(), clientIPKey{}, c.ClientIP()))

		limiter.Handler(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
		})).ServeHTTP(c.Writer, req)

		if !passed {
			c.Abort()

			return
		}

		c.Next()
	}
}

func keyByClientIP(r *http.Request) (string, error) {
	if ip, ok := r.Context().Value(clientIPKey{}).(string); ok && ip != "" {
		return ip, nil
	}

	return httprate.KeyByIP(r)
}
