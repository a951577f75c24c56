// Package stack exposes each middleware as an engine plugin so the
// composition root and tests can pick the exact chain they need.
package stack

import (
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"qrtrack/internal/adapters/httpapi/middleware"
	"qrtrack/internal/app/links"
)

const healthPath = "/health"

func Logger() func(*gin.Engine) {
	return func(r *gin.Engine) {
		r.Use(gin.Logger())
	}
}

func Recovery(log links.Logger) func(*gin.Engine) {
	return func(r *gin.Engine) {
		r.Use(middleware.Recovery(log))
	}
}

func Sentry(timeout time.Duration) func(*gin.Engine) {
	return func(r *gin.Engine) {
		r.Use(sentrygin.New(sentrygin.Options{
			Repanic: true,
			Timeout: timeout,
		}))
	}
}

// TrustedProxies limits which peers may set the client IP through forwarding
// headers. With none, c.ClientIP() is always the socket peer.
func TrustedProxies(proxies []string) func(*gin.Engine) {
	return func(r *gin.Engine) {
		if err := r.SetTrustedProxies(proxies); err != nil {
			_ = r.SetTrustedProxies(nil)
		}
	}
}

func RequestTimeout(d time.Duration) func(*gin.Engine) {
	return func(r *gin.Engine) {
		if d > 0 {
			r.Use(middleware.RequestTimeout(d))
		}
	}
}

func RequestID() func(*gin.Engine) {
	return func(r *gin.Engine) {
		r.Use(middleware.RequestID())
	}
}

func CORS(origins []string) func(*gin.Engine) {
	return func(r *gin.Engine) {
		if len(origins) > 0 {
			r.Use(middleware.CORS(origins))
		}
	}
}

// RateLimit never throttles the health probe.
func RateLimit(limit int, window time.Duration) func(*gin.Engine) {
	return func(r *gin.Engine) {
		if limit > 0 {
			r.Use(middleware.RateLimit(limit, window, healthPath))
		}
	}
}

func SecurityHeaders() func(*gin.Engine) {
	return func(r *gin.Engine) {
		r.Use(middleware.SecurityHeaders())
	}
}
