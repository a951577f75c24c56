package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"qrtrack/internal/adapters/httpapi/middleware"
)

func newLimitedRouter(limit int) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.RateLimit(limit, time.Minute, "/health"))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	return r
}

func hit(r *gin.Engine, path, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	r := newLimitedRouter(2)

	require.Equal(t, http.StatusOK, hit(r, "/ping", "10.0.0.1:1000").Code)
	require.Equal(t, http.StatusOK, hit(r, "/ping", "10.0.0.1:1001").Code)

	rec := hit(r, "/ping", "10.0.0.1:1002")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Success)
	require.Equal(t, "Too many requests, please try again later.", body.Error)

	require.Equal(t, http.StatusOK, hit(r, "/ping", "10.0.0.2:1000").Code, "other clients keep their own budget")
}

func TestRateLimit_HealthExempt(t *testing.T) {
	r := newLimitedRouter(1)

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, hit(r, "/health", "10.0.0.1:1000").Code)
	}

	require.Equal(t, http.StatusOK, hit(r, "/ping", "10.0.0.1:1000").Code)
}

func TestRateLimit_DisabledWhenZero(t *testing.T) {
	r := newLimitedRouter(0)

	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusOK, hit(r, "/ping", "10.0.0.1:1000").Code)
	}
}
