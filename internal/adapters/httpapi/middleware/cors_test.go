package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"qrtrack/internal/adapters/httpapi/middleware"
)

func newCORSRouter(origins ...string) (*gin.Engine, *int) {
	gin.SetMode(gin.TestMode)

	calls := 0
	r := gin.New()
	r.Use(middleware.CORS(origins))
	r.GET("/api/list", func(c *gin.Context) {
		calls++
		c.Status(http.StatusOK)
	})
	r.POST("/api/create", func(c *gin.Context) {
		calls++
		c.Status(http.StatusCreated)
	})

	return r, &calls
}

func serveCORS(r *gin.Engine, method, path, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestCORS_ListedOriginGetsCredentials(t *testing.T) {
	r, calls := newCORSRouter("http://localhost:3000")

	rec := serveCORS(r, http.MethodGet, "/api/list", "http://localhost:3000/")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, *calls)
	require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	require.Equal(t, "Origin", rec.Header().Get("Vary"))
	require.Equal(t, "Location, X-Request-ID", rec.Header().Get("Access-Control-Expose-Headers"))
}

func TestCORS_Preflight(t *testing.T) {
	r, calls := newCORSRouter("http://localhost:3000")

	rec := serveCORS(r, http.MethodOptions, "/api/create", "http://localhost:3000")

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Zero(t, *calls)
	require.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	require.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_UnlistedOrigin(t *testing.T) {
	r, calls := newCORSRouter("http://localhost:3000")

	rec := serveCORS(r, http.MethodOptions, "/api/create", "http://evil.example")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serveCORS(r, http.MethodGet, "/api/list", "http://evil.example")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, *calls)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_NoOriginPassesThrough(t *testing.T) {
	r, calls := newCORSRouter("http://localhost:3000")

	rec := serveCORS(r, http.MethodPost, "/api/create", "")

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, 1, *calls)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	require.Empty(t, rec.Header().Get("Vary"))
}

func TestCORS_WildcardWithoutCredentials(t *testing.T) {
	r, _ := newCORSRouter("*")

	rec := serveCORS(r, http.MethodGet, "/api/list", "http://anywhere.example")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}
