package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(t *testing.T, opts Options) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gate, err := NewGate(opts)
	require.NoError(t, err)
	router := gin.New()
	router.Use(Middleware(gate, nil))
	router.GET("/Ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return router
}

func TestMiddleware_RejectsWithPlainText(t *testing.T) {
	router := newLimitedRouter(t, Options{PermitLimit: 1, Window: 30 * time.Second})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/Ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/Ping", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, RejectionMessage, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
}

func TestMiddleware_KeysByClientIP(t *testing.T) {
	router := newLimitedRouter(t, Options{PermitLimit: 1, Window: time.Minute})

	for _, addr := range []string{"10.0.0.1:1234", "10.0.0.2:1234"} {
		req := httptest.NewRequest(http.MethodGet, "/Ping", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, addr)
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 1, retryAfterSeconds(0))
	assert.Equal(t, 1, retryAfterSeconds(300*time.Millisecond))
	assert.Equal(t, 2, retryAfterSeconds(1100*time.Millisecond))
}
