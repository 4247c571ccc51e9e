package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRateLimitedRouter(t *testing.T, rps float64, burst int) *gin.Engine {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := gin.New()
	router.Use(RateLimitMiddleware(ctx, rps, burst, discardLogger()))
	router.POST("/v1/tokens/verify", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"result": "INVALID"})
	})
	return router
}

func presentFrom(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/tokens/verify", nil)
	req.RemoteAddr = remoteAddr
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	router := newRateLimitedRouter(t, 10, 20)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, presentFrom(router, "192.0.2.1:1234").Code)
	}
}

func TestRateLimitMiddleware_BlocksRequestsExceedingLimit(t *testing.T) {
	router := newRateLimitedRouter(t, 1, 2)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, presentFrom(router, "192.0.2.1:1234").Code)
	}

	w := presentFrom(router, "192.0.2.1:1234")

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decodeBody(w)["error"])
}

func TestRateLimitMiddleware_IndependentPerIP(t *testing.T) {
	router := newRateLimitedRouter(t, 1, 1)

	assert.Equal(t, http.StatusOK, presentFrom(router, "192.0.2.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, presentFrom(router, "192.0.2.1:1234").Code)
	assert.Equal(t, http.StatusOK, presentFrom(router, "192.0.2.2:1234").Code)
}

func TestIPRateLimiterStore_EvictIdle(t *testing.T) {
	store := &ipRateLimiterStore{rps: 1, burst: 1}

	store.getLimiter("192.0.2.1")
	store.getLimiter("192.0.2.2")

	val, _ := store.limiters.Load("192.0.2.1")
	entry := val.(*ipRateLimiterEntry)
	entry.lastAccess = time.Now().Add(-2 * time.Hour)

	store.evictIdle(time.Now().Add(-time.Hour))

	_, staleFound := store.limiters.Load("192.0.2.1")
	_, freshFound := store.limiters.Load("192.0.2.2")
	assert.False(t, staleFound)
	assert.True(t, freshFound)
}

func TestIPRateLimiterStore_CleanupStopsOnCancel(t *testing.T) {
	store := &ipRateLimiterStore{rps: 1, burst: 1}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		store.cleanupStale(ctx, time.Millisecond)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup goroutine did not stop")
	}
}
