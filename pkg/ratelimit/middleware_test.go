package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(quota int64, store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware(Config{
		Window:          time.Minute,
		Quota:           quota,
		CleanupInterval: time.Minute,
		MaxAge:          10 * time.Minute,
	}, store))
	router.POST("/api/send-sos-email", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func doRequest(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/send-sos-email", nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMiddlewareAllowsUpToQuota(t *testing.T) {
	router := newLimitedRouter(3, NewMemoryStore())

	for i := 0; i < 3; i++ {
		w := doRequest(router, "1.2.3.4")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doRequest(router, "1.2.3.4")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
}

func TestMiddlewareTracksClientsSeparately(t *testing.T) {
	router := newLimitedRouter(1, NewMemoryStore())

	require.Equal(t, http.StatusOK, doRequest(router, "1.2.3.4").Code)
	require.Equal(t, http.StatusTooManyRequests, doRequest(router, "1.2.3.4").Code)

	// A different client key is unaffected.
	assert.Equal(t, http.StatusOK, doRequest(router, "5.6.7.8").Code)
}

func TestMiddlewareWindowResetReadmits(t *testing.T) {
	base := time.Now()
	store := NewMemoryStore()
	store.now = func() time.Time { return base }
	router := newLimitedRouter(1, store)

	require.Equal(t, http.StatusOK, doRequest(router, "1.2.3.4").Code)
	require.Equal(t, http.StatusTooManyRequests, doRequest(router, "1.2.3.4").Code)

	store.now = func() time.Time { return base.Add(time.Minute) }
	assert.Equal(t, http.StatusOK, doRequest(router, "1.2.3.4").Code)
}

type failingStore struct{}

func (failingStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	return 0, errors.New("store unavailable")
}

func TestMiddlewareAdmitsOnStoreFailure(t *testing.T) {
	router := newLimitedRouter(1, failingStore{})

	// Counting is lost but the request goes through.
	assert.Equal(t, http.StatusOK, doRequest(router, "1.2.3.4").Code)
	assert.Equal(t, http.StatusOK, doRequest(router, "1.2.3.4").Code)
}
