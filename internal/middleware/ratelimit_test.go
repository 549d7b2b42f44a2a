package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

func hit(h http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/signin", nil)
	req.RemoteAddr = ip + ":1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRedisRateLimiterBlocksAfterLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	limiter := NewRedisRateLimiter(client, zap.NewNop()).WithLimit(3, time.Minute)
	h := limiter.Middleware(ok)

	for i := 0; i < 3; i++ {
		rec := hit(h, "10.0.0.1")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	require.Equal(t, "2", hit(h, "10.0.0.2").Header().Get("X-RateLimit-Remaining"))

	rec := hit(h, "10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.True(t, mr.Exists(BlockedIPKeyPrefix+"10.0.0.1"))

	// Blocked even after the window resets.
	mr.FastForward(2 * time.Minute)
	require.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1").Code)

	blocked, err := limiter.IsBlocked(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	require.True(t, blocked)

	require.NoError(t, limiter.Unblock(context.Background(), "10.0.0.1"))
	blocked, err = limiter.IsBlocked(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	require.False(t, blocked)
	require.Equal(t, http.StatusOK, hit(h, "10.0.0.1").Code)
}

func TestRedisRateLimiterFailsOpen(t *testing.T) {
	h := NewRedisRateLimiter(nil, zap.NewNop()).Middleware(ok)
	for i := 0; i < 50; i++ {
		require.Equal(t, http.StatusOK, hit(h, "10.0.0.1").Code)
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	h = NewRedisRateLimiter(client, zap.NewNop()).WithLimit(1, time.Minute).Middleware(ok)
	require.Equal(t, http.StatusOK, hit(h, "10.0.0.1").Code)
	require.Equal(t, http.StatusOK, hit(h, "10.0.0.1").Code)
}
