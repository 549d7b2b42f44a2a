package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, "nosniff", rec.Header().Get(headerXContentTypeOptions))
	require.Equal(t, "DENY", rec.Header().Get(headerXFrameOptions))
	require.NotEmpty(t, rec.Header().Get(headerStrictTransportSecurity))
}

func TestHostCheck(t *testing.T) {
	h := HostCheck("api.mealmate.app")(ok)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Host = "api.mealmate.app:443"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req.Host = "evil.example"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestIPLimiterPerIP(t *testing.T) {
	l := NewIPLimiter(rate.Every(time.Hour), 2, "slow down")
	defer l.Stop()
	h := l.Middleware(ok)

	require.Equal(t, http.StatusOK, hit(h, "10.0.0.1").Code)
	require.Equal(t, http.StatusOK, hit(h, "10.0.0.1").Code)
	require.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1").Code)
	require.Equal(t, http.StatusOK, hit(h, "10.0.0.2").Code)
}

func TestIPLimiterForPaths(t *testing.T) {
	l := NewIPLimiter(rate.Every(time.Hour), 1, "slow down").ForPaths("/auth/signin")
	defer l.Stop()
	h := l.Middleware(ok)

	require.Equal(t, http.StatusOK, hit(h, "10.0.0.1").Code)
	require.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1").Code)

	req := httptest.NewRequest(http.MethodGet, "/meals", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
