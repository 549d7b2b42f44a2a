package clientip

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRealClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "203.0.113.7:51234"
	r.Header.Set("X-Forwarded-For", "198.51.100.1")
	require.Equal(t, "203.0.113.7", RealClientIP(r))

	r.RemoteAddr = "[2001:db8::1]:443"
	require.Equal(t, "2001:db8::1", RealClientIP(r))

	r.RemoteAddr = "not-a-hostport"
	require.Equal(t, "not-a-hostport", RealClientIP(r))
}

func TestUserAgentIsCapped(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("User-Agent", strings.Repeat("a", 1000))
	require.Len(t, UserAgent(r), 256)
}
