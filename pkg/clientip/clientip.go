package clientip

import (
	"net"
	"net/http"
	"strings"
)

// RealClientIP returns the client IP from the request.
// Uses r.RemoteAddr only (no proxy headers); put chi's RealIP in front when
// the app runs behind a trusted proxy.
func RealClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}

// UserAgent returns the trimmed User-Agent, capped so a hostile header cannot
// bloat audit records.
func UserAgent(r *http.Request) string {
	ua := strings.TrimSpace(r.UserAgent())
	if len(ua) > 256 {
		ua = ua[:256]
	}
	return ua
}
