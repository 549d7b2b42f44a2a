package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/AnshRaj112/mealmate-backend/pkg/clientip"
)

const (
	headerXContentTypeOptions     = "X-Content-Type-Options"
	headerXFrameOptions           = "X-Frame-Options"
	headerXXSSProtection          = "X-XSS-Protection"
	headerContentSecurityPolicy   = "Content-Security-Policy"
	headerStrictTransportSecurity = "Strict-Transport-Security"
)

// SecurityHeaders sets security-related response headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headerXContentTypeOptions, "nosniff")
		w.Header().Set(headerXFrameOptions, "DENY")
		w.Header().Set(headerXXSSProtection, "1; mode=block")
		w.Header().Set(headerContentSecurityPolicy, "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set(headerStrictTransportSecurity, "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// HostCheck returns 403 when r.Host does not match allowedHost (e.g. api.mealmate.app).
// allowedHost should be the bare hostname without scheme or port.
func HostCheck(allowedHost string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowedHost == "" {
				next.ServeHTTP(w, r)
				return
			}
			reqHost := r.Host
			if host, _, err := net.SplitHostPort(reqHost); err == nil {
				reqHost = host
			}
			if !strings.EqualFold(strings.TrimSpace(reqHost), strings.TrimSpace(allowedHost)) {
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

// IPLimiter keeps one token bucket per client IP. Idle buckets are dropped by
// a sweeper goroutine that stops with Stop.
type IPLimiter struct {
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	message string
	paths   map[string]bool

	mu      sync.Mutex
	entries map[string]*limiterEntry
	stop    chan struct{}
	once    sync.Once
}

// NewIPLimiter limits every request. Restrict it with ForPaths.
func NewIPLimiter(limit rate.Limit, burst int, message string) *IPLimiter {
	l := &IPLimiter{
		limit:   limit,
		burst:   burst,
		ttl:     30 * time.Minute,
		message: message,
		entries: make(map[string]*limiterEntry),
		stop:    make(chan struct{}),
	}
	go l.sweep(5 * time.Minute)
	return l
}

// ForPaths restricts the limiter to exact request paths.
func (l *IPLimiter) ForPaths(paths ...string) *IPLimiter {
	l.paths = make(map[string]bool, len(paths))
	for _, p := range paths {
		l.paths[p] = true
	}
	return l
}

func (l *IPLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[ip] = e
	}
	e.lastUse = time.Now()
	return e.limiter
}

func (l *IPLimiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			now := time.Now()
			for ip, e := range l.entries {
				if now.Sub(e.lastUse) > l.ttl {
					delete(l.entries, ip)
				}
			}
			l.mu.Unlock()
		}
	}
}

func (l *IPLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *IPLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.paths != nil && !l.paths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}
		if !l.get(clientip.RealClientIP(r)).Allow() {
			writeError(w, http.StatusTooManyRequests, l.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ProductionSecurity holds the production-only middleware chain:
// SecurityHeaders → HostCheck → global limiter → sign-in limiter.
type ProductionSecurity struct {
	allowedHost string
	global      *IPLimiter
	signIn      *IPLimiter
}

func NewProductionSecurity(allowedHost string) *ProductionSecurity {
	return &ProductionSecurity{
		allowedHost: allowedHost,
		// 5 req/s, burst 20
		global: NewIPLimiter(rate.Limit(5), 20, "Too many requests. Please slow down."),
		// 1 req/5s, burst 3
		signIn: NewIPLimiter(rate.Every(5*time.Second), 3, "Too many sign-in attempts. Please try again later.").
			ForPaths("/auth/signin"),
	}
}

func (p *ProductionSecurity) Middlewares() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		SecurityHeaders,
		HostCheck(p.allowedHost),
		p.global.Middleware,
		p.signIn.Middleware,
	}
}

func (p *ProductionSecurity) Stop() {
	p.global.Stop()
	p.signIn.Stop()
}
