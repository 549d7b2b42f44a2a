package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AnshRaj112/mealmate-backend/pkg/clientip"
)

const (
	// RateLimitWindow is 120 seconds
	RateLimitWindow = 120 * time.Second
	// RateLimitMaxRequests is the number of requests allowed per IP in one window
	RateLimitMaxRequests = 25
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting
	RateLimitKeyPrefix = "ratelimit:"
	// BlockedIPKeyPrefix is the Redis key prefix for blocked IPs
	BlockedIPKeyPrefix = "blocked_ip:"
	// BlockedIPDuration is how long an IP stays blocked after exceeding the limit
	BlockedIPDuration = 15 * time.Minute
)

// RedisRateLimiter is a fixed-window counter shared by every instance. An IP
// that exceeds the window is blocked for BlockedIPDuration. With no Redis, or
// when Redis errors, requests are allowed.
type RedisRateLimiter struct {
	client      *redis.Client
	logger      *zap.Logger
	window      time.Duration
	maxRequests int
	blockFor    time.Duration
}

func NewRedisRateLimiter(client *redis.Client, logger *zap.Logger) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:      client,
		logger:      logger,
		window:      RateLimitWindow,
		maxRequests: RateLimitMaxRequests,
		blockFor:    BlockedIPDuration,
	}
}

// WithLimit overrides the window and request budget.
func (l *RedisRateLimiter) WithLimit(maxRequests int, window time.Duration) *RedisRateLimiter {
	l.maxRequests = maxRequests
	l.window = window
	return l
}

func (l *RedisRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.client == nil {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientip.RealClientIP(r)
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()

		blockedKey := BlockedIPKeyPrefix + ip
		isBlocked, err := l.client.Exists(ctx, blockedKey).Result()
		if err == nil && isBlocked > 0 {
			writeError(w, http.StatusTooManyRequests, "Your IP has been temporarily blocked due to excessive requests. Please try again later.")
			return
		}

		rateLimitKey := RateLimitKeyPrefix + ip
		count, err := l.client.Incr(ctx, rateLimitKey).Result()
		if err != nil {
			l.logger.Warn("rate limiter unavailable, allowing request", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			// First request opens the window.
			l.client.Expire(ctx, rateLimitKey, l.window)
		}

		if count > int64(l.maxRequests) {
			if err := l.client.Set(ctx, blockedKey, "1", l.blockFor).Err(); err != nil {
				l.logger.Warn("failed to block ip", zap.String("ip", ip), zap.Error(err))
			}
			w.Header().Set("Retry-After", strconv.Itoa(int(l.blockFor.Seconds())))
			writeError(w, http.StatusTooManyRequests, fmt.Sprintf("Rate limit exceeded. Try again in %d minutes.", int(l.blockFor.Minutes())))
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.maxRequests))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(l.maxRequests)-count, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(l.window).Unix(), 10))

		next.ServeHTTP(w, r)
	})
}

// IsBlocked reports whether ip is serving a block. Without Redis nothing is
// ever blocked.
func (l *RedisRateLimiter) IsBlocked(ctx context.Context, ip string) (bool, error) {
	if l.client == nil {
		return false, nil
	}
	n, err := l.client.Exists(ctx, BlockedIPKeyPrefix+ip).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Unblock removes an IP from the blocked list and resets its window.
func (l *RedisRateLimiter) Unblock(ctx context.Context, ip string) error {
	if l.client == nil {
		return nil
	}
	return l.client.Del(ctx, BlockedIPKeyPrefix+ip, RateLimitKeyPrefix+ip).Err()
}
