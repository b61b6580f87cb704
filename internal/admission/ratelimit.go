package admission

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Counter interface {
	CountInWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimiter caps order-creation attempts per client IP in a fixed window.
// It runs before the admission guard so abusive clients are cut off cheaply.
// When the counter backend is down it fails open and logs.
type RateLimiter struct {
	counter Counter
	max     int
	window  time.Duration
	logger  *zap.Logger
}

func NewRateLimiter(counter Counter, max int, window time.Duration, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		counter: counter,
		max:     max,
		window:  window,
		logger:  logger,
	}
}

func (rl *RateLimiter) Allow(ctx context.Context, clientIP string) bool {
	count, err := rl.counter.CountInWindow(ctx, clientIP, rl.window)
	if err != nil {
		rl.logger.Warn("rate limit counter unavailable, allowing request", zap.Error(err))
		return true
	}

	return count <= int64(rl.max)
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := ClientIP(r)
		if !rl.Allow(r.Context(), clientIP) {
			rl.logger.Warn("rate limit exceeded", zap.String("clientIp", clientIP))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{
				"error":   "RATE_LIMITED",
				"message": "too many order attempts, try again later",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
