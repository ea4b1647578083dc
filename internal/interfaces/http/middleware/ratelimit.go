package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter decides whether one more request fits the window for key
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)
	Limit() int
}

// RateLimiter is a fixed-window in-memory limiter for a single instance
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*window
	limit   int
	window  time.Duration
	now     func() time.Time
	stop    chan struct{}
}

type window struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter creates an in-memory limiter and starts its janitor.
// Call Close to stop the janitor.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		window:  period,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.cleanup(period * 2)
	return rl
}

func (rl *RateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, w := range rl.clients {
				if now.After(w.resetAt) {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Close stops the janitor goroutine
func (rl *RateLimiter) Close() {
	close(rl.stop)
}

// Limit implements Limiter
func (rl *RateLimiter) Limit() int { return rl.limit }

// Allow implements Limiter
func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.clients[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(rl.window)}
		rl.clients[key] = w
	}
	if w.count >= rl.limit {
		return false, 0, nil
	}
	w.count++
	return true, rl.limit - w.count, nil
}

// RedisRateLimiter shares a fixed window across instances through INCR and
// a key TTL
type RedisRateLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewRedisRateLimiter creates a limiter whose keys live under prefix
func NewRedisRateLimiter(client *redis.Client, prefix string, limit int, period time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, prefix: prefix, limit: limit, window: period}
}

// Limit implements Limiter
func (rl *RedisRateLimiter) Limit() int { return rl.limit }

// Allow implements Limiter
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	k := rl.prefix + key
	pipe := rl.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, rl.limit, fmt.Errorf("rate limit %s: %w", key, err)
	}
	count := int(incr.Val())
	if count > rl.limit {
		return false, 0, nil
	}
	return true, rl.limit - count, nil
}

// RateLimit limits requests per client IP
func RateLimit(limiter Limiter, log *zap.Logger) gin.HandlerFunc {
	return RateLimitByKey(limiter, log, func(c *gin.Context) string { return c.ClientIP() })
}

// RateLimitByKey limits requests per key. Limiter errors fail open.
func RateLimitByKey(limiter Limiter, log *zap.Logger, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		allowed, remaining, err := limiter.Allow(c.Request.Context(), keyFunc(c))
		if err != nil {
			log.Error("Rate limiter unavailable", zap.Error(err))
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			abortWithError(c, http.StatusTooManyRequests, dto.ErrCodeRateLimited, "Too many requests, please try again later")
			return
		}
		c.Next()
	}
}
