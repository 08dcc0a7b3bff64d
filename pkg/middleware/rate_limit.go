package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	apperrors "ginhawa/pkg/errors"
	httputil "ginhawa/pkg/http"
	"ginhawa/pkg/logger"

	"github.com/redis/go-redis/v9"
)

type KeyExtractor func(r *http.Request) string

type RateLimiter interface {
	Allow(ctx context.Context, key string) bool
	Stop()
}

// ClientRateLimiter is a sliding-window limiter kept in process memory.
type ClientRateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	stopCh   chan struct{}
	once     sync.Once
}

func NewClientRateLimiter(limit int, window time.Duration) *ClientRateLimiter {
	limiter := &ClientRateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		stopCh:   make(chan struct{}),
	}
	go limiter.cleanup()
	return limiter
}

func (rl *ClientRateLimiter) cleanup() {
	ticker := time.NewTicker(max(rl.window, time.Minute))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for key, timestamps := range rl.requests {
				if len(timestamps) == 0 || time.Since(timestamps[len(timestamps)-1]) > rl.window {
					delete(rl.requests, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *ClientRateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stopCh) })
}

func (rl *ClientRateLimiter) Allow(_ context.Context, key string) bool {
	if key == "" {
		return true
	}
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	timestamps := rl.requests[key]
	valid := timestamps[:0]
	for _, ts := range timestamps {
		if now.Sub(ts) < rl.window {
			valid = append(valid, ts)
		}
	}
	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false
	}
	rl.requests[key] = append(valid, now)
	return true
}

// RedisRateLimiter is a fixed-window limiter shared by all replicas. It
// fails open when Redis is unreachable.
type RedisRateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	log    *logger.Logger
}

func NewRedisRateLimiter(rdb *redis.Client, limit int, window time.Duration, log *logger.Logger) *RedisRateLimiter {
	return &RedisRateLimiter{rdb: rdb, limit: limit, window: window, log: log}
}

func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) bool {
	if key == "" {
		return true
	}
	bucket := time.Now().UnixNano() / int64(rl.window)
	redisKey := fmt.Sprintf("ginhawa:rl:%s:%d", key, bucket)

	pipe := rl.rdb.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		rl.log.Warn("Rate limit check failed, allowing request", "error", err)
		return true
	}
	return incr.Val() <= int64(rl.limit)
}

func (rl *RedisRateLimiter) Stop() {}

func RateLimit(limiter RateLimiter, extractor KeyExtractor, log *logger.Logger) func(http.Handler) http.Handler {
	if extractor == nil {
		extractor = ClientIP
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := extractor(r)
			if !limiter.Allow(r.Context(), key) {
				log.Warn("Rate limit exceeded",
					"request_id", RequestID(r.Context()),
					"client", key,
					"path", r.URL.Path,
				)
				_ = httputil.WriteError(w, apperrors.RateLimited())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the first X-Forwarded-For hop, or the remote address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
