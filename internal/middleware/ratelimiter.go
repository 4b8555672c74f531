package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/config"
)

// RateLimiter counts attempts per key in fixed windows
type RateLimiter interface {
	// Allow records one attempt for key.
	// Returns: allowed bool, attempts in the current window, error
	Allow(ctx context.Context, key string) (bool, int64, error)

	// Close closes the Redis connection
	Close() error
}

type redisRateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	logger *slog.Logger
}

// NewRateLimiter creates a new Redis-based rate limiter for login attempts
func NewRateLimiter(cfg *config.Config, logger *slog.Logger) (RateLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       int(cfg.RedisDatabase),
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("❌ [RateLimiter] Failed to connect to Redis", "error", err)
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("✅ [RateLimiter] Connected to Redis",
		"host", cfg.RedisHost,
		"port", cfg.RedisPort,
		"limit", cfg.LoginRateLimit,
		"window_seconds", cfg.LoginRateWindow,
	)

	return NewRateLimiterWithClient(client, cfg.LoginRateLimit, time.Duration(cfg.LoginRateWindow)*time.Second, logger), nil
}

// NewRateLimiterWithClient wraps an existing client (used by tests)
func NewRateLimiterWithClient(client *redis.Client, limit int64, window time.Duration, logger *slog.Logger) RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &redisRateLimiter{
		client: client,
		limit:  limit,
		window: window,
		logger: logger,
	}
}

// windowKey generates the Redis key for the current window
// Format: rate:login:{key}:{windowStart}
func (r *redisRateLimiter) windowKey(key string) string {
	start := time.Now().UTC().Truncate(r.window).Unix()
	return fmt.Sprintf("rate:login:%s:%d", key, start)
}

func (r *redisRateLimiter) Allow(ctx context.Context, key string) (bool, int64, error) {
	// If limit is 0 or negative, unlimited
	if r.limit <= 0 {
		return true, 0, nil
	}

	redisKey := r.windowKey(key)

	pipe := r.client.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, r.window)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("❌ [RateLimiter] Failed to count attempt", "error", err, "key", key)
		// On error, allow the request but log it
		return true, 0, err
	}

	count := incr.Val()
	return count <= r.limit, count, nil
}

func (r *redisRateLimiter) Close() error {
	return r.client.Close()
}

// NoOpRateLimiter is a rate limiter that always allows requests
// Used when Redis is not available
type NoOpRateLimiter struct {
	logger *slog.Logger
}

// NewNoOpRateLimiter creates a no-op rate limiter
func NewNoOpRateLimiter(logger *slog.Logger) RateLimiter {
	logger.Warn("⚠️ [RateLimiter] Using no-op rate limiter - login throttling is disabled")
	return &NoOpRateLimiter{logger: logger}
}

func (r *NoOpRateLimiter) Allow(ctx context.Context, key string) (bool, int64, error) {
	return true, 0, nil
}

func (r *NoOpRateLimiter) Close() error {
	return nil
}

// MaxLoginBodyBytes caps the login body buffered by LimitLogin
const MaxLoginBodyBytes = 64 << 10

// LimitLogin throttles login attempts per email and client IP. The body is
// restored so the handler can bind it again.
func LimitLogin(limiter RateLimiter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxLoginBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large."})
				return
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		var req struct {
			Email string `json:"email"`
		}
		_ = json.Unmarshal(body, &req)

		key := strings.ToLower(strings.TrimSpace(req.Email)) + "|" + c.ClientIP()
		allowed, count, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			LoggerFrom(c, logger).Warn("⚠️ [RateLimiter] Limiter unavailable, allowing request", "error", err)
		}
		if !allowed {
			LoggerFrom(c, logger).Warn("🚦 [RateLimiter] Login attempts exceeded",
				"email", req.Email,
				"client_ip", c.ClientIP(),
				"attempts", count,
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts. Please try again later."})
			return
		}

		c.Next()
	}
}
