package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"socialhub/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
)

// RateLimiter enforces fixed-window request limits. Counters live in Redis
// when a client is configured; otherwise, or when Redis errors, each route
// falls back to Fiber's in-memory fixed-window limiter.
type RateLimiter struct {
	rdb     *redis.Client
	enabled bool
}

// NewRateLimiter builds a limiter. rdb may be nil.
func NewRateLimiter(rdb *redis.Client, enabled bool) *RateLimiter {
	return &RateLimiter{rdb: rdb, enabled: enabled}
}

// Check increments the counter for resource/id and reports whether the
// request is within limit for the current window.
func (l *RateLimiter) Check(ctx context.Context, resource, id string, limit int, window time.Duration) (bool, error) {
	if l.rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	cnt, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		if err := l.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return cnt <= int64(limit), nil
}

// Limit returns a middleware allowing limit requests per window for each
// client on the named resource. Clients are keyed by user id when
// authenticated, otherwise by remote IP.
func (l *RateLimiter) Limit(resource string, limit int, window time.Duration) fiber.Handler {
	if !l.enabled {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	memory := limiter.New(limiter.Config{
		Max:               limit,
		Expiration:        window,
		LimiterMiddleware: limiter.FixedWindow{},
		KeyGenerator:      clientKey,
		LimitReached: func(c *fiber.Ctx) error {
			return tooManyRequests(c, resource)
		},
	})

	return func(c *fiber.Ctx) error {
		if l.rdb == nil {
			return memory(c)
		}

		allowed, err := l.Check(c.UserContext(), resource, clientKey(c), limit, window)
		if err != nil {
			Logger.WarnContext(c.UserContext(), "rate limit store unavailable, using in-memory window",
				slog.String("resource", resource),
				slog.String("error", err.Error()),
			)
			return memory(c)
		}
		if !allowed {
			return tooManyRequests(c, resource)
		}
		return c.Next()
	}
}

func clientKey(c *fiber.Ctx) string {
	if uid, ok := c.Locals("userID").(uint); ok {
		return fmt.Sprintf("user:%d", uid)
	}
	return "ip:" + c.IP()
}

func tooManyRequests(c *fiber.Ctx, resource string) error {
	observability.RateLimited.WithLabelValues(resource).Inc()
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error": "rate limit exceeded",
	})
}
