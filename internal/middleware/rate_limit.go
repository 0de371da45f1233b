package middleware

import (
	"math"
	"strconv"

	"cafe/pkg/ratelimit"

	"github.com/gofiber/fiber/v2"
)

// LoginRateLimit throttles login attempts per client IP. A nil limiter disables it.
func LoginRateLimit(limiter ratelimit.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil {
			return c.Next()
		}
		allowed, retryAfter := limiter.Allow(c.UserContext(), "login:"+c.IP())
		if allowed {
			return c.Next()
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"message": "Too many login attempts, try again later",
		})
	}
}
