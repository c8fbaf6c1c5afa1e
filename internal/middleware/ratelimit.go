package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimit allows limit requests per client IP in each fixed window. Fiber's
// fixed window counts whole seconds, so windows shorter than 1s are raised.
func RateLimit(limit int, window time.Duration) fiber.Handler {
	if window < time.Second {
		window = time.Second
	}
	return limiter.New(limiter.Config{
		Max:               limit,
		Expiration:        window,
		LimiterMiddleware: limiter.FixedWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return reject(c, fiber.StatusTooManyRequests, "Too many requests, please try again later")
		},
	})
}
