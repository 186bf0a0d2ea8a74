package ratelimit

import (
	"github.com/Abraxas-365/turnkey/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

// Middleware returns a fiber handler enforcing the limiter per client IP.
// A limiter failure (e.g. Redis down) admits the request: availability of
// the guarded endpoints wins over strict limiting.
func Middleware(limiter Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, err := limiter.Allow(c.Context(), c.IP())
		if err != nil {
			logx.WithError(err).Warn("rate limiter unavailable, admitting request")
			return c.Next()
		}

		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "Rate limit exceeded",
			})
		}

		return c.Next()
	}
}
