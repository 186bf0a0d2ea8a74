package auth

import (
	"strings"

	"github.com/Abraxas-365/turnkey/pkg/iam"
	"github.com/Abraxas-365/turnkey/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

// TokenMiddleware authenticates requests carrying a JWT bearer token.
type TokenMiddleware struct {
	tokenService TokenService
}

// NewTokenMiddleware creates a new authentication middleware.
func NewTokenMiddleware(tokenService TokenService) *TokenMiddleware {
	return &TokenMiddleware{tokenService: tokenService}
}

// Authenticate validates the bearer token and stores the resulting
// AuthContext in request locals.
func (m *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearer(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": iam.ErrUnauthorized().Message,
			})
		}

		claims, err := m.tokenService.ValidateAccessToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": iam.ErrInvalidToken().Message,
			})
		}

		c.Locals(string(kernel.AuthContextKey), &kernel.AuthContext{
			UserID: claims.UserID,
			AppID:  claims.AppID,
			Email:  claims.Email,
			Role:   string(claims.Role),
		})

		return c.Next()
	}
}

// RequireAdmin rejects callers whose token does not carry the admin role.
// Must run after Authenticate.
func (m *TokenMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ac := AuthContextFrom(c)
		if ac == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": iam.ErrUnauthorized().Message,
			})
		}

		if !ac.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Admin access required",
			})
		}

		return c.Next()
	}
}

// AuthContextFrom returns the AuthContext attached by Authenticate, or nil.
func AuthContextFrom(c *fiber.Ctx) *kernel.AuthContext {
	ac, _ := c.Locals(string(kernel.AuthContextKey)).(*kernel.AuthContext)
	return ac
}

func extractBearer(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
