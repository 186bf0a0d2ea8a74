package auth

import (
	"github.com/Abraxas-365/turnkey/pkg/errx"
	"github.com/Abraxas-365/turnkey/pkg/iam/user"
	"github.com/Abraxas-365/turnkey/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

// AuthHandlers exposes the auth operations over HTTP. Every response is a
// discriminated result: a success flag, a message, and the payload only on
// success.
type AuthHandlers struct {
	service    *AuthService
	middleware *TokenMiddleware
}

// NewAuthHandlers creates the HTTP handlers for the auth service.
func NewAuthHandlers(service *AuthService, middleware *TokenMiddleware) *AuthHandlers {
	return &AuthHandlers{service: service, middleware: middleware}
}

// RegisterRoutes mounts the auth routes on the app.
func (h *AuthHandlers) RegisterRoutes(app *fiber.App) {
	grp := app.Group("/api/auth")
	grp.Post("/register", h.Register)
	grp.Post("/login", h.Login)
	grp.Post("/validate-token", h.ValidateToken)
	grp.Post("/refresh", h.Refresh)
	grp.Post("/logout", h.Logout)
	grp.Get("/me", h.middleware.Authenticate(), h.Me)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	AppID    string `json:"app_id"`
	Role     string `json:"role"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandlers) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.WriteFiber(c, errx.Validation("Invalid request body"))
	}

	profile, err := h.service.Register(c.Context(), RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		AppID:    kernel.NewAppID(req.AppID),
		Role:     user.Role(req.Role),
	})
	if err != nil {
		return errx.WriteFiber(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
		"user":    profile,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	AppID    string `json:"app_id"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.WriteFiber(c, errx.Validation("Invalid request body"))
	}

	result, err := h.service.Login(c.Context(), req.Email, req.Password, kernel.NewAppID(req.AppID))
	if err != nil {
		return errx.WriteFiber(c, err)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"message":      "Login successful",
		"accessToken":  result.Tokens.AccessToken,
		"refreshToken": result.Tokens.RefreshToken,
		"user":         result.User,
	})
}

type tokenRequest struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ValidateToken handles POST /api/auth/validate-token.
func (h *AuthHandlers) ValidateToken(c *fiber.Ctx) error {
	var req tokenRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.WriteFiber(c, errx.Validation("Invalid request body"))
	}

	profile, err := h.service.ValidateToken(c.Context(), req.AccessToken)
	if err != nil {
		return errx.WriteFiber(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Token is valid",
		"user":    profile,
	})
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandlers) Refresh(c *fiber.Ctx) error {
	var req tokenRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.WriteFiber(c, errx.Validation("Invalid request body"))
	}

	accessToken, err := h.service.RefreshToken(c.Context(), req.RefreshToken)
	if err != nil {
		return errx.WriteFiber(c, err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"message":     "Token refreshed successfully",
		"accessToken": accessToken,
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandlers) Logout(c *fiber.Ctx) error {
	var req tokenRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.WriteFiber(c, errx.Validation("Invalid request body"))
	}

	if err := h.service.Logout(c.Context(), req.RefreshToken); err != nil {
		return errx.WriteFiber(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// Me handles GET /api/auth/me for an authenticated caller.
func (h *AuthHandlers) Me(c *fiber.Ctx) error {
	ac := AuthContextFrom(c)
	if ac == nil {
		return errx.WriteFiber(c, ErrInvalidToken())
	}

	profile, err := h.service.ValidateToken(c.Context(), extractBearer(c))
	if err != nil {
		return errx.WriteFiber(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Current user",
		"user":    profile,
	})
}
