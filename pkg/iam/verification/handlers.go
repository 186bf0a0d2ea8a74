package verification

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Abraxas-365/turnkey/pkg/errx"
	"github.com/Abraxas-365/turnkey/pkg/kernel"
)

// VerificationHandlers exposes the email verification flow over HTTP.
// All three OTP endpoints sit behind a per-IP rate limiter: the send
// routes trigger outbound email, and verify is a guess oracle.
type VerificationHandlers struct {
	service   *VerificationService
	rateLimit fiber.Handler
}

func NewVerificationHandlers(service *VerificationService, rateLimit fiber.Handler) *VerificationHandlers {
	return &VerificationHandlers{service: service, rateLimit: rateLimit}
}

// RegisterRoutes mounts the verification routes on the app.
func (h *VerificationHandlers) RegisterRoutes(app *fiber.App) {
	grp := app.Group("/api/auth")
	grp.Post("/send-verification", h.rateLimit, h.SendVerification)
	grp.Post("/resend-otp", h.rateLimit, h.ResendOTP)
	grp.Post("/verify-email", h.rateLimit, h.VerifyEmail)
}

type sendVerificationRequest struct {
	Email string `json:"email"`
	AppID string `json:"app_id"`
}

// SendVerification handles POST /api/auth/send-verification.
func (h *VerificationHandlers) SendVerification(c *fiber.Ctx) error {
	var req sendVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.WriteFiber(c, errx.Validation("Invalid request body"))
	}
	if req.Email == "" || req.AppID == "" {
		return errx.WriteFiber(c, errx.Validation("Email and app_id are required"))
	}

	if err := h.service.SendVerificationEmail(c.Context(), req.Email, kernel.NewAppID(req.AppID)); err != nil {
		return errx.WriteFiber(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Verification email sent",
	})
}

// ResendOTP handles POST /api/auth/resend-otp.
func (h *VerificationHandlers) ResendOTP(c *fiber.Ctx) error {
	var req sendVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.WriteFiber(c, errx.Validation("Invalid request body"))
	}
	if req.Email == "" || req.AppID == "" {
		return errx.WriteFiber(c, errx.Validation("Email and app_id are required"))
	}

	if err := h.service.ResendOTP(c.Context(), req.Email, kernel.NewAppID(req.AppID)); err != nil {
		return errx.WriteFiber(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP resent successfully",
	})
}

type verifyEmailRequest struct {
	Email string `json:"email"`
	AppID string `json:"app_id"`
	OTP   string `json:"otp"`
}

// VerifyEmail handles POST /api/auth/verify-email.
func (h *VerificationHandlers) VerifyEmail(c *fiber.Ctx) error {
	var req verifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.WriteFiber(c, errx.Validation("Invalid request body"))
	}
	if req.Email == "" || req.AppID == "" || req.OTP == "" {
		return errx.WriteFiber(c, errx.Validation("Email, app_id and otp are required"))
	}

	if err := h.service.VerifyEmail(c.Context(), req.Email, kernel.NewAppID(req.AppID), req.OTP); err != nil {
		return errx.WriteFiber(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Email verified successfully",
	})
}
