package usersrv

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Abraxas-365/turnkey/pkg/errx"
	"github.com/Abraxas-365/turnkey/pkg/iam/auth"
	"github.com/Abraxas-365/turnkey/pkg/kernel"
)

// UserHandlers exposes the admin user management endpoints. Every route
// requires an authenticated admin; tenant scoping comes from the
// caller's token, never from the request.
type UserHandlers struct {
	service    *UserService
	middleware *auth.TokenMiddleware
}

// NewUserHandlers creates the HTTP handlers for user management.
func NewUserHandlers(service *UserService, middleware *auth.TokenMiddleware) *UserHandlers {
	return &UserHandlers{service: service, middleware: middleware}
}

// RegisterRoutes mounts the user management routes on the app.
func (h *UserHandlers) RegisterRoutes(app *fiber.App) {
	grp := app.Group("/api/users", h.middleware.Authenticate(), h.middleware.RequireAdmin())
	grp.Get("/", h.List)
	grp.Delete("/:id", h.Delete)
}

// List handles GET /api/users with page, limit and search query
// parameters.
func (h *UserHandlers) List(c *fiber.Ctx) error {
	ac := auth.AuthContextFrom(c)
	if ac == nil {
		return errx.WriteFiber(c, auth.ErrInvalidToken())
	}

	opts := kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("limit", 20),
		Search:   c.Query("search"),
	}

	page, err := h.service.ListUsers(c.Context(), ac.AppID, opts)
	if err != nil {
		return errx.WriteFiber(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Users retrieved successfully",
		"users":      page.Items,
		"pagination": page.Page,
	})
}

// Delete handles DELETE /api/users/:id.
func (h *UserHandlers) Delete(c *fiber.Ctx) error {
	ac := auth.AuthContextFrom(c)
	if ac == nil {
		return errx.WriteFiber(c, auth.ErrInvalidToken())
	}

	profile, err := h.service.DeleteUser(c.Context(), kernel.NewUserID(c.Params("id")), ac.AppID)
	if err != nil {
		return errx.WriteFiber(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deleted successfully",
		"user":    profile,
	})
}
