package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"globetrotter/internal/services"
)

// currentUser returns the authenticated user id set by the auth
// middleware.
func currentUser(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals("user_id").(string)
	return userID, ok && userID != ""
}

// requireUser responds 401 and returns false when no identity is present.
func requireUser(c *fiber.Ctx) (string, bool) {
	userID, ok := currentUser(c)
	if !ok {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}
	return userID, ok
}

func isAdmin(c *fiber.Ctx) bool {
	admin, _ := c.Locals("is_admin").(bool)
	return admin
}

// svcError maps service sentinel errors onto HTTP responses. Unknown
// errors become a generic 500; the detail goes to the log, not the
// client.
func svcError(c *fiber.Ctx, err error, resource string) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": resource + " not found",
		})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied",
		})
	case errors.Is(err, services.ErrAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": resource + " already exists",
		})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	default:
		log.Printf("❌ [API] %s operation failed: %v", resource, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}

// clampLimit bounds a pagination limit to [1, max], applying def when the
// client sent nothing useful.
func clampLimit(v, def, max int) int64 {
	if v <= 0 {
		v = def
	}
	if v > max {
		v = max
	}
	return int64(v)
}
