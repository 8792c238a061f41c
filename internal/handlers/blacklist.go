package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"globetrotter/internal/models"
	"globetrotter/internal/services"
)

// BlacklistHandler handles never-show-again item management
type BlacklistHandler struct {
	blacklist *services.BlacklistService
}

// NewBlacklistHandler creates a new blacklist handler
func NewBlacklistHandler(blacklist *services.BlacklistService) *BlacklistHandler {
	return &BlacklistHandler{blacklist: blacklist}
}

// resolveScope decides whose list is touched and whether the entry is
// admin-scoped. The admin flag comes from the token; the request body
// cannot grant it.
func (h *BlacklistHandler) resolveScope(c *fiber.Ctx, bodyUserID string, wantAdmin bool) (userID string, admin bool, err error) {
	authUser, ok := requireUser(c)
	if !ok {
		return "", false, errHandled
	}

	userID = authUser
	if bodyUserID != "" && bodyUserID != authUser {
		if !isAdmin(c) {
			return "", false, writeForbidden(c, "Cannot manage another user's blacklist")
		}
		userID = bodyUserID
	}

	if wantAdmin && !isAdmin(c) {
		return "", false, writeForbidden(c, "Admin blacklist requires admin privileges")
	}
	return userID, wantAdmin, nil
}

var errHandled = errors.New("response already written")

func writeForbidden(c *fiber.Ctx, msg string) error {
	_ = c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": msg})
	return errHandled
}

// Add blacklists an item for the user (or globally when admin-scoped)
// POST /api/blacklist/add
func (h *BlacklistHandler) Add(c *fiber.Ctx) error {
	var req models.BlacklistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.ItemName == "" || !req.ItemType.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Item name and a valid item type are required",
		})
	}

	userID, admin, err := h.resolveScope(c, req.UserID, req.IsAdmin)
	if err != nil {
		return nil
	}

	err = h.blacklist.Add(c.Context(), userID, req.ItemName, req.ItemType, req.ItemID, req.Reason, admin)
	if errors.Is(err, services.ErrAlreadyExists) {
		return c.JSON(fiber.Map{
			"status":  "error",
			"message": fmt.Sprintf("%s is already blacklisted", req.ItemName),
		})
	}
	if err != nil {
		return svcError(c, err, "Blacklist")
	}

	log.Printf("🚫 [BLACKLIST] %s blacklisted %q (%s)", userID, req.ItemName, req.ItemType)
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("Added %s to blacklist", req.ItemName),
	})
}

// Remove deletes a blacklist entry
// DELETE /api/blacklist/remove
func (h *BlacklistHandler) Remove(c *fiber.Ctx) error {
	var req models.BlacklistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.ItemName == "" || !req.ItemType.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Item name and a valid item type are required",
		})
	}

	userID, admin, err := h.resolveScope(c, req.UserID, req.IsAdmin)
	if err != nil {
		return nil
	}

	err = h.blacklist.Remove(c.Context(), userID, req.ItemName, req.ItemType, admin)
	if errors.Is(err, services.ErrNotFound) {
		return c.JSON(fiber.Map{
			"status":  "error",
			"message": fmt.Sprintf("%s not found in blacklist", req.ItemName),
		})
	}
	if err != nil {
		return svcError(c, err, "Blacklist")
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("Removed %s from blacklist", req.ItemName),
	})
}

// BulkAdd blacklists several items in one call
// POST /api/blacklist/bulk
func (h *BlacklistHandler) BulkAdd(c *fiber.Ctx) error {
	var req models.BulkBlacklistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if len(req.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "At least one item is required",
		})
	}

	userID, admin, err := h.resolveScope(c, req.UserID, req.IsAdmin)
	if err != nil {
		return nil
	}

	result := h.blacklist.BulkAdd(c.Context(), userID, req.Items, admin)
	return c.JSON(fiber.Map{"status": "success", "result": result})
}

// Get returns all blacklisted items visible to a user, merged with the
// admin scope
// GET /api/blacklist/:userId
func (h *BlacklistHandler) Get(c *fiber.Ctx) error {
	authUser, ok := requireUser(c)
	if !ok {
		return nil
	}

	userID := c.Params("userId")
	if userID != authUser && !isAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Cannot view another user's blacklist",
		})
	}

	blacklists, err := h.blacklist.All(c.Context(), userID)
	if err != nil {
		return svcError(c, err, "Blacklist")
	}
	return c.JSON(fiber.Map{"status": "success", "blacklists": blacklists})
}
