package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"globetrotter/internal/models"
	"globetrotter/internal/services"
)

// PreferencesHandler handles stored travel preferences and the
// recommendations derived from them
type PreferencesHandler struct {
	contexts *services.ContextService
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(contexts *services.ContextService) *PreferencesHandler {
	return &PreferencesHandler{contexts: contexts}
}

// canAccessUser allows the authenticated user themselves, or any admin.
func canAccessUser(c *fiber.Ctx, targetUser string) bool {
	authUser, ok := requireUser(c)
	if !ok {
		return false
	}
	if targetUser != authUser && !isAdmin(c) {
		_ = c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Cannot access another user's data",
		})
		return false
	}
	return true
}

// Save stores travel preferences for the caller
// POST /api/preferences/save
func (h *PreferencesHandler) Save(c *fiber.Ctx) error {
	authUser, ok := requireUser(c)
	if !ok {
		return nil
	}

	var req models.PreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if len(req.Preferences) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Preferences are required",
		})
	}

	userID := req.UserID
	if userID == "" {
		userID = authUser
	}
	if userID != authUser && !isAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Cannot access another user's data",
		})
	}

	if err := h.contexts.SavePreferences(c.Context(), userID, req.Preferences); err != nil {
		log.Printf("❌ [PREFS] Failed to save preferences for %s: %v", userID, err)
		return c.JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to save preferences",
		})
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Preferences saved successfully",
	})
}

// Get returns stored preferences, defaults when none saved yet
// GET /api/preferences/:userId
func (h *PreferencesHandler) Get(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if !canAccessUser(c, userID) {
		return nil
	}

	prefs, err := h.contexts.GetPreferences(c.Context(), userID)
	if err != nil {
		return svcError(c, err, "Preferences")
	}
	return c.JSON(fiber.Map{"status": "success", "preferences": prefs})
}

// Recommendations returns destination/activity/budget suggestions derived
// from history and preferences
// GET /api/recommendations/:userId
func (h *PreferencesHandler) Recommendations(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if !canAccessUser(c, userID) {
		return nil
	}

	recs, err := h.contexts.Recommendations(c.Context(), userID)
	if err != nil {
		return svcError(c, err, "Recommendations")
	}
	return c.JSON(fiber.Map{"status": "success", "recommendations": recs})
}
