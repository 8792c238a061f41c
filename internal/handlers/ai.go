package handlers

import (
	"github.com/gofiber/fiber/v2"

	"globetrotter/internal/models"
	"globetrotter/internal/services"
)

// AIHandler handles the advanced AI analysis endpoints
type AIHandler struct {
	ai *services.AdvancedAIService
}

// NewAIHandler creates a new AI handler
func NewAIHandler(ai *services.AdvancedAIService) *AIHandler {
	return &AIHandler{ai: ai}
}

// OptimizeHotels scores and ranks hotels for the caller's travel style
// POST /api/ai/optimize-hotels
func (h *AIHandler) OptimizeHotels(c *fiber.Ctx) error {
	if _, ok := requireUser(c); !ok {
		return nil
	}

	var req models.OptimizeHotelsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	return c.JSON(h.ai.OptimizeHotels(c.Context(), &req))
}

// TravelAlerts returns simulated alerts for the requested destinations
// POST /api/ai/travel-alerts
func (h *AIHandler) TravelAlerts(c *fiber.Ctx) error {
	if _, ok := requireUser(c); !ok {
		return nil
	}

	var req models.TravelAlertsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if len(req.Destinations) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "At least one destination is required",
		})
	}

	return c.JSON(h.ai.TravelAlerts(c.Context(), &req))
}

// TravelTips generates destination tips, falling back to static advice
// POST /api/ai/travel-tips
func (h *AIHandler) TravelTips(c *fiber.Ctx) error {
	if _, ok := requireUser(c); !ok {
		return nil
	}

	var req models.TravelTipsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Destination == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Destination is required",
		})
	}

	return c.JSON(h.ai.TravelTips(c.Context(), &req))
}

// OptimizeItinerary asks the model for timing improvements to a day plan
// POST /api/ai/optimize-itinerary
func (h *AIHandler) OptimizeItinerary(c *fiber.Ctx) error {
	if _, ok := requireUser(c); !ok {
		return nil
	}

	var req models.OptimizeItineraryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if len(req.Itinerary) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Itinerary is required",
		})
	}

	return c.JSON(h.ai.OptimizeItinerary(c.Context(), &req))
}
