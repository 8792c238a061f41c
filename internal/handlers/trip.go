package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"globetrotter/internal/models"
	"globetrotter/internal/services"
)

// TripHandler handles trip CRUD and nested itinerary edits
type TripHandler struct {
	trips *services.TripService
}

// NewTripHandler creates a new trip handler
func NewTripHandler(trips *services.TripService) *TripHandler {
	return &TripHandler{trips: trips}
}

// requireOwnedTrip fetches a trip and verifies the caller may modify it,
// writing the error response itself when not. Missing trips 404 before
// any ownership decision.
func (h *TripHandler) requireOwnedTrip(c *fiber.Ctx, userID string) (*models.Trip, bool) {
	trip, err := h.trips.Get(c.Context(), c.Params("id"))
	if err != nil {
		_ = svcError(c, err, "Trip")
		return nil, false
	}
	if trip.UserID != userID {
		_ = c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied",
		})
		return nil, false
	}
	return trip, true
}

// List returns the caller's trips, newest first
// GET /api/trips
func (h *TripHandler) List(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}

	skip := int64(c.QueryInt("skip", 0))
	if skip < 0 {
		skip = 0
	}
	limit := clampLimit(c.QueryInt("limit", 20), 20, 50)

	trips, err := h.trips.ListByUser(c.Context(), userID, skip, limit)
	if err != nil {
		return svcError(c, err, "Trip")
	}
	return c.JSON(trips)
}

// Create creates a trip owned by the caller
// POST /api/trips
func (h *TripHandler) Create(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}

	var req models.CreateTripRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Trip name is required",
		})
	}

	trip, err := h.trips.Create(c.Context(), userID, req)
	if err != nil {
		return svcError(c, err, "Trip")
	}

	log.Printf("✅ [TRIP] Created trip %s for user %s", trip.ID, userID)
	return c.Status(fiber.StatusCreated).JSON(trip)
}

// Get returns a single trip. Owners always see their trips; everyone else
// only public ones.
// GET /api/trips/:id
func (h *TripHandler) Get(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}

	trip, err := h.trips.Get(c.Context(), c.Params("id"))
	if err != nil {
		return svcError(c, err, "Trip")
	}
	if trip.UserID != userID && !trip.IsPublic {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied",
		})
	}
	return c.JSON(trip)
}

// Update applies a partial update to a trip
// PUT /api/trips/:id
func (h *TripHandler) Update(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	if _, ok := h.requireOwnedTrip(c, userID); !ok {
		return nil
	}

	var req models.UpdateTripRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	trip, err := h.trips.Update(c.Context(), c.Params("id"), req)
	if err != nil {
		return svcError(c, err, "Trip")
	}
	return c.JSON(trip)
}

// Delete removes a trip
// DELETE /api/trips/:id
func (h *TripHandler) Delete(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	if _, ok := h.requireOwnedTrip(c, userID); !ok {
		return nil
	}

	if err := h.trips.Delete(c.Context(), c.Params("id")); err != nil {
		return svcError(c, err, "Trip")
	}

	log.Printf("🗑️ [TRIP] Deleted trip %s", c.Params("id"))
	return c.JSON(fiber.Map{"status": "success", "message": "Trip deleted"})
}

// AddActivity appends an activity to a day, creating the day on first use
// POST /api/trips/:id/days/:date/activities
func (h *TripHandler) AddActivity(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	if _, ok := h.requireOwnedTrip(c, userID); !ok {
		return nil
	}

	var req models.AddActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Activity name is required",
		})
	}

	trip, err := h.trips.AddActivity(c.Context(), c.Params("id"), c.Params("date"), req)
	if err != nil {
		return svcError(c, err, "Trip")
	}
	return c.Status(fiber.StatusCreated).JSON(trip)
}

// UpdateActivity edits one activity on a given day
// PUT /api/trips/:id/days/:date/activities/:activityId
func (h *TripHandler) UpdateActivity(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	if _, ok := h.requireOwnedTrip(c, userID); !ok {
		return nil
	}

	var req models.UpdateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	trip, err := h.trips.UpdateActivity(c.Context(), c.Params("id"), c.Params("date"), c.Params("activityId"), req)
	if err != nil {
		return svcError(c, err, "Activity")
	}
	return c.JSON(trip)
}

// DeleteActivity removes one activity from a day
// DELETE /api/trips/:id/days/:date/activities/:activityId
func (h *TripHandler) DeleteActivity(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	if _, ok := h.requireOwnedTrip(c, userID); !ok {
		return nil
	}

	if err := h.trips.DeleteActivity(c.Context(), c.Params("id"), c.Params("date"), c.Params("activityId")); err != nil {
		return svcError(c, err, "Activity")
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Activity deleted"})
}

// AddBudgetItem appends a budget line item
// POST /api/trips/:id/budget
func (h *TripHandler) AddBudgetItem(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	if _, ok := h.requireOwnedTrip(c, userID); !ok {
		return nil
	}

	var req models.AddBudgetItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Category is required",
		})
	}

	trip, err := h.trips.AddBudgetItem(c.Context(), c.Params("id"), req)
	if err != nil {
		return svcError(c, err, "Trip")
	}
	return c.Status(fiber.StatusCreated).JSON(trip)
}

// UpdateBudgetItem edits a budget line item
// PUT /api/trips/:id/budget/:itemId
func (h *TripHandler) UpdateBudgetItem(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	if _, ok := h.requireOwnedTrip(c, userID); !ok {
		return nil
	}

	var req models.UpdateBudgetItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	trip, err := h.trips.UpdateBudgetItem(c.Context(), c.Params("id"), c.Params("itemId"), req)
	if err != nil {
		return svcError(c, err, "Budget item")
	}
	return c.JSON(trip)
}

// DeleteBudgetItem removes a budget line item
// DELETE /api/trips/:id/budget/:itemId
func (h *TripHandler) DeleteBudgetItem(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	if _, ok := h.requireOwnedTrip(c, userID); !ok {
		return nil
	}

	if err := h.trips.DeleteBudgetItem(c.Context(), c.Params("id"), c.Params("itemId")); err != nil {
		return svcError(c, err, "Budget item")
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Budget item deleted"})
}

// AddCity appends a city stop to the trip
// POST /api/trips/:id/cities
func (h *TripHandler) AddCity(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	if _, ok := h.requireOwnedTrip(c, userID); !ok {
		return nil
	}

	var req models.AddTripCityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "City name is required",
		})
	}

	trip, err := h.trips.AddCity(c.Context(), c.Params("id"), req)
	if err != nil {
		return svcError(c, err, "Trip")
	}
	return c.Status(fiber.StatusCreated).JSON(trip)
}

// ListCities returns the trip's city stops in order
// GET /api/trips/:id/cities
func (h *TripHandler) ListCities(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}

	trip, err := h.trips.Get(c.Context(), c.Params("id"))
	if err != nil {
		return svcError(c, err, "Trip")
	}
	if trip.UserID != userID && !trip.IsPublic {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied",
		})
	}
	return c.JSON(trip.Cities)
}

// RemoveCity removes a city stop from the trip
// DELETE /api/trips/:id/cities/:cityId
func (h *TripHandler) RemoveCity(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	if _, ok := h.requireOwnedTrip(c, userID); !ok {
		return nil
	}

	if err := h.trips.RemoveCity(c.Context(), c.Params("id"), c.Params("cityId")); err != nil {
		return svcError(c, err, "City")
	}
	return c.JSON(fiber.Map{"status": "success", "message": "City removed"})
}
