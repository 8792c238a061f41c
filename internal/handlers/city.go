package handlers

import (
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"globetrotter/internal/models"
	"globetrotter/internal/services"
)

// CityHandler handles the public city catalog and its admin-only writes
type CityHandler struct {
	cities *services.CityService
}

// NewCityHandler creates a new city handler
func NewCityHandler(cities *services.CityService) *CityHandler {
	return &CityHandler{cities: cities}
}

// Search filters the catalog. With include_facets=true the response is
// wrapped in {items, facets}; otherwise it is a plain array.
// GET /api/cities
func (h *CityHandler) Search(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q != "" && len(q) < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Search query must be at least 2 characters",
		})
	}

	query := models.CitySearchQuery{
		Query:         q,
		Country:       strings.TrimSpace(c.Query("country")),
		Skip:          int64(c.QueryInt("skip", 0)),
		Limit:         clampLimit(c.QueryInt("limit", 20), 20, 100),
		IncludeFacets: c.QueryBool("include_facets", false),
	}
	if query.Skip < 0 {
		query.Skip = 0
	}
	if v := c.Query("min_safety_rating"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			query.MinRating = &f
		}
	}
	if v := c.Query("max_cost_index"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			query.MaxCost = &f
		}
	}
	if v := c.Query("tags"); v != "" {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				query.Tags = append(query.Tags, tag)
			}
		}
	}

	cities, err := h.cities.Search(c.Context(), query)
	if err != nil {
		return svcError(c, err, "City")
	}

	if !query.IncludeFacets {
		return c.JSON(cities)
	}

	facets, err := h.cities.Facets(c.Context())
	if err != nil {
		log.Printf("⚠️ [CITY] Facet computation failed: %v", err)
		facets = nil
	}
	return c.JSON(models.CitySearchResult{Items: cities, Facets: facets})
}

// Featured returns the curated featured cities
// GET /api/cities/featured
func (h *CityHandler) Featured(c *fiber.Ctx) error {
	limit := clampLimit(c.QueryInt("limit", 8), 8, 20)

	cities, err := h.cities.Featured(c.Context(), limit)
	if err != nil {
		return svcError(c, err, "City")
	}
	return c.JSON(cities)
}

// ByCountry lists cities for an ISO country code
// GET /api/cities/country/:code
func (h *CityHandler) ByCountry(c *fiber.Ctx) error {
	code := c.Params("code")
	if len(code) != 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Country code must be 2 letters",
		})
	}

	cities, err := h.cities.ByCountry(c.Context(), strings.ToUpper(code))
	if err != nil {
		return svcError(c, err, "City")
	}
	return c.JSON(cities)
}

// Autocomplete returns name-prefix suggestions
// GET /api/cities/autocomplete?q=
func (h *CityHandler) Autocomplete(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if len(q) < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Search query must be at least 2 characters",
		})
	}
	limit := clampLimit(c.QueryInt("limit", 10), 10, 10)

	items, err := h.cities.Suggest(c.Context(), q, limit)
	if err != nil {
		return svcError(c, err, "City")
	}
	return c.JSON(items)
}

// Get returns one city by id
// GET /api/cities/:id
func (h *CityHandler) Get(c *fiber.Ctx) error {
	city, err := h.cities.Get(c.Context(), c.Params("id"))
	if err != nil {
		return svcError(c, err, "City")
	}
	return c.JSON(city)
}

// Create adds a city to the catalog. Admin only (enforced by middleware).
// POST /api/cities
func (h *CityHandler) Create(c *fiber.Ctx) error {
	var city models.City
	if err := c.BodyParser(&city); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if city.Name == "" || city.Country == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and country are required",
		})
	}

	created, err := h.cities.Create(c.Context(), city)
	if err != nil {
		return svcError(c, err, "City")
	}

	log.Printf("✅ [CITY] Created city %s, %s", created.Name, created.Country)
	return c.Status(fiber.StatusCreated).JSON(created)
}

// Update applies a partial city update. Admin only.
// PUT /api/cities/:id
func (h *CityHandler) Update(c *fiber.Ctx) error {
	var req models.UpdateCityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	city, err := h.cities.Update(c.Context(), c.Params("id"), req)
	if err != nil {
		return svcError(c, err, "City")
	}
	return c.JSON(city)
}

// Delete removes a city from the catalog. Admin only.
// DELETE /api/cities/:id
func (h *CityHandler) Delete(c *fiber.Ctx) error {
	if err := h.cities.Delete(c.Context(), c.Params("id")); err != nil {
		return svcError(c, err, "City")
	}

	log.Printf("🗑️ [CITY] Deleted city %s", c.Params("id"))
	return c.JSON(fiber.Map{"status": "success", "message": "City deleted"})
}
