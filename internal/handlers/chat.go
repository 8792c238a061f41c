package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"globetrotter/internal/config"
	"globetrotter/internal/models"
	"globetrotter/internal/planner"
	"globetrotter/internal/services"
)

// chatRateLimit is the per-user budget for LLM-backed endpoints. The
// window lives in Redis so it holds across instances.
const (
	chatRateLimit  = 30
	chatRateWindow = time.Minute
)

// ChatHandler handles the conversational assistant endpoints
type ChatHandler struct {
	engine *planner.Engine
	redis  *services.RedisService
	cfg    *config.Config
}

// NewChatHandler creates a new chat handler
func NewChatHandler(engine *planner.Engine, redis *services.RedisService, cfg *config.Config) *ChatHandler {
	return &ChatHandler{engine: engine, redis: redis, cfg: cfg}
}

// checkChatBudget enforces the per-user chat rate limit. Redis being
// unavailable fails open.
func (h *ChatHandler) checkChatBudget(c *fiber.Ctx, userID string) bool {
	if h.redis == nil {
		return true
	}

	_, exceeded, err := h.redis.CheckRateLimit(c.Context(), "chat:"+userID, chatRateLimit, chatRateWindow)
	if err != nil {
		log.Printf("⚠️ [CHAT] Rate limit check failed for %s: %v", userID, err)
		return true
	}
	if exceeded {
		_ = c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Too many chat requests, please slow down",
		})
		return false
	}
	return true
}

// Chat processes one assistant turn
// POST /api/chat
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}

	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}
	req.UserID = userID

	if !h.checkChatBudget(c, userID) {
		return nil
	}

	response, err := h.engine.ProcessMessage(c.Context(), &req)
	if err != nil {
		return svcError(c, err, "Chat")
	}
	return c.JSON(response)
}

// GenerateItinerary produces a standalone LLM itinerary document
// POST /generate-itinerary
func (h *ChatHandler) GenerateItinerary(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}

	var req models.GenerateItineraryRequest
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

	if !h.checkChatBudget(c, userID) {
		return nil
	}

	return c.JSON(h.engine.GenerateItinerary(c.Context(), &req))
}

// Root returns the service banner
// GET /
func (h *ChatHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":     "Welcome to " + h.cfg.ProjectName + " API",
		"version":     h.cfg.Version,
		"environment": h.cfg.Environment,
		"docs":        "/docs",
	})
}
