package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"globetrotter/internal/config"
	"globetrotter/internal/database"
	"globetrotter/internal/llm"
	"globetrotter/internal/services"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	cfg   *config.Config
	mongo *database.MongoDB
	redis *services.RedisService
	llm   llm.Provider
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cfg *config.Config, mongo *database.MongoDB, redis *services.RedisService, provider llm.Provider) *HealthHandler {
	return &HealthHandler{cfg: cfg, mongo: mongo, redis: redis, llm: provider}
}

// Handle responds with server health status and the state of each
// backing dependency. Mongo being down marks the service degraded;
// Redis and the LLM are optional and only reported.
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	status := "healthy"

	mongoStatus := "connected"
	if h.mongo == nil {
		status = "degraded"
		mongoStatus = "unavailable"
	} else {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := h.mongo.Ping(ctx); err != nil {
			status = "degraded"
			mongoStatus = "unavailable"
		}
	}

	redisStatus := "connected"
	if h.redis == nil {
		redisStatus = "unavailable"
	} else {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := h.redis.Ping(ctx); err != nil {
			redisStatus = "unavailable"
		}
	}

	llmStatus := "fallback"
	if h.llm != nil {
		llmStatus = h.llm.Name()
	}

	return c.JSON(fiber.Map{
		"status":      status,
		"service":     h.cfg.ProjectName,
		"version":     h.cfg.Version,
		"environment": h.cfg.Environment,
		"mongo":       mongoStatus,
		"redis":       redisStatus,
		"llm":         llmStatus,
		"timestamp":   time.Now().Format(time.RFC3339),
	})
}
