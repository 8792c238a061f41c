package middleware

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	// Global limits (per IP)
	GlobalAPIMax        int // Max requests per minute for all API endpoints
	GlobalAPIExpiration time.Duration

	// Public read endpoint limits (per IP) - city search, featured, autocomplete
	PublicReadMax        int
	PublicReadExpiration time.Duration

	// AI endpoint limits (per user ID) - chat, voice, itinerary, advanced AI
	AIMax        int
	AIExpiration time.Duration
}

// DefaultRateLimitConfig returns production-safe defaults
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		// Global: 200/min = ~3.3 req/sec
		GlobalAPIMax:        200,
		GlobalAPIExpiration: 1 * time.Minute,

		// Public reads: 120/min = 2 req/sec
		PublicReadMax:        120,
		PublicReadExpiration: 1 * time.Minute,

		// AI operations: 30/min (each one may call the LLM)
		AIMax:        30,
		AIExpiration: 1 * time.Minute,
	}
}

// LoadRateLimitConfig loads config from environment variables with defaults
func LoadRateLimitConfig() *RateLimitConfig {
	config := DefaultRateLimitConfig()

	if v := os.Getenv("RATE_LIMIT_GLOBAL_API"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.GlobalAPIMax = n
		}
	}

	if v := os.Getenv("RATE_LIMIT_PUBLIC_READ"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.PublicReadMax = n
		}
	}

	if v := os.Getenv("RATE_LIMIT_AI"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.AIMax = n
		}
	}

	// Development mode: more lenient limits
	if os.Getenv("ENVIRONMENT") == "development" {
		config.GlobalAPIMax = 1000
		config.AIMax = 100
		log.Println("⚠️  [RATE-LIMIT] Development mode: using relaxed rate limits")
	}

	return config
}

// GlobalAPIRateLimiter creates a rate limiter for all API requests
func GlobalAPIRateLimiter(config *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.GlobalAPIMax,
		Expiration: config.GlobalAPIExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "global:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Printf("🚫 [RATE-LIMIT] Global limit reached for IP: %s", c.IP())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Too many requests. Please slow down.",
				"retry_after": int(config.GlobalAPIExpiration.Seconds()),
			})
		},
	})
}

// PublicReadRateLimiter for unauthenticated read-only endpoints
func PublicReadRateLimiter(config *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.PublicReadMax,
		Expiration: config.PublicReadExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "public:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Printf("⚠️  [RATE-LIMIT] Public endpoint limit reached for IP: %s on %s", c.IP(), c.Path())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Too many requests to this endpoint.",
				"retry_after": int(config.PublicReadExpiration.Seconds()),
			})
		},
	})
}

// AIRateLimiter for endpoints that may reach the language model.
// Keyed by user ID when authenticated, IP otherwise.
func AIRateLimiter(config *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.AIMax,
		Expiration: config.AIExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			if userID, ok := c.Locals("user_id").(string); ok && userID != "" && userID != "anonymous" {
				return "ai:" + userID
			}
			return "ai-ip:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			userID, _ := c.Locals("user_id").(string)
			log.Printf("⚠️  [RATE-LIMIT] AI endpoint limit reached for user: %s on %s", userID, c.Path())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Too many AI requests. Please wait before trying again.",
				"retry_after": int(config.AIExpiration.Seconds()),
			})
		},
	})
}
