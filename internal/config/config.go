package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	Host        string
	Port        string
	Environment string // "development" or "production"
	Version     string
	ProjectName string

	MongoURI string
	RedisURL string

	// LLM provider configuration
	LLMProvider   string // "gemini", "openai" or "" for the built-in planner
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// External data providers
	OpenWeatherAPIKey string
	MapboxAccessToken string

	// HTTP surface
	APIPrefix      string
	AllowedOrigins []string

	// Auth configuration. Empty JWTSecret keeps the mock identity flow.
	JWTSecret string

	// User IDs granted the admin flag regardless of token claims
	AdminUserIDs []string

	// Retention for per-user planning contexts, in days
	ContextRetentionDays int

	// Cron expression for the context cleanup job
	CleanupSchedule string

	// Path to the hotel scoring profile file
	ScoringProfilePath string

	// Watch the scoring profile and hot-reload it on change. Disable
	// when the profile lives on a read-only mount.
	ScoringHotReload bool
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	// Parse allowed CORS origins (comma-separated)
	origins := splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"))

	// Parse admin user IDs (comma-separated)
	admins := splitList(getEnv("ADMIN_USER_IDS", ""))

	return &Config{
		Host:        getEnv("HOST", "0.0.0.0"),
		Port:        getEnv("PORT", "8000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		Version:     getEnv("VERSION", "1.0.0"),
		ProjectName: getEnv("PROJECT_NAME", "GlobeTrotter AI"),

		MongoURI: getEnv("MONGODB_URI", "mongodb://localhost:27017/globetrotter"),
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		// LLM provider configuration
		LLMProvider:   getEnv("LLM_PROVIDER", ""),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		// External data providers
		OpenWeatherAPIKey: getEnv("OPENWEATHER_API_KEY", ""),
		MapboxAccessToken: getEnv("MAPBOX_ACCESS_TOKEN", ""),

		// HTTP surface
		APIPrefix:      getEnv("API_PREFIX", "/api"),
		AllowedOrigins: origins,

		JWTSecret:    getEnv("JWT_SECRET", ""),
		AdminUserIDs: admins,

		ContextRetentionDays: getIntEnv("CONTEXT_RETENTION_DAYS", 30),
		CleanupSchedule:      getEnv("CLEANUP_SCHEDULE", "0 3 * * *"),

		ScoringProfilePath: getEnv("SCORING_PROFILE_PATH", "config/scoring.yaml"),
		ScoringHotReload:   getBoolEnv("SCORING_HOT_RELOAD", true),
	}
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsAdminUser reports whether the user ID is on the admin allowlist.
func (c *Config) IsAdminUser(userID string) bool {
	for _, id := range c.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
