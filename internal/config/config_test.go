package config

import (
	"testing"
)

// clearEnv blanks every variable Load reads so tests see the defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HOST", "PORT", "ENVIRONMENT", "VERSION", "PROJECT_NAME",
		"MONGODB_URI", "REDIS_URL",
		"LLM_PROVIDER", "GEMINI_API_KEY", "GEMINI_MODEL",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL",
		"OPENWEATHER_API_KEY", "MAPBOX_ACCESS_TOKEN",
		"API_PREFIX", "ALLOWED_ORIGINS", "JWT_SECRET", "ADMIN_USER_IDS",
		"CONTEXT_RETENTION_DAYS", "CLEANUP_SCHEDULE",
		"SCORING_PROFILE_PATH", "SCORING_HOT_RELOAD",
	} {
		t.Setenv(key, "")
	}
}

// TestLoadDefaults tests the configuration defaults.
func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	if cfg.Host != "0.0.0.0" {
		t.Errorf("Host = %q, expected 0.0.0.0", cfg.Host)
	}
	if cfg.Port != "8000" {
		t.Errorf("Port = %q, expected 8000", cfg.Port)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, expected development", cfg.Environment)
	}
	if cfg.ProjectName != "GlobeTrotter AI" {
		t.Errorf("ProjectName = %q, expected GlobeTrotter AI", cfg.ProjectName)
	}
	if cfg.MongoURI != "mongodb://localhost:27017/globetrotter" {
		t.Errorf("Unexpected MongoURI: %q", cfg.MongoURI)
	}
	if cfg.RedisURL != "redis://localhost:6379" {
		t.Errorf("Unexpected RedisURL: %q", cfg.RedisURL)
	}
	if cfg.APIPrefix != "/api" {
		t.Errorf("APIPrefix = %q, expected /api", cfg.APIPrefix)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("Expected 2 default origins, got %d", len(cfg.AllowedOrigins))
	}
	if cfg.LLMProvider != "" {
		t.Errorf("LLMProvider = %q, expected empty", cfg.LLMProvider)
	}
	if cfg.JWTSecret != "" {
		t.Errorf("JWTSecret = %q, expected empty", cfg.JWTSecret)
	}
	if len(cfg.AdminUserIDs) != 0 {
		t.Errorf("Expected no admin IDs, got %v", cfg.AdminUserIDs)
	}
	if cfg.ContextRetentionDays != 30 {
		t.Errorf("ContextRetentionDays = %d, expected 30", cfg.ContextRetentionDays)
	}
	if cfg.CleanupSchedule != "0 3 * * *" {
		t.Errorf("CleanupSchedule = %q, expected 0 3 * * *", cfg.CleanupSchedule)
	}
	if cfg.ScoringProfilePath != "config/scoring.yaml" {
		t.Errorf("ScoringProfilePath = %q, expected config/scoring.yaml", cfg.ScoringProfilePath)
	}
	if !cfg.ScoringHotReload {
		t.Error("Expected ScoringHotReload to default to true")
	}
}

// TestLoadOverrides tests that environment variables replace the defaults.
func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9001")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("ADMIN_USER_IDS", "alice,bob")
	t.Setenv("CONTEXT_RETENTION_DAYS", "7")
	t.Setenv("SCORING_HOT_RELOAD", "false")
	t.Setenv("LLM_PROVIDER", "openai")

	cfg := Load()
	if cfg.Port != "9001" {
		t.Errorf("Port = %q, expected 9001", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Error("Expected IsProduction to be true")
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "https://app.example.com" {
		t.Errorf("Unexpected AllowedOrigins: %v", cfg.AllowedOrigins)
	}
	if len(cfg.AdminUserIDs) != 2 {
		t.Errorf("Expected 2 admin IDs, got %v", cfg.AdminUserIDs)
	}
	if cfg.ContextRetentionDays != 7 {
		t.Errorf("ContextRetentionDays = %d, expected 7", cfg.ContextRetentionDays)
	}
	if cfg.ScoringHotReload {
		t.Error("Expected ScoringHotReload to be false")
	}
	if cfg.LLMProvider != "openai" {
		t.Errorf("LLMProvider = %q, expected openai", cfg.LLMProvider)
	}
}

// TestLoadInvalidInts tests that unparseable numeric overrides keep the
// defaults.
func TestLoadInvalidInts(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONTEXT_RETENTION_DAYS", "a-month-or-so")

	cfg := Load()
	if cfg.ContextRetentionDays != 30 {
		t.Errorf("ContextRetentionDays = %d, expected the default 30", cfg.ContextRetentionDays)
	}
}

// TestIsAdminUser tests allowlist membership.
func TestIsAdminUser(t *testing.T) {
	cfg := &Config{AdminUserIDs: []string{"alice", "bob"}}

	if !cfg.IsAdminUser("alice") {
		t.Error("Expected alice to be an admin")
	}
	if cfg.IsAdminUser("carol") {
		t.Error("Expected carol not to be an admin")
	}
	if cfg.IsAdminUser("") {
		t.Error("Expected the empty ID not to be an admin")
	}
}

// TestSplitList tests comma splitting and whitespace trimming.
func TestSplitList(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b ", []string{"a", "b"}},
		{"a,,b", []string{"a", "b"}},
		{"", nil},
		{" , ", nil},
	}

	for _, tt := range tests {
		got := splitList(tt.input)
		if len(got) != len(tt.expected) {
			t.Errorf("splitList(%q) = %v, expected %v", tt.input, got, tt.expected)
			continue
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("splitList(%q)[%d] = %q, expected %q", tt.input, i, got[i], tt.expected[i])
			}
		}
	}
}

// TestGetBoolEnv tests boolean parsing with fallback.
func TestGetBoolEnv(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	if !getBoolEnv("TEST_BOOL", false) {
		t.Error("Expected true for TEST_BOOL=true")
	}

	t.Setenv("TEST_BOOL", "0")
	if getBoolEnv("TEST_BOOL", true) {
		t.Error("Expected false for TEST_BOOL=0")
	}

	t.Setenv("TEST_BOOL", "yes-please")
	if !getBoolEnv("TEST_BOOL", true) {
		t.Error("Expected the default for an unparseable value")
	}

	t.Setenv("TEST_BOOL", "")
	if getBoolEnv("TEST_BOOL", false) {
		t.Error("Expected the default for an unset value")
	}
}
