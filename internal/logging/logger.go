package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init configures the global slog logger.
// In production (ENVIRONMENT=production) it uses JSON output for log aggregation.
// Otherwise it uses the human-readable text handler.
func Init() {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	slog.SetDefault(slog.New(handler))
}

// WithRun returns a logger with planner run context fields attached.
// Use this for all logging within a single planning run.
func WithRun(runID, conversationID, userID string) *slog.Logger {
	return slog.With(
		"run_id", runID,
		"conversation_id", conversationID,
		"user_id", userID,
	)
}

// WithStep returns a logger scoped to one pipeline step within a run.
func WithStep(logger *slog.Logger, step string) *slog.Logger {
	return logger.With("step", step)
}
