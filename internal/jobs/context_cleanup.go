package jobs

import (
	"context"
	"log"
	"time"

	"globetrotter/internal/services"
)

// ContextCleanupJob deletes per-user planning contexts that have been
// idle past the retention window.
type ContextCleanupJob struct {
	contexts      *services.ContextService
	retentionDays int
	schedule      string
}

// NewContextCleanupJob creates a new context cleanup job
func NewContextCleanupJob(contexts *services.ContextService, retentionDays int, schedule string) *ContextCleanupJob {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	if schedule == "" {
		schedule = "0 3 * * *"
	}

	return &ContextCleanupJob{
		contexts:      contexts,
		retentionDays: retentionDays,
		schedule:      schedule,
	}
}

// Name implements Job
func (j *ContextCleanupJob) Name() string { return "context_cleanup" }

// Schedule implements Job
func (j *ContextCleanupJob) Schedule() string { return j.schedule }

// Run deletes contexts idle for longer than the retention window
func (j *ContextCleanupJob) Run(ctx context.Context) error {
	if j.contexts == nil {
		log.Println("[CLEANUP] Context cleanup disabled (requires MongoDB)")
		return nil
	}

	retention := time.Duration(j.retentionDays) * 24 * time.Hour
	deleted, err := j.contexts.CleanupOldContexts(ctx, retention)
	if err != nil {
		return err
	}

	log.Printf("[CLEANUP] Context cleanup complete: removed %d contexts older than %d days", deleted, j.retentionDays)
	return nil
}
