package jobs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"
)

// Job is a unit of recurring background work.
type Job interface {
	// Name identifies the job in logs.
	Name() string
	// Schedule returns the five-field cron expression the job runs on.
	Schedule() string
	// Run performs one execution of the job.
	Run(ctx context.Context) error
}

// JobScheduler manages and runs scheduled jobs
type JobScheduler struct {
	scheduler gocron.Scheduler
	mu        sync.Mutex
	jobs      map[string]Job
	running   bool
}

// NewJobScheduler creates a new job scheduler with UTC scheduling
func NewJobScheduler() (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &JobScheduler{
		scheduler: scheduler,
		jobs:      make(map[string]Job),
	}, nil
}

// Register validates the job's cron expression and adds it to the
// scheduler.
func (s *JobScheduler) Register(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(job.Schedule()); err != nil {
		return fmt.Errorf("invalid cron expression for job %s: %w", job.Name(), err)
	}

	_, err := s.scheduler.NewJob(
		gocron.CronJob(job.Schedule(), false),
		gocron.NewTask(func() {
			s.runJob(job)
		}),
		gocron.WithName(job.Name()),
	)
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", job.Name(), err)
	}

	s.jobs[job.Name()] = job
	log.Printf("✅ [SCHEDULER] Registered job: %s (cron: %s)", job.Name(), job.Schedule())
	return nil
}

// Start begins running all registered jobs
func (s *JobScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	s.running = true
	s.scheduler.Start()
	log.Printf("🚀 [SCHEDULER] Started job scheduler with %d jobs", len(s.jobs))
}

// Stop gracefully stops the scheduler, waiting for running jobs
func (s *JobScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false

	if err := s.scheduler.Shutdown(); err != nil {
		log.Printf("⚠️  [SCHEDULER] Shutdown error: %v", err)
		return
	}
	log.Println("✅ [SCHEDULER] Job scheduler stopped")
}

// RunNow executes a registered job immediately, outside its schedule
func (s *JobScheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	job, exists := s.jobs[name]
	s.mu.Unlock()

	if !exists {
		return fmt.Errorf("job %s not registered", name)
	}

	log.Printf("🚀 [SCHEDULER] Running job '%s' immediately", name)
	return job.Run(ctx)
}

func (s *JobScheduler) runJob(job Job) {
	log.Printf("▶️  [SCHEDULER] Running job: %s", job.Name())
	start := time.Now()

	if err := job.Run(context.Background()); err != nil {
		log.Printf("❌ [SCHEDULER] Job '%s' failed: %v", job.Name(), err)
		return
	}

	log.Printf("✅ [SCHEDULER] Job '%s' completed in %v", job.Name(), time.Since(start))
}
