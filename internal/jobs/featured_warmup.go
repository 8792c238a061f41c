package jobs

import (
	"context"
	"log"

	"globetrotter/internal/services"
)

const featuredWarmupLimit = 8

// FeaturedWarmupJob re-populates the in-process featured-cities cache
// after its TTL lapses, so the landing page read stays warm.
type FeaturedWarmupJob struct {
	cities *services.CityService
}

// NewFeaturedWarmupJob creates a new featured cities warmup job
func NewFeaturedWarmupJob(cities *services.CityService) *FeaturedWarmupJob {
	return &FeaturedWarmupJob{cities: cities}
}

// Name implements Job
func (j *FeaturedWarmupJob) Name() string { return "featured_warmup" }

// Schedule implements Job. Runs hourly, past the cache TTL.
func (j *FeaturedWarmupJob) Schedule() string { return "0 * * * *" }

// Run loads the featured cities, refreshing the cache as a side effect
func (j *FeaturedWarmupJob) Run(ctx context.Context) error {
	if j.cities == nil {
		log.Println("[WARMUP] Featured warmup disabled (requires MongoDB)")
		return nil
	}

	cities, err := j.cities.Featured(ctx, featuredWarmupLimit)
	if err != nil {
		return err
	}

	log.Printf("[WARMUP] Featured cities cache warmed with %d entries", len(cities))
	return nil
}
