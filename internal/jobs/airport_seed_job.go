package jobs

import (
	"context"
	"fmt"
	"time"

	"travel-log/globetrotter/internal/logging"
	"travel-log/globetrotter/internal/models/dtos"
)

// AirportSeeder is the part of common.AirportLoaderService the job needs.
type AirportSeeder interface {
	Count(ctx context.Context) (int64, error)
	LoadFromURL(ctx context.Context, url string) (dtos.AirportSyncResponse, error)
}

// AirportSeedJob imports OpenFlights airports when none are stored yet
type AirportSeedJob struct {
	seeder AirportSeeder
	url    string
}

func NewAirportSeedJob(seeder AirportSeeder, url string) *AirportSeedJob {
	return &AirportSeedJob{seeder: seeder, url: url}
}

// Run seeds once. It reports whether an import happened.
func (j *AirportSeedJob) Run(ctx context.Context) (bool, error) {
	start := time.Now()

	count, err := j.seeder.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count airports: %w", err)
	}
	if count > 0 {
		logging.Debug("[AirportSeedJob] airports already present, skipping", "count", count)
		return false, nil
	}

	resp, err := j.seeder.LoadFromURL(ctx, j.url)
	if err != nil {
		return false, fmt.Errorf("seed airports: %w", err)
	}

	logging.Info("[AirportSeedJob] seeded airports",
		"parsed", resp.Parsed,
		"inserted", resp.Inserted,
		"duration", time.Since(start).String(),
	)
	return true, nil
}

// RunScheduled tries immediately and then on every tick until a seed
// succeeds or ctx is cancelled.
func (j *AirportSeedJob) RunScheduled(ctx context.Context, interval time.Duration) {
	if done := j.attempt(ctx, "initial"); done {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if done := j.attempt(ctx, "scheduled"); done {
				return
			}
		case <-ctx.Done():
			logging.Info("[AirportSeedJob] Shutting down scheduled seed")
			return
		}
	}
}

func (j *AirportSeedJob) attempt(ctx context.Context, phase string) bool {
	if _, err := j.Run(ctx); err != nil {
		logging.Error("[AirportSeedJob] Error in "+phase+" run", "error", err)
		return false
	}
	return true
}
