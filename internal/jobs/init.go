package jobs

import (
	"context"
	"time"
)

const airportSeedRetryInterval = 15 * time.Minute

// InitializeJobs starts the background jobs enabled by configuration
func InitializeJobs(ctx context.Context, seeder AirportSeeder, airportsURL string, seedOnStart bool) *AirportSeedJob {
	seedJob := NewAirportSeedJob(seeder, airportsURL)
	if seedOnStart {
		go seedJob.RunScheduled(ctx, airportSeedRetryInterval)
	}
	return seedJob
}
