package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"travel-log/globetrotter/internal/models/dtos"
)

type fakeSeeder struct {
	count   atomic.Int64
	loads   atomic.Int32
	failFor int32
}

func (f *fakeSeeder) Count(context.Context) (int64, error) {
	return f.count.Load(), nil
}

func (f *fakeSeeder) LoadFromURL(context.Context, string) (dtos.AirportSyncResponse, error) {
	n := f.loads.Add(1)
	if n <= f.failFor {
		return dtos.AirportSyncResponse{}, errors.New("upstream unavailable")
	}
	f.count.Store(10)
	return dtos.AirportSyncResponse{Parsed: 10, Inserted: 10}, nil
}

func TestAirportSeedJob_RunSeedsOnlyWhenEmpty(t *testing.T) {
	seeder := &fakeSeeder{}
	job := NewAirportSeedJob(seeder, "http://example.invalid/airports.dat")

	seeded, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = job.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Equal(t, int32(1), seeder.loads.Load())
}

func TestAirportSeedJob_RunScheduledRetries(t *testing.T) {
	seeder := &fakeSeeder{failFor: 2}
	job := NewAirportSeedJob(seeder, "http://example.invalid/airports.dat")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		job.RunScheduled(ctx, 10*time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("seed job did not finish")
	}
	assert.Equal(t, int32(3), seeder.loads.Load())
	assert.Equal(t, int64(10), seeder.count.Load())
}

func TestAirportSeedJob_RunScheduledStopsOnCancel(t *testing.T) {
	seeder := &fakeSeeder{failFor: 1 << 30}
	job := NewAirportSeedJob(seeder, "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.RunScheduled(ctx, time.Hour)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunScheduled ignored cancellation")
	}
}
