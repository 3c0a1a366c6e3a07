package workers

import (
	"context"
	"time"

	"travel-log/globetrotter/internal/metrics"
)

const guestMonitorInterval = 30 * time.Second

type WorkersContainer struct {
	GuestMonitor *GuestSessionMonitor
}

// InitWorkers starts the background workers. They stop with ctx.
func InitWorkers(ctx context.Context, sessions SessionCounter, metricsReg *metrics.MetricsRegistry) *WorkersContainer {
	monitor := NewGuestSessionMonitor(sessions, metricsReg)
	go monitor.Start(ctx, guestMonitorInterval)

	return &WorkersContainer{
		GuestMonitor: monitor,
	}
}
