package workers

import (
	"context"
	"time"

	"travel-log/globetrotter/internal/logging"
	"travel-log/globetrotter/internal/metrics"
)

// SessionCounter reports how many guest sessions are live.
type SessionCounter interface {
	ActiveSessions() int
}

// GuestSessionMonitor publishes the guest session count as a gauge and logs
// when it changes.
type GuestSessionMonitor struct {
	sessions SessionCounter
	metrics  *metrics.MetricsRegistry
	last     int
}

func NewGuestSessionMonitor(sessions SessionCounter, metricsReg *metrics.MetricsRegistry) *GuestSessionMonitor {
	return &GuestSessionMonitor{sessions: sessions, metrics: metricsReg, last: -1}
}

// Start samples every interval until ctx is cancelled.
func (m *GuestSessionMonitor) Start(ctx context.Context, interval time.Duration) {
	logging.Info("[GuestSessionMonitor] Starting", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start
	m.check()

	for {
		select {
		case <-ctx.Done():
			logging.Info("[GuestSessionMonitor] Shutting down")
			return
		case <-ticker.C:
			m.check()
		}
	}
}

func (m *GuestSessionMonitor) check() int {
	n := m.sessions.ActiveSessions()
	if m.metrics != nil {
		m.metrics.GuestSessionsActive.Set(float64(n))
	}
	if n != m.last {
		logging.Debug("[GuestSessionMonitor] guest sessions", "active", n, "previous", m.last)
		m.last = n
	}
	return n
}
