package workers

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"travel-log/globetrotter/internal/metrics"
)

type fixedCounter struct{ n int }

func (f *fixedCounter) ActiveSessions() int { return f.n }

func TestGuestSessionMonitorCheck(t *testing.T) {
	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	counter := &fixedCounter{n: 3}
	m := NewGuestSessionMonitor(counter, reg)

	assert.Equal(t, 3, m.check())
	assert.Equal(t, 3.0, testutil.ToFloat64(reg.GuestSessionsActive))

	counter.n = 0
	m.check()
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.GuestSessionsActive))
}

func TestGuestSessionMonitorStopsWithContext(t *testing.T) {
	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		NewGuestSessionMonitor(&fixedCounter{n: 1}, reg).Start(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.GuestSessionsActive))
}
