package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
)

// PendingCounter counts logs that are still waiting on a receipt.
type PendingCounter interface {
	CountPendingBefore(ctx context.Context, before time.Time) (int, error)
}

type Gauge interface {
	Set(float64)
}

// StaleDeliveryMonitor reports logs stuck in pending or sent longer than
// After. Vendors may never send a receipt; the monitor only makes that
// visible and never changes a log.
type StaleDeliveryMonitor struct {
	Logs     PendingCounter
	Gauge    Gauge
	After    time.Duration
	Schedule string
	Now      func() time.Time

	cron *cron.Cron
}

func NewStaleDeliveryMonitor(logs PendingCounter, gauge Gauge, after time.Duration, schedule string) *StaleDeliveryMonitor {
	return &StaleDeliveryMonitor{
		Logs:     logs,
		Gauge:    gauge,
		After:    after,
		Schedule: schedule,
		Now:      func() time.Time { return time.Now().UTC() },
		cron:     cron.New(),
	}
}

func (m *StaleDeliveryMonitor) Start(ctx context.Context) error {
	if _, err := m.cron.AddFunc(m.Schedule, func() { m.Check(ctx) }); err != nil {
		return fmt.Errorf("schedule stale delivery monitor %q: %w", m.Schedule, err)
	}
	m.cron.Start()
	log := logger.WithComponent("stale-monitor")
	log.Info().
		Str("schedule", m.Schedule).
		Dur("after", m.After).
		Msg("stale delivery monitor started")
	return nil
}

// Stop waits for a running check to finish.
func (m *StaleDeliveryMonitor) Stop() {
	<-m.cron.Stop().Done()
}

func (m *StaleDeliveryMonitor) Check(ctx context.Context) {
	log := logger.WithComponent("stale-monitor")

	count, err := m.Logs.CountPendingBefore(ctx, m.Now().Add(-m.After))
	if err != nil {
		log.Error().Err(err).Msg("failed to count stale deliveries")
		return
	}

	m.Gauge.Set(float64(count))
	if count > 0 {
		log.Warn().Int("count", count).Dur("after", m.After).Msg("deliveries without receipt")
	}
}
