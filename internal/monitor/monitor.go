// Package monitor composes the measurement client, storage gateway, and
// scheduler into the measure-and-store loop.
package monitor

import (
	"context"
	"time"

	"speedtest-monitor/internal/domain"
	"speedtest-monitor/internal/metrics"
	"speedtest-monitor/internal/scheduler"
)

// Logger is the logging behaviour the monitor needs.
type Logger interface {
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

// Monitor runs measurement cycles and persists their results. A failed cycle
// produces no record and never terminates the process.
type Monitor struct {
	measurer domain.Measurer
	store    domain.MeasurementWriter
	sched    *scheduler.Scheduler
	logger   Logger

	// Cycles never overlap, so plain state is enough.
	consecutiveFailures int
}

func New(measurer domain.Measurer, store domain.MeasurementWriter, sched *scheduler.Scheduler, logger Logger) *Monitor {
	return &Monitor{
		measurer: measurer,
		store:    store,
		sched:    sched,
		logger:   logger,
	}
}

// Run drives cycles on the configured cadence until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	m.sched.Run(ctx, m.RunCycle)
}

// RunCycle executes exactly one measure-and-store cycle. All-or-nothing: a
// failure at any step leaves the store untouched for this cycle.
func (m *Monitor) RunCycle(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.RecordCycle(time.Since(start))
	}()

	m.logger.Infof("running speed test")

	measurement, err := m.measurer.Run(ctx)
	if err != nil {
		m.failed(metrics.StageMeasure)
		return err
	}

	if err := m.store.Insert(ctx, measurement); err != nil {
		// The measurement is lost for this cycle; the loop continues.
		m.failed(metrics.StageStore)
		return err
	}

	m.consecutiveFailures = 0
	metrics.SetConsecutiveFailures(0)
	metrics.RecordResult(measurement)
	m.logger.Infof("measurement stored: download %.2f Mbps, upload %.2f Mbps, ping %.2f ms",
		measurement.DownloadMbps, measurement.UploadMbps, measurement.PingMs)

	return nil
}

// ConsecutiveFailures reports how many cycles in a row have failed.
func (m *Monitor) ConsecutiveFailures() int {
	return m.consecutiveFailures
}

func (m *Monitor) failed(stage string) {
	m.consecutiveFailures++
	metrics.RecordFailure(stage)
	metrics.SetConsecutiveFailures(m.consecutiveFailures)
	if m.consecutiveFailures > 1 {
		m.logger.Warnf("%d consecutive cycles have failed", m.consecutiveFailures)
	}
}
