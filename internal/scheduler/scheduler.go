// Package scheduler runs measurement cycles on a fixed cadence. The loop
// wakes on a short tick and compares the current time against the next due
// time, so an interrupt is observed promptly instead of after a full
// interval-long sleep.
package scheduler

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
)

// Logger is the logging behaviour the scheduler needs.
type Logger interface {
	Infof(format string, v ...any)
	Errorf(format string, v ...any)
}

// Config holds scheduler timing.
type Config struct {
	// Interval is the cadence between cycle starts.
	Interval time.Duration

	// Tick is how often the due-time check runs. Defaults to one minute.
	Tick time.Duration

	// Clock is injectable so tests run without wall-clock waits.
	Clock clock.Clock
}

// Scheduler drives one cycle immediately at startup and one per interval
// thereafter. Cycles run to completion on the scheduler's goroutine and
// never overlap; a long cycle simply delays the next due time.
type Scheduler struct {
	interval time.Duration
	tick     time.Duration
	clk      clock.Clock
	logger   Logger
}

func New(cfg Config, logger Logger) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Minute
	}
	if cfg.Tick <= 0 {
		cfg.Tick = time.Minute
	}
	if cfg.Tick > cfg.Interval {
		cfg.Tick = cfg.Interval
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Scheduler{
		interval: cfg.Interval,
		tick:     cfg.Tick,
		clk:      clk,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled. A cycle error is logged and contained;
// the loop always arms the next interval.
func (s *Scheduler) Run(ctx context.Context, cycle func(context.Context) error) {
	ticker := s.clk.Ticker(s.tick)
	defer ticker.Stop()

	s.runCycle(ctx, cycle)
	next := s.clk.Now().Add(s.interval)
	s.logger.Infof("next test in %s", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Infof("scheduler stopping")
			return
		case <-ticker.C:
			if s.clk.Now().Before(next) {
				continue
			}
			s.runCycle(ctx, cycle)
			next = s.clk.Now().Add(s.interval)
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context, cycle func(context.Context) error) {
	if ctx.Err() != nil {
		return
	}
	if err := cycle(ctx); err != nil {
		s.logger.Errorf("cycle failed: %v", err)
	}
}
