// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

// Package scheduler provides interval-based job execution for background
// maintenance work.
//
// job.go - Interval Job Runner
//
// This file implements the Job runner that:
//   - Runs a named function on a fixed interval
//   - Optionally runs once immediately at startup
//   - Serializes runs so a slow run never overlaps the next tick
//   - Bounds each run with a per-run timeout
//
// Jobs take their time source from a clockwork.Clock so tests can drive
// the loop with a fake clock instead of sleeping. The supervisor tree
// wraps each Job in a service adapter for lifecycle management.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// RunFunc is the unit of work a Job executes on each tick.
//
// The context carries the per-run timeout when one is configured. A
// returned error is logged and counted but does not stop the loop.
type RunFunc func(ctx context.Context) error

// Job runs a function on a fixed interval until stopped.
//
// The zero value is not usable; construct with NewJob.
type Job struct {
	name     string
	interval time.Duration
	run      RunFunc
	logger   zerolog.Logger

	clock      clockwork.Clock
	timeout    time.Duration
	runAtStart bool

	// Runtime state
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	runs     atomic.Int64
	failures atomic.Int64
}

// Option configures a Job.
type Option func(*Job)

// WithClock sets the time source. Tests pass a clockwork fake clock to
// drive ticks with virtual time.
func WithClock(clock clockwork.Clock) Option {
	return func(j *Job) {
		j.clock = clock
	}
}

// WithRunAtStart makes the job execute once immediately when the loop
// starts, before the first tick.
func WithRunAtStart() Option {
	return func(j *Job) {
		j.runAtStart = true
	}
}

// WithTimeout bounds each run with a deadline. Zero or negative means
// no per-run timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(j *Job) {
		j.timeout = timeout
	}
}

// NewJob creates an interval job.
//
// Example usage:
//
//	job := scheduler.NewJob("trend-refresh", 15*time.Minute, extractor.RefreshTrending,
//		&logger, scheduler.WithRunAtStart())
//	svc := services.NewJobService(job)
//	tree.AddJobService(svc)
func NewJob(name string, interval time.Duration, run RunFunc, logger *zerolog.Logger, opts ...Option) *Job {
	if interval <= 0 {
		interval = time.Minute
	}

	j := &Job{
		name:     name,
		interval: interval,
		run:      run,
		logger:   logger.With().Str("component", "scheduler").Str("job", name).Logger(),
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Name returns the job name used in logs and service identification.
func (j *Job) Name() string {
	return j.name
}

// Interval returns the configured tick interval.
func (j *Job) Interval() time.Duration {
	return j.interval
}

// Start begins the job loop.
func (j *Job) Start(ctx context.Context) error {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return fmt.Errorf("job %s already running", j.name)
	}
	j.running = true
	j.stopCh = make(chan struct{})
	j.doneCh = make(chan struct{})
	j.mu.Unlock()

	j.logger.Info().
		Dur("interval", j.interval).
		Bool("run_at_start", j.runAtStart).
		Msg("Starting job")

	go j.loop(ctx)
	return nil
}

// Stop stops the job loop and waits for it to complete. A run in flight
// finishes before Stop returns.
func (j *Job) Stop() error {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return nil
	}
	j.mu.Unlock()

	close(j.stopCh)
	<-j.doneCh

	j.mu.Lock()
	j.running = false
	j.mu.Unlock()

	j.logger.Info().Msg("Job stopped")
	return nil
}

// IsRunning returns whether the job loop is currently active.
func (j *Job) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}

// Runs returns the total number of completed executions, including
// failed ones.
func (j *Job) Runs() int64 {
	return j.runs.Load()
}

// Failures returns the number of executions that returned an error.
func (j *Job) Failures() int64 {
	return j.failures.Load()
}

// loop is the main job loop.
func (j *Job) loop(ctx context.Context) {
	defer close(j.doneCh)

	ticker := j.clock.NewTicker(j.interval)
	defer ticker.Stop()

	if j.runAtStart {
		j.execute(ctx)
	}

	for {
		select {
		case <-ticker.Chan():
			j.execute(ctx)
		case <-j.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// execute performs a single run. The loop calls it synchronously, so
// runs never overlap even when one outlasts the interval.
func (j *Job) execute(parent context.Context) {
	ctx := parent
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, j.timeout)
		defer cancel()
	}

	start := j.clock.Now()
	err := j.run(ctx)
	elapsed := j.clock.Since(start)

	j.runs.Add(1)
	if err != nil {
		j.failures.Add(1)
		j.logger.Error().
			Err(err).
			Dur("duration", elapsed).
			Msg("Job run failed")
		return
	}

	j.logger.Debug().
		Dur("duration", elapsed).
		Msg("Job run completed")
}
