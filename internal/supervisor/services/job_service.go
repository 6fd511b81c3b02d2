// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package services

import (
	"context"
	"fmt"
)

// IntervalJob matches the lifecycle of a scheduler.Job.
type IntervalJob interface {
	Name() string
	Start(ctx context.Context) error
	Stop() error
}

// JobService adapts a scheduler.Job's Start/Stop lifecycle to suture's
// Serve pattern.
//
// Example usage:
//
//	job := scheduler.NewJob("retrain", cfg.Jobs.RetrainInterval, eng.RetrainAll, logger)
//	tree.AddJobService(services.NewJobService(job))
type JobService struct {
	job  IntervalJob
	name string
}

// NewJobService wraps an interval job as a supervised service.
func NewJobService(job IntervalJob) *JobService {
	return &JobService{
		job:  job,
		name: "job-" + job.Name(),
	}
}

// Serve implements suture.Service. Start launches the job loop; Stop
// waits for any run in flight before returning.
func (s *JobService) Serve(ctx context.Context) error {
	if err := s.job.Start(ctx); err != nil {
		return fmt.Errorf("job %s start failed: %w", s.job.Name(), err)
	}

	<-ctx.Done()

	if err := s.job.Stop(); err != nil {
		return fmt.Errorf("job %s stop failed: %w", s.job.Name(), err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer.
func (s *JobService) String() string {
	return s.name
}
