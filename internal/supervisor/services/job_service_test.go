// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type mockJob struct {
	startErr error
	stopErr  error
	started  atomic.Bool
	stopped  atomic.Bool
}

func (m *mockJob) Name() string { return "mock" }

func (m *mockJob) Start(ctx context.Context) error {
	if m.startErr != nil {
		return m.startErr
	}
	m.started.Store(true)
	return nil
}

func (m *mockJob) Stop() error {
	m.stopped.Store(true)
	return m.stopErr
}

func TestJobServiceLifecycle(t *testing.T) {
	t.Parallel()

	job := &mockJob{}
	svc := NewJobService(job)
	if svc.String() != "job-mock" {
		t.Errorf("String() = %q, want job-mock", svc.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	if !job.started.Load() {
		t.Fatal("job not started")
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
	if !job.stopped.Load() {
		t.Error("job not stopped on shutdown")
	}
}

func TestJobServiceStartFailure(t *testing.T) {
	t.Parallel()

	job := &mockJob{startErr: errors.New("already running")}
	err := NewJobService(job).Serve(context.Background())
	if err == nil || !errors.Is(err, job.startErr) {
		t.Errorf("Serve = %v, want wrapped start error", err)
	}
}

type mockRouter struct {
	runErr error
}

func (m *mockRouter) Run(ctx context.Context) error {
	if m.runErr != nil {
		return m.runErr
	}
	<-ctx.Done()
	return nil
}

func (m *mockRouter) Close() error { return nil }

func TestRouterServiceRunsUntilCancel(t *testing.T) {
	t.Parallel()

	svc := NewRouterService(&mockRouter{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
}

func TestRouterServiceRunFailure(t *testing.T) {
	t.Parallel()

	router := &mockRouter{runErr: errors.New("subscriber closed")}
	err := NewRouterService(router).Serve(context.Background())
	if err == nil || !errors.Is(err, router.runErr) {
		t.Errorf("Serve = %v, want wrapped run error", err)
	}
}
