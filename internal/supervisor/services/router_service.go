// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package services

import (
	"context"
	"fmt"
)

// ConsumerRouter matches the lifecycle of an events.Router.
type ConsumerRouter interface {
	Run(ctx context.Context) error
	Close() error
}

// RouterService runs the event consumer router under supervision.
//
// Router.Run blocks until the context is canceled, which maps directly
// onto suture's Serve contract. Close waits for in-flight handlers up to
// the router's close timeout.
type RouterService struct {
	router ConsumerRouter
	name   string
}

// NewRouterService wraps a consumer router as a supervised service.
func NewRouterService(router ConsumerRouter) *RouterService {
	return &RouterService{
		router: router,
		name:   "event-router",
	}
}

// Serve implements suture.Service.
func (s *RouterService) Serve(ctx context.Context) error {
	if err := s.router.Run(ctx); err != nil {
		return fmt.Errorf("event router failed: %w", err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer.
func (s *RouterService) String() string {
	return s.name
}
