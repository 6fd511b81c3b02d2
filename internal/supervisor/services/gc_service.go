// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package services

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// DefaultGCInterval is how often the value log GC pass runs.
const DefaultGCInterval = 10 * time.Minute

// gcDiscardRatio is the minimum reclaimable fraction for a value log
// file to be rewritten. Badger recommends 0.5.
const gcDiscardRatio = 0.5

// BadgerGCService periodically runs Badger value log garbage collection.
// Badger never reclaims value log space on its own; without this loop the
// training store grows unbounded.
type BadgerGCService struct {
	db       *badger.DB
	interval time.Duration
	clock    clockwork.Clock
	logger   zerolog.Logger
	name     string
}

// NewBadgerGCService creates the GC loop. A non-positive interval falls
// back to DefaultGCInterval.
func NewBadgerGCService(db *badger.DB, interval time.Duration, logger *zerolog.Logger) *BadgerGCService {
	if interval <= 0 {
		interval = DefaultGCInterval
	}
	return &BadgerGCService{
		db:       db,
		interval: interval,
		clock:    clockwork.NewRealClock(),
		logger:   logger.With().Str("component", "badger_gc").Logger(),
		name:     "badger-gc",
	}
}

// WithClock sets the time source. Tests pass a fake clock.
func (s *BadgerGCService) WithClock(clock clockwork.Clock) *BadgerGCService {
	s.clock = clock
	return s
}

// Serve implements suture.Service.
func (s *BadgerGCService) Serve(ctx context.Context) error {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			s.collect()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// collect runs GC passes until a pass rewrites nothing. One call to
// RunValueLogGC rewrites at most one value log file.
func (s *BadgerGCService) collect() {
	for {
		err := s.db.RunValueLogGC(gcDiscardRatio)
		if err == nil {
			continue
		}
		if errors.Is(err, badger.ErrNoRewrite) {
			return
		}
		s.logger.Warn().Err(err).Msg("value log GC pass failed")
		return
	}
}

// String implements fmt.Stringer.
func (s *BadgerGCService) String() string {
	return s.name
}
