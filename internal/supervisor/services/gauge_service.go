// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

package services

import (
	"context"
	"time"

	"github.com/tomtom215/feedwright/internal/metrics"
)

// StoreCounter reports current store sizes. Satisfied by
// *store.MemoryStore.
type StoreCounter interface {
	Counts() (posts, users int)
}

// StoreGaugeService periodically refreshes the store size gauges so they
// stay accurate even when writes bypass the HTTP handlers (seeding,
// Badger reload).
type StoreGaugeService struct {
	store    StoreCounter
	interval time.Duration
}

// NewStoreGaugeService creates a gauge refresher. A non-positive interval
// defaults to 15 seconds.
func NewStoreGaugeService(store StoreCounter, interval time.Duration) *StoreGaugeService {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &StoreGaugeService{
		store:    store,
		interval: interval,
	}
}

// Serve implements suture.Service.
func (s *StoreGaugeService) Serve(ctx context.Context) error {
	s.refresh()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.refresh()
		}
	}
}

func (s *StoreGaugeService) refresh() {
	posts, users := s.store.Counts()
	metrics.UpdateStoreGauges(posts, users)
}

// String identifies the service in suture log messages.
func (s *StoreGaugeService) String() string {
	return "store-gauges"
}
