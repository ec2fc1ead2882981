// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

package feed

import (
	"errors"
	"fmt"
)

// CategoryWeights defines the per-category base score, which doubles as the
// category's target share of the feed (quota proportions are weight/sum).
// The reference configuration sums to 100 so each weight reads as a
// percentage, but any non-negative scheme with a positive sum is valid.
type CategoryWeights struct {
	// Followed is the weight for posts from followed authors.
	Followed float64 `json:"followed"`

	// Tier1Verified is the weight for posts from tier-1 verified authors.
	Tier1Verified float64 `json:"tier1_verified"`

	// Tier2Verified is the weight for posts from tier-2 verified authors.
	Tier2Verified float64 `json:"tier2_verified"`

	// Other is the weight for everything else.
	Other float64 `json:"other"`
}

// Weight returns the base score for a category. CategoryUnknown weighs zero.
func (w CategoryWeights) Weight(c Category) float64 {
	switch c {
	case CategoryFollowed:
		return w.Followed
	case CategoryTier1Verified:
		return w.Tier1Verified
	case CategoryTier2Verified:
		return w.Tier2Verified
	case CategoryOther:
		return w.Other
	default:
		return 0
	}
}

// Sum returns the total of all four weights.
func (w CategoryWeights) Sum() float64 {
	return w.Followed + w.Tier1Verified + w.Tier2Verified + w.Other
}

// Proportions returns each category's share of the feed, normalized so the
// shares sum to 1. Callers must have validated that Sum() > 0.
func (w CategoryWeights) Proportions() map[Category]float64 {
	sum := w.Sum()
	return map[Category]float64{
		CategoryFollowed:      w.Followed / sum,
		CategoryTier1Verified: w.Tier1Verified / sum,
		CategoryTier2Verified: w.Tier2Verified / sum,
		CategoryOther:         w.Other / sum,
	}
}

// Config contains all configuration for the feed engine.
// Validated once at engine construction, never re-read per call.
type Config struct {
	// Weights defines category base scores and quota proportions.
	Weights CategoryWeights `json:"weights"`

	// MaxCandidatePoolSize caps how many items one feed may draw from the
	// candidate pool, independent of the requested limit.
	MaxCandidatePoolSize int `json:"max_candidate_pool_size"`

	// EngagementBonusMultiplier scales the engagement-rate bonus.
	EngagementBonusMultiplier float64 `json:"engagement_bonus_multiplier"`

	// RecencyWindowHours is the age past which a post earns no recency
	// bonus. The cutoff is a hard cliff, not a decay.
	RecencyWindowHours float64 `json:"recency_window_hours"`

	// RecencyBonusMultiplier scales the recency bonus per remaining hour.
	RecencyBonusMultiplier float64 `json:"recency_bonus_multiplier"`

	// Seed initializes the engine's random source used to derive
	// per-request shuffle seeds. Zero means a fixed default.
	Seed int64 `json:"seed"`
}

// DefaultConfig returns the reference configuration: 35/30/25/10 category
// split, pool ceiling of 50, engagement x10, 24h recency window x2.
func DefaultConfig() *Config {
	return &Config{
		Weights: CategoryWeights{
			Followed:      35,
			Tier1Verified: 30,
			Tier2Verified: 25,
			Other:         10,
		},
		MaxCandidatePoolSize:      50,
		EngagementBonusMultiplier: 10,
		RecencyWindowHours:        24,
		RecencyBonusMultiplier:    2,
	}
}

// Validate checks the configuration. Construction-time only: a config that
// passes here cannot fail later per call.
func (c *Config) Validate() error {
	for _, cat := range Categories {
		if w := c.Weights.Weight(cat); w < 0 {
			return fmt.Errorf("category weight %s is negative: %v", cat, w)
		}
	}
	if c.Weights.Sum() <= 0 {
		return errors.New("category weights must sum to a positive value")
	}
	if c.MaxCandidatePoolSize <= 0 {
		return fmt.Errorf("max candidate pool size must be positive, got %d", c.MaxCandidatePoolSize)
	}
	if c.EngagementBonusMultiplier < 0 {
		return fmt.Errorf("engagement bonus multiplier is negative: %v", c.EngagementBonusMultiplier)
	}
	if c.RecencyWindowHours < 0 {
		return fmt.Errorf("recency window hours is negative: %v", c.RecencyWindowHours)
	}
	if c.RecencyBonusMultiplier < 0 {
		return fmt.Errorf("recency bonus multiplier is negative: %v", c.RecencyBonusMultiplier)
	}
	return nil
}
