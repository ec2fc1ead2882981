// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

package feed

import "math"

// EffectiveTotal bounds one feed's size: never more than requested, never
// more than exists, never more than the configured pool ceiling.
func EffectiveTotal(totalCandidates, requestedLimit, maxPoolSize int) int {
	n := requestedLimit
	if totalCandidates < n {
		n = totalCandidates
	}
	if maxPoolSize < n {
		n = maxPoolSize
	}
	if n < 0 {
		return 0
	}
	return n
}

// Allocate converts target proportions and an effective feed size into
// per-category item counts.
//
// Each quota is floor(effectiveTotal * proportion). The floor systematically
// under-allocates by a small remainder; that deficit, plus any shortfall
// from sparse categories, is covered by backfill after selection. The plan
// therefore always satisfies Total() <= effectiveTotal.
func Allocate(effectiveTotal int, proportions map[Category]float64) QuotaPlan {
	plan := make(QuotaPlan, len(Categories))
	for _, c := range Categories {
		plan[c] = int(math.Floor(float64(effectiveTotal) * proportions[c]))
	}
	return plan
}
