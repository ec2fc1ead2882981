// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

package feed

import "sort"

// rankBefore is the single ranking comparator for both per-category
// selection and backfill: score descending, then createdAt descending
// (newer first), then post ID ascending. The comparator is total, so
// output order is reproducible for identical inputs regardless of the
// underlying sort's stability.
func rankBefore(a, b ScoredCandidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if !a.Post.CreatedAt.Equal(b.Post.CreatedAt) {
		return a.Post.CreatedAt.After(b.Post.CreatedAt)
	}
	return a.Post.ID < b.Post.ID
}

// sortByRank orders candidates in place by rankBefore.
func sortByRank(candidates []ScoredCandidate) {
	sort.Slice(candidates, func(i, j int) bool {
		return rankBefore(candidates[i], candidates[j])
	})
}

// SelectTop returns the quota highest-ranked candidates from one category.
// The input slice is not modified.
func SelectTop(candidates []ScoredCandidate, quota int) []ScoredCandidate {
	if quota <= 0 || len(candidates) == 0 {
		return nil
	}
	ranked := make([]ScoredCandidate, len(candidates))
	copy(ranked, candidates)
	sortByRank(ranked)
	if quota < len(ranked) {
		ranked = ranked[:quota]
	}
	return ranked
}

// Backfill extends selected toward target items using the highest-ranked
// unselected candidates from pool, irrespective of category. Guarantees
// the feed is never shorter than necessary just because one category was
// sparse. Returns selected unchanged if it already meets the target or the
// pool is exhausted.
func Backfill(selected []ScoredCandidate, pool []ScoredCandidate, target int) []ScoredCandidate {
	if len(selected) >= target {
		return selected
	}

	chosen := make(map[string]struct{}, len(selected))
	for _, c := range selected {
		chosen[c.Post.ID] = struct{}{}
	}

	remaining := make([]ScoredCandidate, 0, len(pool))
	for _, c := range pool {
		if _, ok := chosen[c.Post.ID]; !ok {
			remaining = append(remaining, c)
		}
	}
	sortByRank(remaining)

	for _, c := range remaining {
		if len(selected) >= target {
			break
		}
		selected = append(selected, c)
	}
	return selected
}
