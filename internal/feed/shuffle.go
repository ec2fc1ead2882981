// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

package feed

import "math/rand"

// Shuffle returns a Fisher-Yates permutation of the selected candidates
// driven by the injected random source. It runs over the already-selected,
// quota-satisfying set only: presentation order changes, membership never
// does. The input slice is not modified.
func Shuffle(selected []ScoredCandidate, rng *rand.Rand) []ScoredCandidate {
	shuffled := make([]ScoredCandidate, len(selected))
	copy(shuffled, selected)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}
