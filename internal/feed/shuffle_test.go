// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

package feed

import (
	"math/rand"
	"testing"
	"time"
)

func TestShufflePreservesMembership(t *testing.T) {
	selected := make([]ScoredCandidate, 20)
	for i := range selected {
		selected[i] = candidate(string(rune('a'+i)), float64(i), time.Hour)
	}

	shuffled := Shuffle(selected, rand.New(rand.NewSource(7)))

	if len(shuffled) != len(selected) {
		t.Fatalf("shuffle changed length: %d != %d", len(shuffled), len(selected))
	}
	seen := make(map[string]int, len(shuffled))
	for _, c := range shuffled {
		seen[c.Post.ID]++
	}
	for _, c := range selected {
		if seen[c.Post.ID] != 1 {
			t.Errorf("post %s appears %d times after shuffle", c.Post.ID, seen[c.Post.ID])
		}
	}
}

func TestShuffleDeterministicPerSeed(t *testing.T) {
	selected := []ScoredCandidate{
		candidate("a", 1, time.Hour),
		candidate("b", 2, time.Hour),
		candidate("c", 3, time.Hour),
		candidate("d", 4, time.Hour),
		candidate("e", 5, time.Hour),
	}

	first := Shuffle(selected, rand.New(rand.NewSource(99)))
	second := Shuffle(selected, rand.New(rand.NewSource(99)))

	for i := range first {
		if first[i].Post.ID != second[i].Post.ID {
			t.Fatalf("same seed produced different orders: %v vs %v", ids(first), ids(second))
		}
	}
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	selected := []ScoredCandidate{
		candidate("a", 1, time.Hour),
		candidate("b", 2, time.Hour),
		candidate("c", 3, time.Hour),
	}

	Shuffle(selected, rand.New(rand.NewSource(1)))

	assertOrder(t, selected, "a", "b", "c")
}

func TestShuffleEmptyAndSingle(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	if got := Shuffle(nil, rng); len(got) != 0 {
		t.Errorf("shuffling nil returned %d items", len(got))
	}

	single := []ScoredCandidate{candidate("only", 1, time.Hour)}
	if got := Shuffle(single, rng); len(got) != 1 || got[0].Post.ID != "only" {
		t.Errorf("shuffling one item changed it: %v", ids(got))
	}
}
