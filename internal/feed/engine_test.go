// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// mockSnapshotSource implements SnapshotSource for testing.
type mockSnapshotSource struct {
	snapshot Snapshot
	err      error
	calls    int
	mu       sync.Mutex
}

func (m *mockSnapshotSource) Snapshot(ctx context.Context) (Snapshot, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return Snapshot{}, m.err
	}
	return m.snapshot, nil
}

func (m *mockSnapshotSource) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var engineNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, cfg *Config, snap Snapshot) (*Engine, *mockSnapshotSource) {
	t.Helper()
	source := &mockSnapshotSource{snapshot: snap}
	engine, err := NewEngine(cfg, source, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	return engine, source
}

// authorPosts builds n zero-engagement posts from one author, created at
// the given time with distinct IDs.
func authorPosts(authorID string, n int, createdAt time.Time) []Post {
	posts := make([]Post, n)
	for i := range posts {
		posts[i] = Post{
			ID:        fmt.Sprintf("%s-%02d", authorID, i),
			AuthorID:  authorID,
			CreatedAt: createdAt,
		}
	}
	return posts
}

func TestNewEngineValidatesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights = CategoryWeights{}

	_, err := NewEngine(cfg, &mockSnapshotSource{}, zerolog.Nop())
	if err == nil {
		t.Fatal("NewEngine() accepted zero-sum weights")
	}
}

func TestNewEngineRequiresSource(t *testing.T) {
	if _, err := NewEngine(DefaultConfig(), nil, zerolog.Nop()); err == nil {
		t.Fatal("NewEngine() accepted nil snapshot source")
	}
}

func TestGetFeedShortCircuitsNonPositiveLimit(t *testing.T) {
	engine, source := newTestEngine(t, nil, Snapshot{})

	for _, limit := range []int{0, -1, -100} {
		resp, err := engine.GetFeed(context.Background(), Request{RequesterID: "u1", Limit: limit})
		if err != nil {
			t.Fatalf("GetFeed(limit=%d) error: %v", limit, err)
		}
		if len(resp.PostIDs) != 0 {
			t.Errorf("GetFeed(limit=%d) returned %d items", limit, len(resp.PostIDs))
		}
		if resp.Meta.EmptyReason != ReasonLimit {
			t.Errorf("empty reason = %q, want %q", resp.Meta.EmptyReason, ReasonLimit)
		}
	}

	// Short-circuit means no snapshot read at all.
	if n := source.callCount(); n != 0 {
		t.Errorf("snapshot read %d times for non-positive limits, want 0", n)
	}
}

func TestGetFeedUnknownRequester(t *testing.T) {
	engine, _ := newTestEngine(t, nil, Snapshot{
		Posts: authorPosts("a", 5, engineNow),
		Users: map[string]UserProfile{"a": profile("a", TierNone)},
	})

	resp, err := engine.GetFeed(context.Background(), Request{RequesterID: "nobody", Limit: 10, Now: engineNow})
	if err != nil {
		t.Fatalf("GetFeed() error: %v", err)
	}
	if len(resp.PostIDs) != 0 || resp.Meta.EmptyReason != ReasonUnknownRequester {
		t.Errorf("unknown requester: got %d items, reason %q", len(resp.PostIDs), resp.Meta.EmptyReason)
	}
}

func TestGetFeedEmptyPool(t *testing.T) {
	engine, _ := newTestEngine(t, nil, Snapshot{
		Users: map[string]UserProfile{"u1": profile("u1", TierNone)},
	})

	resp, err := engine.GetFeed(context.Background(), Request{RequesterID: "u1", Limit: 10, Now: engineNow})
	if err != nil {
		t.Fatalf("GetFeed() error: %v", err)
	}
	if len(resp.PostIDs) != 0 || resp.Meta.EmptyReason != ReasonNoCandidates {
		t.Errorf("empty pool: got %d items, reason %q", len(resp.PostIDs), resp.Meta.EmptyReason)
	}
}

func TestGetFeedSnapshotError(t *testing.T) {
	source := &mockSnapshotSource{err: errors.New("store down")}
	engine, err := NewEngine(nil, source, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}

	if _, err := engine.GetFeed(context.Background(), Request{RequesterID: "u1", Limit: 10}); err == nil {
		t.Fatal("GetFeed() swallowed snapshot source failure")
	}
}

func TestGetFeedLengthBounds(t *testing.T) {
	users := map[string]UserProfile{
		"u1": profile("u1", TierNone, "a"),
		"a":  profile("a", TierNone),
		"b":  profile("b", Tier1),
	}
	posts := append(authorPosts("a", 8, engineNow), authorPosts("b", 8, engineNow)...)
	engine, _ := newTestEngine(t, nil, Snapshot{Posts: posts, Users: users})

	for _, limit := range []int{1, 4, 16, 100} {
		resp, err := engine.GetFeed(context.Background(), Request{RequesterID: "u1", Limit: limit, Now: engineNow})
		if err != nil {
			t.Fatalf("GetFeed(limit=%d) error: %v", limit, err)
		}
		if len(resp.PostIDs) > limit {
			t.Errorf("limit=%d: returned %d items", limit, len(resp.PostIDs))
		}
		if len(resp.PostIDs) > len(posts) {
			t.Errorf("limit=%d: returned more items than candidates", limit)
		}
	}
}

// TestGetFeedFollowedDominance reproduces the reference scenario: 10 posts
// from a followed author and 10 from a stranger, all tied on engagement and
// recency, limit 4. The followed category's weight must win every slot.
func TestGetFeedFollowedDominance(t *testing.T) {
	users := map[string]UserProfile{
		"u1": profile("u1", TierNone, "a"),
		"a":  profile("a", TierNone),
		"b":  profile("b", TierNone),
	}
	posts := append(authorPosts("a", 10, engineNow), authorPosts("b", 10, engineNow)...)
	engine, _ := newTestEngine(t, nil, Snapshot{Posts: posts, Users: users})

	resp, err := engine.GetFeed(context.Background(), Request{RequesterID: "u1", Limit: 4, Now: engineNow, Seed: 1})
	if err != nil {
		t.Fatalf("GetFeed() error: %v", err)
	}
	if len(resp.PostIDs) != 4 {
		t.Fatalf("returned %d items, want 4", len(resp.PostIDs))
	}
	for _, id := range resp.PostIDs {
		if id[0] != 'a' {
			t.Errorf("slot filled by stranger post %s; all 4 should be followed-author posts", id)
		}
	}
}

// TestGetFeedSparsePoolBackfill reproduces the reference scenario: 2 posts
// total, both CategoryOther, limit 10. Backfill returns exactly 2, not 10,
// not an error.
func TestGetFeedSparsePoolBackfill(t *testing.T) {
	users := map[string]UserProfile{
		"u1": profile("u1", TierNone),
		"x":  profile("x", TierNone),
		"y":  profile("y", TierNone),
	}
	posts := []Post{
		{ID: "p1", AuthorID: "x", CreatedAt: engineNow},
		{ID: "p2", AuthorID: "y", CreatedAt: engineNow},
	}
	engine, _ := newTestEngine(t, nil, Snapshot{Posts: posts, Users: users})

	resp, err := engine.GetFeed(context.Background(), Request{RequesterID: "u1", Limit: 10, Now: engineNow})
	if err != nil {
		t.Fatalf("GetFeed() error: %v", err)
	}
	if len(resp.PostIDs) != 2 {
		t.Errorf("returned %d items, want 2", len(resp.PostIDs))
	}
	if resp.Meta.SelectedCount != 2 {
		t.Errorf("selected count = %d, want 2", resp.Meta.SelectedCount)
	}
}

// TestGetFeedSelectedCountInvariant checks the pre-shuffle selection always
// equals min(effectiveTotal, resolvable candidates) across pool shapes.
func TestGetFeedSelectedCountInvariant(t *testing.T) {
	users := map[string]UserProfile{
		"u1": profile("u1", TierNone, "f"),
		"f":  profile("f", TierNone),
		"g":  profile("g", Tier1),
		"b":  profile("b", Tier2),
		"o":  profile("o", TierNone),
	}

	tests := []struct {
		name  string
		pools map[string]int // author -> post count
		limit int
		want  int
	}{
		{name: "abundant all categories", pools: map[string]int{"f": 20, "g": 20, "b": 20, "o": 20}, limit: 20, want: 20},
		{name: "one sparse category", pools: map[string]int{"f": 1, "g": 20, "b": 20, "o": 20}, limit: 20, want: 20},
		{name: "all sparse", pools: map[string]int{"f": 1, "g": 1, "b": 1, "o": 1}, limit: 20, want: 4},
		{name: "pool ceiling binds", pools: map[string]int{"f": 30, "g": 30, "b": 30, "o": 30}, limit: 80, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var posts []Post
			for author, n := range tt.pools {
				posts = append(posts, authorPosts(author, n, engineNow)...)
			}
			engine, _ := newTestEngine(t, nil, Snapshot{Posts: posts, Users: users})

			resp, err := engine.GetFeed(context.Background(), Request{RequesterID: "u1", Limit: tt.limit, Now: engineNow})
			if err != nil {
				t.Fatalf("GetFeed() error: %v", err)
			}
			if resp.Meta.SelectedCount != tt.want {
				t.Errorf("selected = %d, want %d", resp.Meta.SelectedCount, tt.want)
			}
			if len(resp.PostIDs) != tt.want {
				t.Errorf("returned = %d, want %d", len(resp.PostIDs), tt.want)
			}
		})
	}
}

func TestGetFeedDeterministic(t *testing.T) {
	users := map[string]UserProfile{
		"u1": profile("u1", TierNone, "a"),
		"a":  profile("a", TierNone),
		"b":  profile("b", Tier1),
		"c":  profile("c", Tier2),
	}
	var posts []Post
	for i, author := range []string{"a", "b", "c"} {
		for j := 0; j < 10; j++ {
			posts = append(posts, Post{
				ID:          fmt.Sprintf("%s%d", author, j),
				AuthorID:    author,
				CreatedAt:   engineNow.Add(-time.Duration(i*j) * time.Hour),
				LikeCount:   j,
				ViewerCount: 3 * j,
			})
		}
	}
	engine, _ := newTestEngine(t, nil, Snapshot{Posts: posts, Users: users})

	req := Request{RequesterID: "u1", Limit: 15, Now: engineNow, Seed: 1234}
	first, err := engine.GetFeed(context.Background(), req)
	if err != nil {
		t.Fatalf("GetFeed() error: %v", err)
	}
	second, err := engine.GetFeed(context.Background(), req)
	if err != nil {
		t.Fatalf("GetFeed() error: %v", err)
	}

	if len(first.PostIDs) != len(second.PostIDs) {
		t.Fatalf("lengths differ: %d vs %d", len(first.PostIDs), len(second.PostIDs))
	}
	for i := range first.PostIDs {
		if first.PostIDs[i] != second.PostIDs[i] {
			t.Fatalf("order differs at %d: %v vs %v", i, first.PostIDs, second.PostIDs)
		}
	}
}

func TestGetFeedExcludesUnresolvableAuthors(t *testing.T) {
	users := map[string]UserProfile{
		"u1": profile("u1", TierNone),
		"a":  profile("a", TierNone),
	}
	posts := []Post{
		{ID: "good", AuthorID: "a", CreatedAt: engineNow},
		{ID: "orphan", AuthorID: "deleted-user", CreatedAt: engineNow},
	}
	engine, _ := newTestEngine(t, nil, Snapshot{Posts: posts, Users: users})

	resp, err := engine.GetFeed(context.Background(), Request{RequesterID: "u1", Limit: 10, Now: engineNow})
	if err != nil {
		t.Fatalf("GetFeed() error: %v", err)
	}
	if len(resp.PostIDs) != 1 || resp.PostIDs[0] != "good" {
		t.Errorf("got %v, want only the resolvable post", resp.PostIDs)
	}
	if resp.Meta.CandidateCount != 1 {
		t.Errorf("candidate count = %d, want 1", resp.Meta.CandidateCount)
	}
}

func TestGetFeedOwnPostsEligible(t *testing.T) {
	users := map[string]UserProfile{
		"u1": profile("u1", TierNone),
	}
	posts := authorPosts("u1", 3, engineNow)
	engine, _ := newTestEngine(t, nil, Snapshot{Posts: posts, Users: users})

	resp, err := engine.GetFeed(context.Background(), Request{RequesterID: "u1", Limit: 10, Now: engineNow})
	if err != nil {
		t.Fatalf("GetFeed() error: %v", err)
	}
	if len(resp.PostIDs) != 3 {
		t.Errorf("own posts excluded: got %d items, want 3", len(resp.PostIDs))
	}
}

func TestGetFeedConcurrent(t *testing.T) {
	users := map[string]UserProfile{
		"u1": profile("u1", TierNone, "a"),
		"u2": profile("u2", TierNone),
		"a":  profile("a", Tier1),
	}
	engine, _ := newTestEngine(t, nil, Snapshot{Posts: authorPosts("a", 25, engineNow), Users: users})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			requester := "u1"
			if n%2 == 0 {
				requester = "u2"
			}
			resp, err := engine.GetFeed(context.Background(), Request{RequesterID: requester, Limit: 10, Now: engineNow})
			if err != nil {
				t.Errorf("concurrent GetFeed() error: %v", err)
				return
			}
			if len(resp.PostIDs) > 10 {
				t.Errorf("concurrent GetFeed() returned %d items", len(resp.PostIDs))
			}
		}(i)
	}
	wg.Wait()

	if got := engine.RequestCount(); got != 16 {
		t.Errorf("request count = %d, want 16", got)
	}
}

func TestGetFeedIDs(t *testing.T) {
	users := map[string]UserProfile{
		"u1": profile("u1", TierNone),
		"a":  profile("a", TierNone),
	}
	engine, _ := newTestEngine(t, nil, Snapshot{Posts: authorPosts("a", 5, time.Now()), Users: users})

	got, err := engine.GetFeedIDs(context.Background(), "u1", 3)
	if err != nil {
		t.Fatalf("GetFeedIDs() error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("GetFeedIDs() returned %d items, want 3", len(got))
	}
}
