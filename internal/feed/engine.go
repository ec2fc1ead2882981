// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

package feed

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Engine assembles feeds. It is stateless per call and safe for concurrent
// use: all working data (quota plan, scored candidates) is function-local
// and discarded when GetFeed returns. The only shared state is the seed
// source used to derive per-request RNGs, guarded by a mutex.
type Engine struct {
	config *Config
	logger zerolog.Logger
	source SnapshotSource

	// Seed source for requests that don't bring their own seed.
	rng   *rand.Rand
	rngMu sync.Mutex

	requestCount atomic.Int64
	emptyCount   atomic.Int64
}

// NewEngine creates a feed engine. The configuration is validated here and
// never re-checked per call; an invalid configuration fails fast.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, source SnapshotSource, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if source == nil {
		return nil, fmt.Errorf("snapshot source is required")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "feed").Logger(),
		source: source,
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for feed shuffling
	}, nil
}

// Config returns the engine's validated configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// RequestCount returns the number of GetFeed calls served.
func (e *Engine) RequestCount() int64 {
	return e.requestCount.Load()
}

// EmptyCount returns the number of calls that produced an empty feed.
func (e *Engine) EmptyCount() int64 {
	return e.emptyCount.Load()
}

// GetFeed assembles a bounded, ordered feed for one requester.
//
// Pipeline: resolve requester, read one consistent snapshot, categorize and
// score every candidate, allocate quotas, select per category, backfill any
// shortfall, shuffle, truncate to the limit.
//
// A feed with nothing to show is a valid, common state: an unknown
// requester, an empty candidate pool, and a non-positive limit all return
// an empty response with a nil error. The non-positive limit case
// short-circuits before any snapshot read or scoring work. Only a snapshot
// source failure returns an error.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) GetFeed(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Str("requester_id", req.RequesterID).
		Int("limit", req.Limit).
		Logger()

	if req.Limit <= 0 {
		return e.emptyResponse(req, ReasonLimit, 0, start), nil
	}

	snap, err := e.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	requester, ok := snap.Users[req.RequesterID]
	if !ok {
		logger.Debug().Msg("unknown requester, returning empty feed")
		return e.emptyResponse(req, ReasonUnknownRequester, 0, start), nil
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	candidates := e.scoreCandidates(snap, requester, now, logger)
	if len(candidates) == 0 {
		logger.Debug().Msg("no resolvable candidates, returning empty feed")
		return e.emptyResponse(req, ReasonNoCandidates, 0, start), nil
	}

	selected := e.selectCandidates(candidates, req.Limit)
	shuffled := Shuffle(selected, e.requestRNG(req.Seed))

	// Guard only: effectiveTotal already bounds the selection by the limit.
	if len(shuffled) > req.Limit {
		shuffled = shuffled[:req.Limit]
	}

	ids := make([]string, len(shuffled))
	categoryCounts := make(map[string]int, len(Categories))
	for i, c := range shuffled {
		ids[i] = c.Post.ID
		categoryCounts[c.Category.String()]++
	}

	resp := &Response{
		PostIDs: ids,
		Meta: ResponseMeta{
			RequestID:      req.RequestID,
			CandidateCount: len(candidates),
			SelectedCount:  len(selected),
			CategoryCounts: categoryCounts,
			LatencyMS:      time.Since(start).Milliseconds(),
		},
	}

	logger.Debug().
		Int("candidates", len(candidates)).
		Int("returned", len(ids)).
		Int64("latency_ms", resp.Meta.LatencyMS).
		Msg("feed assembled")

	return resp, nil
}

// GetFeedIDs is the convenience form of GetFeed: current time, fresh seed.
func (e *Engine) GetFeedIDs(ctx context.Context, requesterID string, limit int) ([]string, error) {
	resp, err := e.GetFeed(ctx, Request{RequesterID: requesterID, Limit: limit})
	if err != nil {
		return nil, err
	}
	return resp.PostIDs, nil
}

// scoreCandidates categorizes and scores the entire candidate pool.
// Candidates whose author cannot be resolved are excluded and warn-logged
// as a data-integrity signal; they never fail the request. The requester's
// own posts are eligible by design.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func (e *Engine) scoreCandidates(snap Snapshot, requester UserProfile, now time.Time, logger zerolog.Logger) []ScoredCandidate {
	candidates := make([]ScoredCandidate, 0, len(snap.Posts))
	for _, post := range snap.Posts {
		var author *UserProfile
		if a, ok := snap.Author(post.AuthorID); ok {
			author = &a
		}

		category := Categorize(post, requester, author)
		if category == CategoryUnknown {
			logger.Warn().
				Str("post_id", post.ID).
				Str("author_id", post.AuthorID).
				Msg("candidate author not in social graph, excluding post")
			continue
		}

		candidates = append(candidates, ScoredCandidate{
			Post:     post,
			Category: category,
			Score:    Score(post, category, now, e.config),
		})
	}
	return candidates
}

// selectCandidates runs quota allocation, per-category selection, and
// backfill. The returned set has exactly
// min(effectiveTotal, len(candidates)) items, in rank order per category
// followed by backfill rank order; the shuffle erases that structure.
func (e *Engine) selectCandidates(candidates []ScoredCandidate, limit int) []ScoredCandidate {
	effective := EffectiveTotal(len(candidates), limit, e.config.MaxCandidatePoolSize)
	plan := Allocate(effective, e.config.Weights.Proportions())

	byCategory := make(map[Category][]ScoredCandidate, len(Categories))
	for _, c := range candidates {
		byCategory[c.Category] = append(byCategory[c.Category], c)
	}

	selected := make([]ScoredCandidate, 0, effective)
	for _, category := range Categories {
		selected = append(selected, SelectTop(byCategory[category], plan[category])...)
	}

	return Backfill(selected, candidates, effective)
}

// emptyResponse builds the canonical empty feed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) emptyResponse(req Request, reason string, candidates int, start time.Time) *Response {
	e.emptyCount.Add(1)
	return &Response{
		PostIDs: []string{},
		Meta: ResponseMeta{
			RequestID:      req.RequestID,
			CandidateCount: candidates,
			EmptyReason:    reason,
			LatencyMS:      time.Since(start).Milliseconds(),
		},
	}
}

// requestRNG returns the request-scoped random source for the shuffle. A
// zero seed draws a fresh one from the engine's seeded source; a non-zero
// seed makes the shuffle fully reproducible.
func (e *Engine) requestRNG(seed int64) *rand.Rand {
	if seed == 0 {
		e.rngMu.Lock()
		seed = e.rng.Int63()
		e.rngMu.Unlock()
	}
	return rand.New(rand.NewSource(seed)) //nolint:gosec // not security sensitive
}
