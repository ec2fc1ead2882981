// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/feedwright/internal/feed"
	"github.com/tomtom215/feedwright/internal/logging"
	"github.com/tomtom215/feedwright/internal/metrics"
)

// feedResponse is the payload for GET /users/{userID}/feed.
type feedResponse struct {
	UserID  string      `json:"user_id"`
	PostIDs []string    `json:"post_ids"`
	Posts   []feed.Post `json:"posts,omitempty"`
	Count   int         `json:"count"`

	CandidateCount int            `json:"candidate_count"`
	CategoryCounts map[string]int `json:"category_counts,omitempty"`
	EmptyReason    string         `json:"empty_reason,omitempty"`
}

// GetFeed handles GET /api/v1/users/{userID}/feed.
//
// Query parameters:
//
//	limit   - feed size (default from config, capped at the configured max)
//	seed    - optional shuffle seed for reproducible ordering
//	hydrate - "1" or "true" to include full post objects, not just IDs
func (router *Router) GetFeed(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		rw.BadRequest("userID is required")
		return
	}

	limit := router.config.DefaultFeedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			rw.BadRequest("limit must be an integer")
			return
		}
		limit = parsed
	}
	if limit > router.config.MaxFeedLimit {
		limit = router.config.MaxFeedLimit
	}

	var seed int64
	if raw := r.URL.Query().Get("seed"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			rw.BadRequest("seed must be an integer")
			return
		}
		seed = parsed
	}

	start := time.Now()
	resp, err := router.engine.GetFeed(r.Context(), feed.Request{
		RequesterID: userID,
		Limit:       limit,
		Seed:        seed,
		RequestID:   logging.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		metrics.RecordFeedRequest("error", 0, time.Since(start))
		logger := logging.Ctx(r.Context())
		logger.Error().Err(err).Str("user_id", userID).Msg("Feed assembly failed")
		rw.InternalError("Failed to assemble feed")
		return
	}

	status := "ok"
	if len(resp.PostIDs) == 0 {
		status = "empty"
		metrics.RecordFeedEmpty(resp.Meta.EmptyReason)
	}
	metrics.RecordFeedRequest(status, resp.Meta.CandidateCount, time.Since(start))
	for category, count := range resp.Meta.CategoryCounts {
		metrics.RecordFeedSelection(category, count)
	}

	payload := feedResponse{
		UserID:         userID,
		PostIDs:        resp.PostIDs,
		Count:          len(resp.PostIDs),
		CandidateCount: resp.Meta.CandidateCount,
		CategoryCounts: resp.Meta.CategoryCounts,
		EmptyReason:    resp.Meta.EmptyReason,
	}
	if hydrate := r.URL.Query().Get("hydrate"); hydrate == "1" || hydrate == "true" {
		payload.Posts = router.store.GetPosts(resp.PostIDs)
	}

	rw.Success(payload)
}
