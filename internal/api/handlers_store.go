// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/feedwright/internal/feed"
	"github.com/tomtom215/feedwright/internal/logging"
	"github.com/tomtom215/feedwright/internal/metrics"
	"github.com/tomtom215/feedwright/internal/store"
)

// upsertUserRequest is the body for PUT /users/{userID}.
type upsertUserRequest struct {
	Username  string   `json:"username"`
	Following []string `json:"following"`
	Tier      string   `json:"tier"`
}

// UpsertUser handles PUT /api/v1/users/{userID}. It creates or replaces a
// user profile, including the follow list and verification tier.
func (router *Router) UpsertUser(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		rw.BadRequest("userID is required")
		return
	}

	var req upsertUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("invalid JSON body")
		return
	}

	tier, err := feed.ParseVerificationTier(req.Tier)
	if err != nil {
		rw.ValidationError("invalid verification tier", map[string]string{"tier": req.Tier})
		return
	}

	user := store.User{
		ID:        userID,
		Username:  req.Username,
		Following: req.Following,
		Tier:      tier,
	}
	if err := router.store.UpsertUser(user); err != nil {
		logger := logging.Ctx(r.Context())
		logger.Error().Err(err).Str("user_id", userID).Msg("User upsert failed")
		rw.InternalError("Failed to store user")
		return
	}

	router.updateStoreGauges()
	rw.Success(user)
}

// GetUser handles GET /api/v1/users/{userID}.
func (router *Router) GetUser(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := chi.URLParam(r, "userID")

	user, err := router.store.GetUser(userID)
	if err != nil {
		rw.NotFound("user not found")
		return
	}
	rw.Success(user)
}

// createPostRequest is the body for POST /posts. Engagement counters may
// be preset, which is useful for imports and demos.
type createPostRequest struct {
	ID           string     `json:"id"`
	AuthorID     string     `json:"author_id"`
	CreatedAt    *time.Time `json:"created_at"`
	LikeCount    int        `json:"like_count"`
	CommentCount int        `json:"comment_count"`
	RepostCount  int        `json:"repost_count"`
	ViewerCount  int        `json:"viewer_count"`
}

// CreatePost handles POST /api/v1/posts. The author must already exist.
func (router *Router) CreatePost(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("invalid JSON body")
		return
	}
	if req.AuthorID == "" {
		rw.ValidationError("author_id is required", nil)
		return
	}
	if req.LikeCount < 0 || req.CommentCount < 0 || req.RepostCount < 0 || req.ViewerCount < 0 {
		rw.ValidationError("engagement counters must be non-negative", nil)
		return
	}

	post := feed.Post{
		ID:           req.ID,
		AuthorID:     req.AuthorID,
		LikeCount:    req.LikeCount,
		CommentCount: req.CommentCount,
		RepostCount:  req.RepostCount,
		ViewerCount:  req.ViewerCount,
	}
	if req.CreatedAt != nil {
		post.CreatedAt = *req.CreatedAt
	}

	created, err := router.store.CreatePost(post)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			rw.NotFound("author does not exist")
			return
		}
		logger := logging.Ctx(r.Context())
		logger.Error().Err(err).Str("author_id", req.AuthorID).Msg("Post creation failed")
		rw.InternalError("Failed to store post")
		return
	}

	router.updateStoreGauges()
	rw.Created(created)
}

// GetPost handles GET /api/v1/posts/{postID}.
func (router *Router) GetPost(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	postID := chi.URLParam(r, "postID")

	post, err := router.store.GetPost(postID)
	if err != nil {
		rw.NotFound("post not found")
		return
	}
	rw.Success(post)
}

// LikePost handles POST /api/v1/posts/{postID}/like.
func (router *Router) LikePost(w http.ResponseWriter, r *http.Request) {
	router.engage(w, r, "like", router.store.LikePost)
}

// ViewPost handles POST /api/v1/posts/{postID}/view.
func (router *Router) ViewPost(w http.ResponseWriter, r *http.Request) {
	router.engage(w, r, "view", router.store.ViewPost)
}

// RepostPost handles POST /api/v1/posts/{postID}/repost.
func (router *Router) RepostPost(w http.ResponseWriter, r *http.Request) {
	router.engage(w, r, "repost", router.store.RepostPost)
}

// CommentPost handles POST /api/v1/posts/{postID}/comment.
func (router *Router) CommentPost(w http.ResponseWriter, r *http.Request) {
	router.engage(w, r, "comment", router.store.CommentPost)
}

// engage applies one engagement mutation and returns the updated post.
func (router *Router) engage(w http.ResponseWriter, r *http.Request, kind string, mutate func(string) (feed.Post, error)) {
	rw := NewResponseWriter(w, r)
	postID := chi.URLParam(r, "postID")

	post, err := mutate(postID)
	if err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			rw.NotFound("post not found")
			return
		}
		logger := logging.Ctx(r.Context())
		logger.Error().Err(err).Str("post_id", postID).Str("kind", kind).Msg("Engagement failed")
		rw.InternalError("Failed to record engagement")
		return
	}

	metrics.RecordEngagement(kind)
	rw.Success(post)
}

func (router *Router) updateStoreGauges() {
	posts, users := router.store.Counts()
	metrics.UpdateStoreGauges(posts, users)
}
