// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/feedwright/internal/feed"
	"github.com/tomtom215/feedwright/internal/store"
)

// RouterConfig carries the HTTP-surface settings the router needs.
type RouterConfig struct {
	// DefaultFeedLimit is applied when a feed request omits ?limit.
	DefaultFeedLimit int

	// MaxFeedLimit caps the ?limit parameter.
	MaxFeedLimit int

	// RateLimit is the per-IP request budget per RatePeriod. Zero
	// disables limiting.
	RateLimit int

	// RatePeriod is the rate limit window.
	RatePeriod time.Duration

	// CORSOrigins lists allowed cross-origin origins.
	CORSOrigins []string
}

// Router wires the feed engine and post store to HTTP handlers.
type Router struct {
	engine *feed.Engine
	store  *store.MemoryStore
	config RouterConfig
}

// NewRouter creates a Router. Zero limits fall back to sane defaults.
func NewRouter(engine *feed.Engine, st *store.MemoryStore, cfg RouterConfig) *Router {
	if cfg.DefaultFeedLimit <= 0 {
		cfg.DefaultFeedLimit = 30
	}
	if cfg.MaxFeedLimit <= 0 {
		cfg.MaxFeedLimit = 100
	}
	if cfg.RatePeriod <= 0 {
		cfg.RatePeriod = time.Minute
	}
	return &Router{
		engine: engine,
		store:  st,
		config: cfg,
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORSHandler(router.config.CORSOrigins))

	// Operational endpoints stay outside rate limiting so probes and
	// scrapes are never rejected.
	r.Get("/healthz", router.HealthLive)
	r.Get("/readyz", router.HealthReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RequestLogging())
		r.Use(RateLimiter(router.config.RateLimit, router.config.RatePeriod))

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Put("/", router.UpsertUser)
			r.Get("/", router.GetUser)
			r.Get("/feed", router.GetFeed)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Post("/", router.CreatePost)
			r.Get("/{postID}", router.GetPost)
			r.Post("/{postID}/like", router.LikePost)
			r.Post("/{postID}/view", router.ViewPost)
			r.Post("/{postID}/repost", router.RepostPost)
			r.Post("/{postID}/comment", router.CommentPost)
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).NotFound("Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).Error(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	return r
}
