// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

// Package metrics provides Prometheus instrumentation for the feed
// pipeline, the HTTP API, and the post store. Collectors are registered
// with the default registry at init via promauto and exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Feed Engine Metrics
	FeedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_requests_total",
			Help: "Total number of feed assembly requests",
		},
		[]string{"status"}, // "ok", "empty", "error"
	)

	FeedRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_request_duration_seconds",
			Help:    "Feed assembly duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		},
	)

	FeedCandidatePoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_candidate_pool_size",
			Help:    "Number of scored candidates per feed request",
			Buckets: []float64{0, 10, 25, 50, 100, 250, 500, 1000, 5000},
		},
	)

	FeedSelectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_selected_total",
			Help: "Total number of posts selected into feeds by affinity category",
		},
		[]string{"category"}, // "followed", "tier1_verified", "tier2_verified", "other"
	)

	FeedEmptyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_empty_total",
			Help: "Total number of feed requests that produced an empty feed",
		},
		[]string{"reason"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Store Metrics
	StorePosts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "store_posts",
			Help: "Current number of posts in the store",
		},
	)

	StoreUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "store_users",
			Help: "Current number of user profiles in the store",
		},
	)

	StoreEngagementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_engagements_total",
			Help: "Total number of engagement events recorded",
		},
		[]string{"kind"}, // "like", "view", "repost", "comment"
	)

	StorePersistErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "store_persist_errors_total",
			Help: "Total number of failed write-through persistence operations",
		},
	)
)

// RecordFeedRequest records the outcome of one feed assembly.
func RecordFeedRequest(status string, candidatePool int, duration time.Duration) {
	FeedRequestsTotal.WithLabelValues(status).Inc()
	FeedRequestDuration.Observe(duration.Seconds())
	FeedCandidatePoolSize.Observe(float64(candidatePool))
}

// RecordFeedEmpty records an empty feed with its reason.
func RecordFeedEmpty(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	FeedEmptyTotal.WithLabelValues(reason).Inc()
}

// RecordFeedSelection records how many posts each category contributed.
func RecordFeedSelection(category string, count int) {
	if count <= 0 {
		return
	}
	FeedSelectedTotal.WithLabelValues(category).Add(float64(count))
}

// RecordAPIRequest records a completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// UpdateStoreGauges sets the store size gauges.
func UpdateStoreGauges(posts, users int) {
	StorePosts.Set(float64(posts))
	StoreUsers.Set(float64(users))
}

// RecordEngagement records a like, view, repost, or comment.
func RecordEngagement(kind string) {
	StoreEngagementsTotal.WithLabelValues(kind).Inc()
}
