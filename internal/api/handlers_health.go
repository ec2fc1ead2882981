// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

package api

import (
	"context"
	"net/http"
	"time"
)

var startTime = time.Now()

// HealthLive handles liveness probe requests. It answers as long as the
// process is up.
func (router *Router) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests. The service is ready when
// a store snapshot can be taken and the engine is wired.
func (router *Router) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	_, snapErr := router.store.Snapshot(ctx)
	ready := router.engine != nil && snapErr == nil
	if !ready {
		rw.ServiceUnavailable("Service not ready")
		return
	}

	posts, users := router.store.Counts()
	rw.Success(map[string]interface{}{
		"ready_to_serve": true,
		"posts":          posts,
		"users":          users,
		"feed_requests":  router.engine.RequestCount(),
		"uptime":         time.Since(startTime).Seconds(),
	})
}
