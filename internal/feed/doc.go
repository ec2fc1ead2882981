// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

// Package feed implements the feed ranking and distribution engine.
//
// Given a requesting user and a pool of candidate posts, the engine produces
// a bounded, ordered feed balancing four affinity categories (followed
// authors, two verification tiers, everyone else) according to configured
// target proportions, with randomized interleaving for diversity.
//
// The pipeline runs in a single pass per request:
//
//	categorize -> score -> allocate quotas -> select per category ->
//	backfill shortfall -> shuffle -> truncate
//
// Every stage is a pure function over the request's snapshot; the engine
// holds no per-request state and is safe for concurrent use. Time and
// randomness are explicit inputs (Request.Now, Request.Seed) so identical
// requests against identical snapshots produce identical feeds.
//
// Absence of data is never an error: an unknown requester, an empty
// candidate pool, or a non-positive limit all yield an empty feed. Only a
// snapshot source failure surfaces as an error from GetFeed.
//
// This package has no dependencies on other internal packages. The
// SnapshotSource interface allows integration with any store implementation
// without creating circular imports.
package feed
