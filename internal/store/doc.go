// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

// Package store provides the post store and social graph collaborators the
// feed engine reads from.
//
// MemoryStore is the canonical implementation: posts and user profiles
// behind an RWMutex, producing deep-copied feed.Snapshot values so an
// in-flight GetFeed call can never observe a store mutation. Durability is
// optional: wire a BadgerDB database with WithBadger and every upsert is
// written through, with the full data set reloaded at startup.
//
// The store owns all mutation (likes, views, new posts); the engine only
// ever reads snapshots.
package store
