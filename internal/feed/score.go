// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

package feed

import "time"

// Score computes the ranking score of a post for one request.
//
// The score is purely additive over three terms:
//
//	categoryWeight
//	+ engagementMultiplier * (likes + comments + reposts) / max(viewers, 1)
//	+ recencyMultiplier * max(0, recencyWindowHours - hoursSince(createdAt))
//
// The max(viewers, 1) floor avoids division by zero for unseen posts. The
// recency term is a hard cliff: a post older than the window contributes
// exactly zero, with no smooth decay. Scores are an unbounded ranking key,
// not a probability, and higher is better.
//
// Pure and deterministic: now is an explicit input, never read from the
// wall clock here.
func Score(post Post, category Category, now time.Time, cfg *Config) float64 {
	score := cfg.Weights.Weight(category)

	viewers := post.ViewerCount
	if viewers < 1 {
		viewers = 1
	}
	engagement := float64(post.LikeCount+post.CommentCount+post.RepostCount) / float64(viewers)
	score += cfg.EngagementBonusMultiplier * engagement

	hoursSince := now.Sub(post.CreatedAt).Hours()
	if remaining := cfg.RecencyWindowHours - hoursSince; remaining > 0 {
		score += cfg.RecencyBonusMultiplier * remaining
	}

	return score
}
