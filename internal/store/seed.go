// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

package store

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/tomtom215/feedwright/internal/feed"
)

// SeedConfig controls demo data generation.
type SeedConfig struct {
	// Users is the number of accounts to create.
	Users int

	// PostsPerUser is the mean post count per account.
	PostsPerUser int

	// Seed fixes the generator for reproducible fixtures.
	Seed int64
}

// DefaultSeedConfig matches a small demo network: a few dozen accounts
// with a realistic tier mix.
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{Users: 40, PostsPerUser: 5, Seed: 1}
}

// Seed populates the store with generated users, follow edges, and posts.
// Roughly 10% of accounts get tier-1 badges and 15% tier-2, each user
// follows a handful of others, and post ages spread across the last three
// days so some posts fall inside the recency window and some outside.
func (s *MemoryStore) Seed(cfg SeedConfig) error {
	if cfg.Users <= 0 {
		return fmt.Errorf("seed requires at least one user, got %d", cfg.Users)
	}

	faker := gofakeit.New(cfg.Seed)
	now := time.Now().UTC()

	userIDs := make([]string, cfg.Users)
	for i := range userIDs {
		userIDs[i] = fmt.Sprintf("user-%03d", i)
	}

	for i, id := range userIDs {
		var tier feed.VerificationTier
		switch {
		case faker.Float64() < 0.10:
			tier = feed.Tier1
		case faker.Float64() < 0.15:
			tier = feed.Tier2
		}

		following := make([]string, 0, 8)
		for _, other := range userIDs {
			if other == id {
				continue
			}
			if faker.Float64() < 0.12 {
				following = append(following, other)
			}
		}

		if err := s.UpsertUser(User{
			ID:        id,
			Username:  faker.Username(),
			Following: following,
			Tier:      tier,
		}); err != nil {
			return fmt.Errorf("seed user %d: %w", i, err)
		}
	}

	for _, id := range userIDs {
		n := faker.Number(0, cfg.PostsPerUser*2)
		for j := 0; j < n; j++ {
			viewers := faker.Number(0, 500)
			post := feed.Post{
				ID:           fmt.Sprintf("%s-post-%02d", id, j),
				AuthorID:     id,
				CreatedAt:    now.Add(-time.Duration(faker.Number(0, 72*60)) * time.Minute),
				LikeCount:    faker.Number(0, viewers/2+1),
				CommentCount: faker.Number(0, viewers/10+1),
				RepostCount:  faker.Number(0, viewers/20+1),
				ViewerCount:  viewers,
			}
			if _, err := s.CreatePost(post); err != nil {
				return fmt.Errorf("seed post for %s: %w", id, err)
			}
		}
	}

	posts, users := s.Counts()
	s.logger.Info().Int("users", users).Int("posts", posts).Msg("seeded demo data")
	return nil
}
