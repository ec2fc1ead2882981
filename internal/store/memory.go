// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/feedwright/internal/feed"
)

// ErrPostNotFound is returned when a post ID does not exist.
var ErrPostNotFound = fmt.Errorf("post not found")

// ErrUserNotFound is returned when a user ID does not exist.
var ErrUserNotFound = fmt.Errorf("user not found")

// User is the store's mutable view of one account.
type User struct {
	// ID is the user identifier.
	ID string `json:"id"`

	// Username is the display handle.
	Username string `json:"username"`

	// Following lists the user IDs this user follows.
	Following []string `json:"following"`

	// Tier is the verification tier.
	Tier feed.VerificationTier `json:"tier"`
}

// MemoryStore holds posts and user profiles in memory and produces
// immutable snapshots for the feed engine. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	posts   map[string]feed.Post
	users   map[string]User
	persist *badgerPersistence
	logger  zerolog.Logger
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithLogger sets the store's logger.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func WithLogger(logger zerolog.Logger) Option {
	return func(s *MemoryStore) {
		s.logger = logger.With().Str("component", "store").Logger()
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		posts:  make(map[string]feed.Post),
		users:  make(map[string]User),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot implements feed.SnapshotSource. The returned value is a deep
// copy: posts in a stable ID order, profiles with their own follow sets.
// Mutations after the call are invisible to the holder.
func (s *MemoryStore) Snapshot(ctx context.Context) (feed.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return feed.Snapshot{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]feed.Post, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, p)
	}
	// Stable candidate order keeps snapshot content deterministic; the
	// engine's comparator and shuffle own the final ordering.
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })

	users := make(map[string]feed.UserProfile, len(s.users))
	for id, u := range s.users {
		following := make(map[string]struct{}, len(u.Following))
		for _, f := range u.Following {
			following[f] = struct{}{}
		}
		users[id] = feed.UserProfile{ID: id, Following: following, Tier: u.Tier}
	}

	return feed.Snapshot{Posts: posts, Users: users}, nil
}

// UpsertUser creates or replaces a user profile.
func (s *MemoryStore) UpsertUser(user User) error {
	if user.ID == "" {
		return fmt.Errorf("user ID is required")
	}

	s.mu.Lock()
	s.users[user.ID] = user
	s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.putUser(user); err != nil {
			return fmt.Errorf("persist user %s: %w", user.ID, err)
		}
	}
	return nil
}

// GetUser returns one user profile.
func (s *MemoryStore) GetUser(userID string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return User{}, fmt.Errorf("user %s: %w", userID, ErrUserNotFound)
	}
	return u, nil
}

// CreatePost stores a new post. A missing ID is generated, a zero
// CreatedAt defaults to now, and the author must exist.
func (s *MemoryStore) CreatePost(post feed.Post) (feed.Post, error) {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	if _, ok := s.users[post.AuthorID]; !ok {
		s.mu.Unlock()
		return feed.Post{}, fmt.Errorf("author %s: %w", post.AuthorID, ErrUserNotFound)
	}
	s.posts[post.ID] = post
	s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.putPost(post); err != nil {
			return feed.Post{}, fmt.Errorf("persist post %s: %w", post.ID, err)
		}
	}
	return post, nil
}

// GetPost returns one post.
func (s *MemoryStore) GetPost(postID string) (feed.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[postID]
	if !ok {
		return feed.Post{}, fmt.Errorf("post %s: %w", postID, ErrPostNotFound)
	}
	return p, nil
}

// GetPosts returns the posts for the given IDs, preserving order and
// skipping IDs that no longer exist.
func (s *MemoryStore) GetPosts(postIDs []string) []feed.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]feed.Post, 0, len(postIDs))
	for _, id := range postIDs {
		if p, ok := s.posts[id]; ok {
			posts = append(posts, p)
		}
	}
	return posts
}

// LikePost increments a post's like counter.
func (s *MemoryStore) LikePost(postID string) (feed.Post, error) {
	return s.updatePost(postID, func(p *feed.Post) { p.LikeCount++ })
}

// ViewPost increments a post's distinct-viewer counter.
func (s *MemoryStore) ViewPost(postID string) (feed.Post, error) {
	return s.updatePost(postID, func(p *feed.Post) { p.ViewerCount++ })
}

// RepostPost increments a post's repost counter.
func (s *MemoryStore) RepostPost(postID string) (feed.Post, error) {
	return s.updatePost(postID, func(p *feed.Post) { p.RepostCount++ })
}

// CommentPost increments a post's comment counter. Comment bodies and
// threading live outside this service; only the engagement signal is kept.
func (s *MemoryStore) CommentPost(postID string) (feed.Post, error) {
	return s.updatePost(postID, func(p *feed.Post) { p.CommentCount++ })
}

func (s *MemoryStore) updatePost(postID string, mutate func(*feed.Post)) (feed.Post, error) {
	s.mu.Lock()
	p, ok := s.posts[postID]
	if !ok {
		s.mu.Unlock()
		return feed.Post{}, fmt.Errorf("post %s: %w", postID, ErrPostNotFound)
	}
	mutate(&p)
	s.posts[postID] = p
	s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.putPost(p); err != nil {
			return feed.Post{}, fmt.Errorf("persist post %s: %w", postID, err)
		}
	}
	return p, nil
}

// Counts returns the number of posts and users held.
func (s *MemoryStore) Counts() (posts, users int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts), len(s.users)
}

// Ensure MemoryStore implements the engine's source interface.
var _ feed.SnapshotSource = (*MemoryStore)(nil)
