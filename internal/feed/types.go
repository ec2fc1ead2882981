// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

package feed

import (
	"context"
	"fmt"
	"time"
)

// VerificationTier is an account badge level influencing feed placement.
type VerificationTier int

const (
	// TierNone indicates an unverified account.
	TierNone VerificationTier = iota
	// Tier1 is the first verification tier (the "green" founder badge).
	Tier1
	// Tier2 is the second verification tier (the "blue" influencer badge).
	Tier2
)

// String returns a human-readable name for the tier.
func (t VerificationTier) String() string {
	switch t {
	case TierNone:
		return "none"
	case Tier1:
		return "tier1"
	case Tier2:
		return "tier2"
	default:
		return "unknown"
	}
}

// ParseVerificationTier converts a string to a VerificationTier.
// Accepts the legacy badge color names as aliases.
func ParseVerificationTier(s string) (VerificationTier, error) {
	switch s {
	case "", "none":
		return TierNone, nil
	case "tier1", "green":
		return Tier1, nil
	case "tier2", "blue":
		return Tier2, nil
	default:
		return TierNone, fmt.Errorf("unknown verification tier %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t VerificationTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *VerificationTier) UnmarshalText(b []byte) error {
	parsed, err := ParseVerificationTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Category classifies a candidate post by the requester's relationship to
// its author. Every resolvable candidate maps to exactly one category.
type Category int

const (
	// CategoryUnknown is the sentinel for candidates whose author cannot be
	// resolved from the social graph. Excluded from all quotas.
	CategoryUnknown Category = iota
	// CategoryFollowed covers posts from authors the requester follows.
	CategoryFollowed
	// CategoryTier1Verified covers posts from tier-1 verified authors.
	CategoryTier1Verified
	// CategoryTier2Verified covers posts from tier-2 verified authors.
	CategoryTier2Verified
	// CategoryOther covers posts from unfollowed, unverified authors.
	CategoryOther
)

// Categories lists the four quota-eligible categories in allocation order.
// CategoryUnknown is deliberately absent.
var Categories = [4]Category{
	CategoryFollowed,
	CategoryTier1Verified,
	CategoryTier2Verified,
	CategoryOther,
}

// String returns a human-readable name for the category.
func (c Category) String() string {
	switch c {
	case CategoryFollowed:
		return "followed"
	case CategoryTier1Verified:
		return "tier1_verified"
	case CategoryTier2Verified:
		return "tier2_verified"
	case CategoryOther:
		return "other"
	default:
		return "unknown"
	}
}

// Post is a read-only candidate snapshot. The post store owns mutation; the
// engine only ever reads these values.
type Post struct {
	// ID is the opaque unique post identifier.
	ID string `json:"id"`

	// AuthorID identifies the posting user.
	AuthorID string `json:"author_id"`

	// CreatedAt is the post creation timestamp.
	CreatedAt time.Time `json:"created_at"`

	// LikeCount is the number of distinct likes.
	LikeCount int `json:"like_count"`

	// CommentCount is the number of comments.
	CommentCount int `json:"comment_count"`

	// RepostCount is the number of reposts.
	RepostCount int `json:"repost_count"`

	// ViewerCount is the number of distinct users who viewed the post.
	ViewerCount int `json:"viewer_count"`
}

// UserProfile is the read-only social graph view of one user.
type UserProfile struct {
	// ID is the user identifier.
	ID string

	// Following is the set of user IDs this user follows.
	Following map[string]struct{}

	// Tier is the user's verification tier.
	Tier VerificationTier
}

// Follows reports whether the profile follows the given user.
func (u UserProfile) Follows(userID string) bool {
	_, ok := u.Following[userID]
	return ok
}

// ScoredCandidate pairs a post with its category and ranking score.
// Ephemeral: built per request and discarded after assembly.
type ScoredCandidate struct {
	Post     Post     `json:"post"`
	Category Category `json:"-"`
	Score    float64  `json:"score"`
}

// QuotaPlan maps each category to its target item count for one request.
type QuotaPlan map[Category]int

// Total returns the sum of all category quotas.
func (p QuotaPlan) Total() int {
	total := 0
	for _, n := range p {
		total += n
	}
	return total
}

// Snapshot is a consistent, immutable view of the post store and social
// graph taken at the start of a GetFeed call. Implementations must not
// mutate a snapshot after handing it to the engine.
type Snapshot struct {
	// Posts is the full candidate pool.
	Posts []Post

	// Users maps user ID to profile.
	Users map[string]UserProfile
}

// Author resolves a post author's profile.
func (s Snapshot) Author(userID string) (UserProfile, bool) {
	u, ok := s.Users[userID]
	return u, ok
}

// SnapshotSource provides consistent read snapshots to the engine.
// Typically implemented by the store layer.
type SnapshotSource interface {
	// Snapshot returns an immutable view of all posts and users.
	Snapshot(ctx context.Context) (Snapshot, error)
}

// Empty-feed reasons reported in response metadata.
const (
	// ReasonLimit indicates the request asked for zero or fewer items.
	ReasonLimit = "non_positive_limit"
	// ReasonUnknownRequester indicates the requester was not in the graph.
	ReasonUnknownRequester = "unknown_requester"
	// ReasonNoCandidates indicates the candidate pool was empty after
	// excluding unresolvable authors.
	ReasonNoCandidates = "no_candidates"
)

// Request describes one feed request.
type Request struct {
	// RequesterID identifies the user the feed is for.
	RequesterID string `json:"requester_id"`

	// Limit is the maximum number of items to return.
	// Limit <= 0 short-circuits to an empty feed.
	Limit int `json:"limit"`

	// Now is the reference time for recency scoring.
	// Zero value means the current wall-clock time.
	Now time.Time `json:"-"`

	// Seed drives the diversity shuffle. Zero means the engine draws a
	// fresh seed; pass a fixed value for reproducible output.
	Seed int64 `json:"-"`

	// RequestID correlates logs for this request. Generated if empty.
	RequestID string `json:"request_id,omitempty"`
}

// Response is the ordered feed produced for one request.
type Response struct {
	// PostIDs is the final feed, in presentation order.
	PostIDs []string `json:"post_ids"`

	// Meta describes how the feed was assembled.
	Meta ResponseMeta `json:"meta"`
}

// ResponseMeta carries assembly diagnostics.
type ResponseMeta struct {
	// RequestID is the correlation ID for this request.
	RequestID string `json:"request_id,omitempty"`

	// CandidateCount is the number of resolvable candidates considered.
	CandidateCount int `json:"candidate_count"`

	// SelectedCount is the number of items selected before the shuffle.
	SelectedCount int `json:"selected_count"`

	// CategoryCounts breaks SelectedCount down by affinity category,
	// backfill included. Only present on non-empty feeds.
	CategoryCounts map[string]int `json:"category_counts,omitempty"`

	// EmptyReason is set when the feed is empty by design.
	EmptyReason string `json:"empty_reason,omitempty"`

	// LatencyMS is the assembly time in milliseconds.
	LatencyMS int64 `json:"latency_ms"`
}
