// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

package feed

// Categorize classifies a candidate post by the requester's relationship to
// its author. The rules are evaluated in priority order, first match wins:
//
//  1. Author followed by the requester -> CategoryFollowed
//  2. Author is tier-1 verified       -> CategoryTier1Verified
//  3. Author is tier-2 verified       -> CategoryTier2Verified
//  4. Everything else                 -> CategoryOther
//
// A post from a followed tier-1 author is therefore Followed, never
// Tier1Verified. author is nil when the social graph cannot resolve the
// post's author; such candidates map to CategoryUnknown and take no quota.
//
// Pure function, no side effects, recomputed per request.
func Categorize(post Post, requester UserProfile, author *UserProfile) Category {
	if author == nil {
		return CategoryUnknown
	}
	if requester.Follows(post.AuthorID) {
		return CategoryFollowed
	}
	switch author.Tier {
	case Tier1:
		return CategoryTier1Verified
	case Tier2:
		return CategoryTier2Verified
	default:
		return CategoryOther
	}
}
