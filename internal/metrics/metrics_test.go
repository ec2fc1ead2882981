// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordFeedRequest(t *testing.T) {
	before := testutil.ToFloat64(FeedRequestsTotal.WithLabelValues("ok"))

	RecordFeedRequest("ok", 42, 3*time.Millisecond)

	after := testutil.ToFloat64(FeedRequestsTotal.WithLabelValues("ok"))
	if after != before+1 {
		t.Errorf("feed_requests_total{status=ok} = %v, want %v", after, before+1)
	}
}

func TestRecordFeedEmpty(t *testing.T) {
	before := testutil.ToFloat64(FeedEmptyTotal.WithLabelValues("no_candidates"))
	RecordFeedEmpty("no_candidates")
	after := testutil.ToFloat64(FeedEmptyTotal.WithLabelValues("no_candidates"))
	if after != before+1 {
		t.Errorf("feed_empty_total{reason=no_candidates} = %v, want %v", after, before+1)
	}

	// Blank reason is mapped to a stable label value.
	beforeUnknown := testutil.ToFloat64(FeedEmptyTotal.WithLabelValues("unknown"))
	RecordFeedEmpty("")
	afterUnknown := testutil.ToFloat64(FeedEmptyTotal.WithLabelValues("unknown"))
	if afterUnknown != beforeUnknown+1 {
		t.Errorf("feed_empty_total{reason=unknown} = %v, want %v", afterUnknown, beforeUnknown+1)
	}
}

func TestRecordFeedSelection(t *testing.T) {
	before := testutil.ToFloat64(FeedSelectedTotal.WithLabelValues("followed"))

	RecordFeedSelection("followed", 7)
	RecordFeedSelection("followed", 0)  // ignored
	RecordFeedSelection("followed", -3) // ignored

	after := testutil.ToFloat64(FeedSelectedTotal.WithLabelValues("followed"))
	if after != before+7 {
		t.Errorf("feed_selected_total{category=followed} = %v, want %v", after, before+7)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/users/{userID}/feed", "200"))

	RecordAPIRequest("GET", "/api/v1/users/{userID}/feed", 200, 12*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/users/{userID}/feed", "200"))
	if after != before+1 {
		t.Errorf("api_requests_total = %v, want %v", after, before+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	base := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != base+2 {
		t.Errorf("api_active_requests = %v, want %v", got, base+2)
	}

	TrackActiveRequest(false)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != base {
		t.Errorf("api_active_requests = %v, want %v after release", got, base)
	}
}

func TestUpdateStoreGauges(t *testing.T) {
	UpdateStoreGauges(120, 40)
	if got := testutil.ToFloat64(StorePosts); got != 120 {
		t.Errorf("store_posts = %v, want 120", got)
	}
	if got := testutil.ToFloat64(StoreUsers); got != 40 {
		t.Errorf("store_users = %v, want 40", got)
	}
}

func TestRecordEngagement(t *testing.T) {
	before := testutil.ToFloat64(StoreEngagementsTotal.WithLabelValues("like"))
	RecordEngagement("like")
	after := testutil.ToFloat64(StoreEngagementsTotal.WithLabelValues("like"))
	if after != before+1 {
		t.Errorf("store_engagements_total{kind=like} = %v, want %v", after, before+1)
	}
}

func TestConcurrentRecording(t *testing.T) {
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				RecordFeedRequest("ok", 10, time.Millisecond)
				RecordEngagement("view")
				TrackActiveRequest(true)
				TrackActiveRequest(false)
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
