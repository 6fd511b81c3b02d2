// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package models

import (
	"testing"
)

// --- Test: Platform ---

func TestParsePlatform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Platform
		wantErr bool
	}{
		{"twitter", PlatformTwitter, false},
		{"instagram", PlatformInstagram, false},
		{"tiktok", PlatformTikTok, false},
		{"myspace", "", true},
		{"", "", true},
		{"Twitter", "", true}, // case-sensitive by design
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParsePlatform(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePlatform(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePlatform(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAllPlatformsAreValid(t *testing.T) {
	t.Parallel()

	for _, p := range AllPlatforms() {
		if !p.Valid() {
			t.Errorf("AllPlatforms() contains invalid platform %q", p)
		}
	}
}

// --- Test: ContentSubmission ---

func TestEffectiveContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sub  ContentSubmission
		want ContentType
	}{
		{
			name: "explicit type wins",
			sub:  ContentSubmission{ContentType: ContentTypeStory, MediaCount: 3},
			want: ContentTypeStory,
		},
		{
			name: "short video from duration",
			sub:  ContentSubmission{VideoDurationSec: 45},
			want: ContentTypeShortVideo,
		},
		{
			name: "long video from duration",
			sub:  ContentSubmission{VideoDurationSec: 300},
			want: ContentTypeVideo,
		},
		{
			name: "carousel from media count",
			sub:  ContentSubmission{MediaCount: 4},
			want: ContentTypeCarousel,
		},
		{
			name: "single image",
			sub:  ContentSubmission{MediaCount: 1},
			want: ContentTypeImage,
		},
		{
			name: "plain text",
			sub:  ContentSubmission{Text: "hello"},
			want: ContentTypeText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.sub.EffectiveContentType(); got != tt.want {
				t.Errorf("EffectiveContentType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAllHashtagsMergesAndDedupes(t *testing.T) {
	t.Parallel()

	sub := ContentSubmission{
		Text:     "Launch day! #AI #startup, also #ai again",
		Hashtags: []string{"Startup", "launch"},
	}

	got := sub.AllHashtags()
	want := []string{"startup", "launch", "ai"}

	if len(got) != len(want) {
		t.Fatalf("AllHashtags() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AllHashtags()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAllHashtagsEmptyContent(t *testing.T) {
	t.Parallel()

	sub := ContentSubmission{Text: "no tags here"}
	if got := sub.AllHashtags(); len(got) != 0 {
		t.Errorf("AllHashtags() = %v, want empty", got)
	}
}

// --- Test: ActualMetrics ---

func TestTotalEngagement(t *testing.T) {
	t.Parallel()

	m := ActualMetrics{
		Views:    10000,
		Likes:    500,
		Shares:   120,
		Comments: 80,
		Saves:    40,
	}
	if got := m.TotalEngagement(); got != 740 {
		t.Errorf("TotalEngagement() = %d, want 740", got)
	}
}

// --- Test: CreatorProfile ---

func TestHasStats(t *testing.T) {
	t.Parallel()

	var empty CreatorProfile
	if empty.HasStats() {
		t.Error("empty profile should not report stats")
	}

	withFollowers := CreatorProfile{FollowerCount: 10}
	if !withFollowers.HasStats() {
		t.Error("profile with followers should report stats")
	}

	aged := CreatorProfile{AccountAgeDays: 365}
	if !aged.HasStats() {
		t.Error("profile with account age should report stats")
	}
}
