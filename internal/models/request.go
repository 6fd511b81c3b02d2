// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package models

import (
	"strings"
	"time"
)

// ContentType categorizes the media framing of a submission. Platform models
// apply per-type multipliers, e.g. short video outperforms static images on
// every supported platform.
type ContentType string

// Supported content types.
const (
	ContentTypeText       ContentType = "text"
	ContentTypeImage      ContentType = "image"
	ContentTypeVideo      ContentType = "video"
	ContentTypeShortVideo ContentType = "short_video"
	ContentTypeCarousel   ContentType = "carousel"
	ContentTypeStory      ContentType = "story"
)

// Valid reports whether the content type is one of the supported values.
func (c ContentType) Valid() bool {
	switch c {
	case ContentTypeText, ContentTypeImage, ContentTypeVideo,
		ContentTypeShortVideo, ContentTypeCarousel, ContentTypeStory:
		return true
	default:
		return false
	}
}

// ContentSubmission is the raw material of a prediction: the post body and
// its declared media metadata. Media is described, not uploaded; Auspex never
// inspects binary payloads.
type ContentSubmission struct {
	// Text is the post body, including inline hashtags and mentions.
	Text string `json:"text" validate:"required,min=1"`
	// Hashtags lists tags supplied separately from the body (without '#').
	// Tags embedded in Text are extracted in addition to these.
	Hashtags []string `json:"hashtags,omitempty" validate:"max=50,dive,max=100"`
	// ContentType declares the media framing. Defaults to text when empty.
	ContentType ContentType `json:"content_type,omitempty"`
	// MediaCount is the number of attached media items.
	MediaCount int `json:"media_count,omitempty" validate:"min=0,max=20"`
	// VideoDurationSec is the declared video length, when applicable.
	VideoDurationSec float64 `json:"video_duration_sec,omitempty" validate:"min=0"`
	// HasCaptions reports whether video media carries captions.
	HasCaptions bool `json:"has_captions,omitempty"`
	// AltTextProvided reports whether image media carries alt text.
	AltTextProvided bool `json:"alt_text_provided,omitempty"`
	// ScheduledAt is the intended posting time. Nil means "now".
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// EffectiveContentType resolves the declared content type, defaulting by
// media shape when the caller left it empty.
func (c *ContentSubmission) EffectiveContentType() ContentType {
	if c.ContentType.Valid() {
		return c.ContentType
	}
	switch {
	case c.VideoDurationSec > 0 && c.VideoDurationSec <= 60:
		return ContentTypeShortVideo
	case c.VideoDurationSec > 0:
		return ContentTypeVideo
	case c.MediaCount > 1:
		return ContentTypeCarousel
	case c.MediaCount == 1:
		return ContentTypeImage
	default:
		return ContentTypeText
	}
}

// AllHashtags merges explicitly supplied hashtags with tags embedded in the
// text body, lowercased and deduplicated, preserving first-seen order.
func (c *ContentSubmission) AllHashtags() []string {
	seen := make(map[string]struct{}, len(c.Hashtags)+4)
	out := make([]string, 0, len(c.Hashtags)+4)

	add := func(tag string) {
		tag = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		if tag == "" {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}

	for _, tag := range c.Hashtags {
		add(tag)
	}
	for _, field := range strings.Fields(c.Text) {
		if strings.HasPrefix(field, "#") && len(field) > 1 {
			add(strings.TrimFunc(field, func(r rune) bool {
				return r == '#' || r == '.' || r == ',' || r == '!' || r == '?' || r == ':' || r == ';'
			}))
		}
	}
	return out
}

// CreatorProfile carries the account-level signals used for influence
// normalization and confidence assessment. All fields are optional; missing
// data lowers prediction confidence rather than failing the request.
type CreatorProfile struct {
	// FollowerCount is the creator's audience size.
	FollowerCount int64 `json:"follower_count,omitempty" validate:"min=0"`
	// FollowingCount is how many accounts the creator follows.
	FollowingCount int64 `json:"following_count,omitempty" validate:"min=0"`
	// AvgEngagementRate is the creator's historical engagement rate (0 to 1).
	AvgEngagementRate float64 `json:"avg_engagement_rate,omitempty" validate:"min=0,max=1"`
	// PostsPerWeek is the creator's recent posting cadence.
	PostsPerWeek float64 `json:"posts_per_week,omitempty" validate:"min=0"`
	// AccountAgeDays is the account's age in days.
	AccountAgeDays int `json:"account_age_days,omitempty" validate:"min=0"`
	// Verified reports platform verification status.
	Verified bool `json:"verified,omitempty"`
	// Niche names the creator's primary content vertical, e.g. "fitness".
	Niche string `json:"niche,omitempty" validate:"max=64"`
}

// HasStats reports whether the profile carries enough data to contribute to
// prediction confidence.
func (c *CreatorProfile) HasStats() bool {
	return c.FollowerCount > 0 || c.AccountAgeDays > 0
}

// PredictionRequest is the input to the prediction pipeline.
type PredictionRequest struct {
	Content  ContentSubmission `json:"content" validate:"required"`
	Platform Platform          `json:"platform" validate:"required,platform"`
	Creator  CreatorProfile    `json:"creator,omitempty"`
}

// ActualMetrics is the observed outcome of published content, reported back
// after publication. It is the sole input to labeling: labels must be a pure
// function of these numbers plus per-platform thresholds.
type ActualMetrics struct {
	// Views is the total view count at collection time.
	Views int64 `json:"views" validate:"min=0"`
	// Impressions is the total impression count, if the platform reports it.
	Impressions int64 `json:"impressions,omitempty" validate:"min=0"`
	// Likes is the total like/favorite count.
	Likes int64 `json:"likes" validate:"min=0"`
	// Shares is the total share/repost count.
	Shares int64 `json:"shares" validate:"min=0"`
	// Comments is the total comment/reply count.
	Comments int64 `json:"comments" validate:"min=0"`
	// Saves is the total save/bookmark count.
	Saves int64 `json:"saves,omitempty" validate:"min=0"`
	// FirstHourViews is the view count one hour after publication.
	FirstHourViews int64 `json:"first_hour_views,omitempty" validate:"min=0"`
	// Views24h is the view count 24 hours after publication.
	Views24h int64 `json:"views_24h,omitempty" validate:"min=0"`
	// FollowerCount is the creator's audience size at publication.
	FollowerCount int64 `json:"follower_count,omitempty" validate:"min=0"`
	// PeakHour is the UTC hour (0-23) with the highest engagement.
	PeakHour int `json:"peak_hour,omitempty" validate:"min=0,max=23"`
	// CollectedAt is when these numbers were read from the platform.
	CollectedAt time.Time `json:"collected_at,omitempty"`
}

// TotalEngagement sums the interaction counts.
func (m *ActualMetrics) TotalEngagement() int64 {
	return m.Likes + m.Shares + m.Comments + m.Saves
}

// PredictedMetrics is the engagement forecast attached to a prediction.
// Values are deterministic functions of creator influence, viral score, and
// the platform's engagement-rate cap.
type PredictedMetrics struct {
	Views          int64   `json:"views"`
	Likes          int64   `json:"likes"`
	Shares         int64   `json:"shares"`
	Comments       int64   `json:"comments"`
	EngagementRate float64 `json:"engagement_rate"`
}
