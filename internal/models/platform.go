// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package models

import "fmt"

// Platform identifies a supported social platform. Platforms are string-typed
// so they serialize naturally in JSON and API paths while still getting
// compile-time safety at call sites.
type Platform string

// Supported platforms. Each has a dedicated scoring model in internal/platform.
const (
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
)

// AllPlatforms lists every supported platform in declaration order.
// The order is stable and used for deterministic iteration.
func AllPlatforms() []Platform {
	return []Platform{PlatformTwitter, PlatformInstagram, PlatformTikTok}
}

// ParsePlatform converts a raw string into a Platform, rejecting unknown values.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown platform %q", s)
	}
	return p, nil
}

// Valid reports whether the platform is supported.
func (p Platform) Valid() bool {
	switch p {
	case PlatformTwitter, PlatformInstagram, PlatformTikTok:
		return true
	default:
		return false
	}
}

// String returns the platform identifier used in JSON, API paths, and metrics labels.
func (p Platform) String() string {
	return string(p)
}
