// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package training

import (
	"fmt"
	"math/rand"
	"sort"
)

// jitterBound is the maximum relative feature perturbation: each jittered
// value lands within ±5% of the original.
const jitterBound = 0.05

// Augment returns jittered copies of the given labeled points. Numeric
// features get bounded multiplicative noise from the seeded rng; values
// of exactly 0 or 1 are left alone so boolean flags and saturated scores
// survive intact. Labels are copied unchanged: augmentation widens the
// feature distribution, it never fabricates new label categories.
//
// The same points, copies, and seed always yield the same output.
func Augment(points []*ViralDataPoint, copies int, seed int64) []*ViralDataPoint {
	if copies <= 0 || len(points) == 0 {
		return nil
	}

	//nolint:gosec // G404: math/rand is acceptable for data augmentation (not security)
	rng := rand.New(rand.NewSource(seed))

	out := make([]*ViralDataPoint, 0, len(points)*copies)
	for _, p := range points {
		// Sorted keys keep the rng draw order stable across runs.
		keys := make([]string, 0, len(p.Features))
		for k := range p.Features {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for c := 1; c <= copies; c++ {
			clone := copyPoint(p)
			clone.ID = fmt.Sprintf("%s-aug-%d", p.ID, c)
			if clone.Metadata == nil {
				clone.Metadata = make(map[string]string, 2)
			}
			clone.Metadata["augmented"] = "true"
			clone.Metadata["source_id"] = p.ID

			for _, k := range keys {
				v := p.Features[k]
				if v == 0 || v == 1 {
					continue
				}
				clone.Features[k] = v * (1 + (rng.Float64()*2-1)*jitterBound)
			}
			out = append(out, clone)
		}
	}
	return out
}
