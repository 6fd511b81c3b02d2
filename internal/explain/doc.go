// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

/*
Package explain turns scored predictions into explanations a person can
act on.

The package evaluates a fixed, declaration-ordered table of factors
against the extracted feature vector. Each factor belongs to one of five
categories (content, timing, platform, creator, social) and reports its
impact as the realized value minus a category baseline, so zero always
reads as "meets expectations". Factors are ranked by impact magnitude
with ties resolved by table order, which keeps output deterministic for
a given input.

Detail levels (brief, standard, comprehensive) only truncate the ranked
list; they never re-rank it. Two explanations of the same post at
different detail levels therefore agree on every factor they share.
Audience tiers work the same way for the narrative: beginner,
intermediate, and advanced describe the identical factor set with
different vocabulary and numeric detail.

Recommendations and what-if scenarios are derived from the same table.
Negative-impact factors map to their remediation strings, prioritized by
weight times impact magnitude; what-if scenarios project banded score
deltas as weight times the distance to the scenario's target value.

The Explainer holds no mutable state and is safe for concurrent use.
*/
package explain
