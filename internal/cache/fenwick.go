// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package cache

import (
	"sync"
)

// FenwickTree (Binary Indexed Tree) provides O(log n) range sum queries and updates.
// It's ideal for distribution analytics where we need efficient:
//   - Point updates: Update count for a specific score bucket
//   - Range queries: Sum counts across a bucket range
//   - Prefix sums: Total count up to a specific bucket
//
// Time Complexity:
//   - Update: O(log n)
//   - Range Query: O(log n)
//   - Point Query: O(log n)
//
// Compared to array-based aggregation:
//   - Array update: O(1), but range query: O(n)
//   - FenwickTree: O(log n) for both
//
// Use cases:
//   - Score distributions (percentile rank within a labeled dataset)
//   - Quality report percentile summaries
type FenwickTree struct {
	mu   sync.RWMutex
	tree []int64 // 1-indexed for cleaner bit manipulation
	n    int     // Number of elements (buckets)
}

// NewFenwickTree creates a new Fenwick Tree with n buckets.
// Each bucket can represent a time unit (hour, day, etc.).
func NewFenwickTree(n int) *FenwickTree {
	if n <= 0 {
		n = 1
	}
	return &FenwickTree{
		tree: make([]int64, n+1), // 1-indexed
		n:    n,
	}
}

// Update adds delta to the value at index i (0-indexed).
// Time complexity: O(log n)
func (ft *FenwickTree) Update(i int, delta int64) {
	if i < 0 || i >= ft.n {
		return
	}

	ft.mu.Lock()
	defer ft.mu.Unlock()

	i++ // Convert to 1-indexed
	for i <= ft.n {
		ft.tree[i] += delta
		i += i & (-i) // Add last set bit
	}
}

// PrefixSum returns the sum of elements from index 0 to i (inclusive, 0-indexed).
// Time complexity: O(log n)
func (ft *FenwickTree) PrefixSum(i int) int64 {
	if i < 0 {
		return 0
	}
	if i >= ft.n {
		i = ft.n - 1
	}

	ft.mu.RLock()
	defer ft.mu.RUnlock()

	i++ // Convert to 1-indexed
	var sum int64
	for i > 0 {
		sum += ft.tree[i]
		i -= i & (-i) // Remove last set bit
	}
	return sum
}

// RangeSum returns the sum of elements from index left to right (inclusive, 0-indexed).
// Time complexity: O(log n)
func (ft *FenwickTree) RangeSum(left, right int) int64 {
	if left < 0 {
		left = 0
	}
	if right >= ft.n {
		right = ft.n - 1
	}
	if left > right {
		return 0
	}

	if left == 0 {
		return ft.PrefixSum(right)
	}
	return ft.PrefixSum(right) - ft.PrefixSum(left-1)
}

// Get returns the value at index i (0-indexed).
// Time complexity: O(log n)
func (ft *FenwickTree) Get(i int) int64 {
	if i < 0 || i >= ft.n {
		return 0
	}
	return ft.RangeSum(i, i)
}

// Set sets the value at index i to val (0-indexed).
// Time complexity: O(log n)
func (ft *FenwickTree) Set(i int, val int64) {
	current := ft.Get(i)
	ft.Update(i, val-current)
}

// Size returns the number of buckets.
func (ft *FenwickTree) Size() int {
	return ft.n
}

// Total returns the sum of all elements.
// Time complexity: O(log n)
func (ft *FenwickTree) Total() int64 {
	return ft.PrefixSum(ft.n - 1)
}

// Clear resets all values to zero.
func (ft *FenwickTree) Clear() {
	ft.mu.Lock()
	defer ft.mu.Unlock()

	for i := range ft.tree {
		ft.tree[i] = 0
	}
}
