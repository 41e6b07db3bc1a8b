// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package frames

import "maps"

// Frame is one immutable snapshot of every tracked lane.
//
// Arrays[L] holds the values of lane L and Pointers[L] maps pointer names to
// positions in that lane. Both slices always have the recording's lane count.
// Lane lengths may differ between lanes and between frames.
type Frame[V comparable] struct {
	Arrays   [][]V            `json:"arrays" yaml:"arrays"`
	Pointers []map[string]int `json:"pointers" yaml:"pointers"`
}

// LaneCount returns the number of lanes in the frame.
func (f Frame[V]) LaneCount() int {
	return len(f.Arrays)
}

// Clone returns a deep copy of the frame.
func (f Frame[V]) Clone() Frame[V] {
	return Frame[V]{
		Arrays:   cloneArrays(f.Arrays),
		Pointers: clonePointers(f.Pointers),
	}
}

// Update is the argument to a single Record call.
//
// A nil field is absent and means "carry forward from the previous frame".
// A non-nil field is present, even when it has no elements, and must have
// exactly the recording's lane count.
type Update[V comparable] struct {
	Arrays   [][]V
	Pointers []map[string]int
}

// Arrays builds an Update carrying only lane arrays.
func Arrays[V comparable](lanes ...[]V) Update[V] {
	if lanes == nil {
		lanes = [][]V{}
	}
	return Update[V]{Arrays: lanes}
}

// Pointers builds an Update carrying only lane pointer maps.
//
// The type parameter cannot be inferred and must be given explicitly:
//
//	record(frames.Pointers[int](map[string]int{"i": 0}))
func Pointers[V comparable](lanes ...map[string]int) Update[V] {
	if lanes == nil {
		lanes = []map[string]int{}
	}
	return Update[V]{Pointers: lanes}
}

// Both builds an Update carrying arrays and pointer maps.
func Both[V comparable](arrays [][]V, pointers []map[string]int) Update[V] {
	return Update[V]{Arrays: arrays, Pointers: pointers}
}

// RecordFunc is the callback handed to an instrumented algorithm.
type RecordFunc[V comparable] func(Update[V]) error

func cloneArrays[V comparable](lanes [][]V) [][]V {
	if lanes == nil {
		return nil
	}
	out := make([][]V, len(lanes))
	for i, lane := range lanes {
		out[i] = append(make([]V, 0, len(lane)), lane...)
	}
	return out
}

func clonePointers(lanes []map[string]int) []map[string]int {
	if lanes == nil {
		return nil
	}
	out := make([]map[string]int, len(lanes))
	for i, lane := range lanes {
		m := make(map[string]int, len(lane))
		maps.Copy(m, lane)
		out[i] = m
	}
	return out
}

func emptyArrays[V comparable](n int) [][]V {
	out := make([][]V, n)
	for i := range out {
		out[i] = []V{}
	}
	return out
}

func emptyPointers(n int) []map[string]int {
	out := make([]map[string]int, n)
	for i := range out {
		out[i] = map[string]int{}
	}
	return out
}
