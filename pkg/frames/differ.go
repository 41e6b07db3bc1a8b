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

// ChangedSlots reports which array positions changed in each lane between
// history[index-1] and history[index].
//
// # Description
//
// For index 0 there is no previous frame and every lane gets an empty
// slice. Otherwise each lane is compared position by position up to the
// shorter of the two lane lengths; positions past that are not compared.
// Use LaneResized to find lanes whose length changed.
//
// # Inputs
//
//   - history: Recorded frames, oldest first. Not modified.
//   - index: Frame to diff. Must be in range.
//
// # Outputs
//
//   - [][]int: One ascending, non-nil slice of positions per lane.
func ChangedSlots[V comparable](history []Frame[V], index int) [][]int {
	current := history[index]
	changed := make([][]int, len(current.Arrays))
	for lane := range changed {
		changed[lane] = []int{}
	}
	if index == 0 {
		return changed
	}

	previous := history[index-1]
	for lane, cur := range current.Arrays {
		if lane >= len(previous.Arrays) {
			break
		}
		prev := previous.Arrays[lane]
		n := min(len(cur), len(prev))
		for i := 0; i < n; i++ {
			if cur[i] != prev[i] {
				changed[lane] = append(changed[lane], i)
			}
		}
	}
	return changed
}

// LaneResized reports, per lane, whether the lane length differs between
// history[index-1] and history[index]. Index 0 reports no resizes.
func LaneResized[V comparable](history []Frame[V], index int) []bool {
	current := history[index]
	resized := make([]bool, len(current.Arrays))
	if index == 0 {
		return resized
	}
	previous := history[index-1]
	for lane, cur := range current.Arrays {
		if lane < len(previous.Arrays) {
			resized[lane] = len(cur) != len(previous.Arrays[lane])
		}
	}
	return resized
}
