// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/arrayviz/pkg/frames"
)

// run executes an algorithm against a fresh recorder.
func run(t *testing.T, a Algorithm, input string) ([]frames.Frame[int], error) {
	t.Helper()
	rec := frames.NewRecorder[int]()
	err := a.Run([]byte(input), rec.Func())
	return rec.Frames(), err
}

// =============================================================================
// Registry Tests
// =============================================================================

func TestDefaultRegistry_List(t *testing.T) {
	infos := DefaultRegistry().List()

	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	assert.Equal(t, []string{"bubble", "merge", "pairsum"}, names)
	assert.Equal(t, 2, infos[1].Lanes)
}

func TestRegistry_Get(t *testing.T) {
	r := DefaultRegistry()

	a, err := r.Get("merge")
	require.NoError(t, err)
	assert.Equal(t, "merge", a.Name())

	_, err = r.Get("quicksort")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Merge{}))
	assert.ErrorIs(t, r.Register(Merge{}), ErrDuplicateAlgorithm)
}

// =============================================================================
// Merge Tests
// =============================================================================

func TestMerge_ExampleInput(t *testing.T) {
	history, err := run(t, Merge{}, "")
	require.NoError(t, err)

	// Initial frame, two frames per merged value, final pointer reset.
	require.Len(t, history, 1+2*9+1)

	assert.Equal(t, frames.Frame[int]{
		Arrays:   [][]int{{4, 5, 7, 0, 0, 0, 0, 0, 0}, {1, 2, 2, 3, 5, 6}},
		Pointers: []map[string]int{{}, {}},
	}, history[0])

	assert.Equal(t, []map[string]int{{"i": 2, "target": 8}, {"j": 5}}, history[1].Pointers)
	assert.Equal(t, []int{4, 5, 7, 0, 0, 0, 0, 0, 7}, history[2].Arrays[0])
	assert.Equal(t, [][]int{{8}, {}}, frames.ChangedSlots(history, 2))

	last := history[len(history)-1]
	assert.Equal(t, []int{1, 2, 2, 3, 4, 5, 5, 6, 7}, last.Arrays[0])
	assert.Equal(t, []map[string]int{{}, {}}, last.Pointers)

	for i, f := range history {
		assert.Equal(t, 2, f.LaneCount(), "frame %d", i)
	}
}

func TestMerge_EmptySecondArray(t *testing.T) {
	history, err := run(t, Merge{}, `{"nums1": [1, 2], "m": 2, "nums2": [], "n": 0}`)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, []int{1, 2}, history[1].Arrays[0])
}

func TestMerge_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"n disagrees with nums2", "nums1: [1, 0]\nm: 1\nnums2: [2]\nn: 2\n"},
		{"nums1 too short", "nums1: [1]\nm: 1\nnums2: [2]\nn: 1\n"},
		{"nums2 unsorted", "nums1: [1, 0, 0]\nm: 1\nnums2: [3, 2]\nn: 2\n"},
		{"nums1 prefix unsorted", "nums1: [3, 1, 0]\nm: 2\nnums2: [2]\nn: 1\n"},
		{"negative m", "nums1: [0]\nm: -1\nnums2: [1]\nn: 1\n"},
		{"missing nums1", "m: 0\nnums2: []\nn: 0\n"},
		{"not yaml", "nums1: [1, 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history, err := run(t, Merge{}, tt.input)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, history)
		})
	}
}

// =============================================================================
// Bubble Sort Tests
// =============================================================================

func TestBubbleSort_ExampleInput(t *testing.T) {
	history, err := run(t, BubbleSort{}, "")
	require.NoError(t, err)
	require.NotEmpty(t, history)

	assert.Equal(t, []int{5, 1, 4, 2, 8, 0}, history[0].Arrays[0])

	last := history[len(history)-1]
	assert.Equal(t, []int{0, 1, 2, 4, 5, 8}, last.Arrays[0])
	assert.Equal(t, []map[string]int{{}}, last.Pointers)
}

func TestBubbleSort_SortedInputExitsEarly(t *testing.T) {
	history, err := run(t, BubbleSort{}, `{"values": [1, 2, 3]}`)
	require.NoError(t, err)

	// Initial frame, two comparisons in the only pass, final reset.
	require.Len(t, history, 4)
	for i := 1; i < len(history); i++ {
		assert.Equal(t, [][]int{{}}, frames.ChangedSlots(history, i))
	}
}

func TestBubbleSort_SwapIsHighlighted(t *testing.T) {
	history, err := run(t, BubbleSort{}, "values: [2, 1]\n")
	require.NoError(t, err)

	// [2 1] -> compare j=0 -> swap -> reset
	require.Len(t, history, 4)
	assert.Equal(t, [][]int{{0, 1}}, frames.ChangedSlots(history, 2))
}

func TestBubbleSort_TooLarge(t *testing.T) {
	values := make([]int, 300)
	input := "values: ["
	for i := range values {
		if i > 0 {
			input += ","
		}
		input += "1"
	}
	input += "]"

	_, err := run(t, BubbleSort{}, input)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// =============================================================================
// Pair Sum Tests
// =============================================================================

func TestPairSum_Found(t *testing.T) {
	history, err := run(t, PairSum{}, "")
	require.NoError(t, err)

	require.Len(t, history, 4)
	assert.Equal(t, []map[string]int{{"lo": 0, "hi": 5}}, history[0].Pointers)
	assert.Equal(t, []map[string]int{{"lo": 2, "hi": 4}}, history[3].Pointers)
}

func TestPairSum_NotFound(t *testing.T) {
	history, err := run(t, PairSum{}, `{"values": [1, 2, 3, 4, 5, 6], "target": 100}`)
	require.NoError(t, err)

	require.Len(t, history, 7)
	assert.Equal(t, []map[string]int{{"lo": -1, "hi": -1}}, history[6].Pointers)

	// The array itself never changes.
	for i := range history {
		assert.Equal(t, [][]int{{}}, frames.ChangedSlots(history, i))
	}
}

func TestPairSum_UnsortedInput(t *testing.T) {
	_, err := run(t, PairSum{}, `{"values": [3, 1, 2], "target": 3}`)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// =============================================================================
// Recording Error Propagation
// =============================================================================

func TestRun_RecordErrorPropagates(t *testing.T) {
	calls := 0
	record := func(u frames.Update[int]) error {
		calls++
		if calls == 2 {
			return frames.ErrMissingUpdate
		}
		return nil
	}

	for _, a := range []Algorithm{Merge{}, BubbleSort{}, PairSum{}} {
		calls = 0
		err := a.Run(nil, record)
		assert.ErrorIs(t, err, frames.ErrMissingUpdate, a.Name())
	}
}
