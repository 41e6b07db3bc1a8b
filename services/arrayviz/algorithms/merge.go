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
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/arrayviz/pkg/frames"
)

// MergeInput is the input of Merge.
//
// Nums1 holds M sorted values followed by room for every value of Nums2.
type MergeInput struct {
	Nums1 []int `json:"nums1" yaml:"nums1" validate:"required"`
	M     int   `json:"m" yaml:"m" validate:"gte=0"`
	Nums2 []int `json:"nums2" yaml:"nums2" validate:"sorted"`
	N     int   `json:"n" yaml:"n" validate:"gte=0"`
}

// validateMergeInput checks the cross-field constraints of MergeInput.
func validateMergeInput(sl validator.StructLevel) {
	in := sl.Current().Interface().(MergeInput)

	if in.N != len(in.Nums2) {
		sl.ReportError(in.N, "N", "n", "eqlen_nums2", "")
	}
	if len(in.Nums1) != in.M+len(in.Nums2) {
		sl.ReportError(in.Nums1, "Nums1", "nums1", "len_m_plus_n", "")
	}
	if in.M >= 0 && in.M <= len(in.Nums1) && !slices.IsSorted(in.Nums1[:in.M]) {
		sl.ReportError(in.Nums1, "Nums1", "nums1", "sorted_prefix", "")
	}
}

func exampleMergeInput() MergeInput {
	return MergeInput{
		Nums1: []int{4, 5, 7, 0, 0, 0, 0, 0, 0},
		M:     3,
		Nums2: []int{1, 2, 2, 3, 5, 6},
		N:     6,
	}
}

// Merge merges two sorted arrays in place, filling nums1 from the back.
//
// Lane 0 is nums1 with pointers "i" (last unmerged value) and "target"
// (next slot to fill). Lane 1 is nums2 with pointer "j".
type Merge struct{}

func (Merge) Name() string        { return "merge" }
func (Merge) Description() string { return "merge two sorted arrays in place (back to front)" }
func (Merge) Lanes() int          { return 2 }

// Run merges in.Nums2 into in.Nums1.
func (Merge) Run(input []byte, record frames.RecordFunc[int]) error {
	in := exampleMergeInput()
	if len(input) > 0 {
		in = MergeInput{}
	}
	if err := decodeInput(input, &in); err != nil {
		return err
	}

	nums1 := slices.Clone(in.Nums1)
	nums2 := slices.Clone(in.Nums2)
	m, n := in.M, in.N
	target := m + n

	if err := record(frames.Arrays(nums1, nums2)); err != nil {
		return fmt.Errorf("record initial arrays: %w", err)
	}

	for n > 0 {
		lane0 := map[string]int{"target": target - 1}
		if m > 0 {
			lane0["i"] = m - 1
		}
		if err := record(frames.Pointers[int](lane0, map[string]int{"j": n - 1})); err != nil {
			return fmt.Errorf("record pointers: %w", err)
		}

		if m > 0 && nums1[m-1] > nums2[n-1] {
			nums1[target-1] = nums1[m-1]
			m--
		} else {
			nums1[target-1] = nums2[n-1]
			n--
		}
		target--

		if err := record(frames.Arrays(nums1, nums2)); err != nil {
			return fmt.Errorf("record arrays: %w", err)
		}
	}

	// Whatever remains of nums1 is already in place.
	if err := record(frames.Pointers[int](map[string]int{}, map[string]int{})); err != nil {
		return fmt.Errorf("record final pointers: %w", err)
	}
	return nil
}
