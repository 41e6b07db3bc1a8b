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

	"github.com/AleutianAI/arrayviz/pkg/frames"
)

// PairSumInput is the input of PairSum.
type PairSumInput struct {
	Values []int `json:"values" yaml:"values" validate:"required,sorted"`
	Target int   `json:"target" yaml:"target"`
}

// PairSum scans a sorted lane from both ends for two values adding up to
// Target.
//
// Pointers "lo" and "hi" converge. When no pair exists the last frame sets
// both to -1.
type PairSum struct{}

func (PairSum) Name() string        { return "pairsum" }
func (PairSum) Description() string { return "two-pointer search for a pair with a given sum" }
func (PairSum) Lanes() int          { return 1 }

// Run searches in.Values for a pair summing to in.Target.
func (PairSum) Run(input []byte, record frames.RecordFunc[int]) error {
	in := PairSumInput{Values: []int{1, 2, 4, 7, 11, 15}, Target: 15}
	if len(input) > 0 {
		in = PairSumInput{}
	}
	if err := decodeInput(input, &in); err != nil {
		return err
	}

	values := slices.Clone(in.Values)
	lo, hi := 0, len(values)-1

	if err := record(frames.Both([][]int{values}, []map[string]int{{"lo": lo, "hi": hi}})); err != nil {
		return fmt.Errorf("record initial state: %w", err)
	}

	for lo < hi {
		sum := values[lo] + values[hi]
		if sum == in.Target {
			return nil
		}
		if sum < in.Target {
			lo++
		} else {
			hi--
		}
		if err := record(frames.Pointers[int](map[string]int{"lo": lo, "hi": hi})); err != nil {
			return fmt.Errorf("record pointers: %w", err)
		}
	}

	if err := record(frames.Pointers[int](map[string]int{"lo": -1, "hi": -1})); err != nil {
		return fmt.Errorf("record not found: %w", err)
	}
	return nil
}
