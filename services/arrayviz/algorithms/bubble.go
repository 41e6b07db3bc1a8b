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

// BubbleSortInput is the input of BubbleSort.
type BubbleSortInput struct {
	Values []int `json:"values" yaml:"values" validate:"required,max=256"`
}

// BubbleSort sorts a single lane, recording every comparison and swap.
//
// Pointer "j" marks the left element of the compared pair and "end" the
// first position that is already in its final place.
type BubbleSort struct{}

func (BubbleSort) Name() string        { return "bubble" }
func (BubbleSort) Description() string { return "bubble sort with early exit" }
func (BubbleSort) Lanes() int          { return 1 }

// Run sorts in.Values ascending.
func (BubbleSort) Run(input []byte, record frames.RecordFunc[int]) error {
	in := BubbleSortInput{Values: []int{5, 1, 4, 2, 8, 0}}
	if len(input) > 0 {
		in = BubbleSortInput{}
	}
	if err := decodeInput(input, &in); err != nil {
		return err
	}

	values := slices.Clone(in.Values)
	if err := record(frames.Arrays(values)); err != nil {
		return fmt.Errorf("record initial array: %w", err)
	}

	for end := len(values); end > 1; end-- {
		swapped := false
		for j := 0; j+1 < end; j++ {
			if err := record(frames.Pointers[int](map[string]int{"j": j, "end": end})); err != nil {
				return fmt.Errorf("record pointers: %w", err)
			}
			if values[j] > values[j+1] {
				values[j], values[j+1] = values[j+1], values[j]
				swapped = true
				if err := record(frames.Arrays(values)); err != nil {
					return fmt.Errorf("record swap: %w", err)
				}
			}
		}
		if !swapped {
			break
		}
	}

	if err := record(frames.Pointers[int](map[string]int{})); err != nil {
		return fmt.Errorf("record final pointers: %w", err)
	}
	return nil
}
