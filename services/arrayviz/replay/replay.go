// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package replay turns a recorded frame history into the ordered step
// sequence a renderer consumes.
//
// A Step bundles one frame with everything a renderer needs to draw it:
// which slots changed since the previous frame, which lanes changed length,
// and which pointer names sit on each cell. Player walks the steps in order
// and Encode writes them out for renderers that live in another process.
package replay

import (
	"errors"
	"fmt"
	"slices"

	"github.com/AleutianAI/arrayviz/pkg/frames"
)

// ErrOutOfRange is returned for a step index outside the history.
var ErrOutOfRange = errors.New("step index out of range")

// Step is one frame ready for rendering.
type Step[V comparable] struct {
	// Index is the frame's position in the history.
	Index int `json:"index" yaml:"index"`

	// Arrays holds one value slice per lane.
	Arrays [][]V `json:"arrays" yaml:"arrays"`

	// Pointers holds one name-to-position map per lane.
	Pointers []map[string]int `json:"pointers" yaml:"pointers"`

	// Changed lists, per lane, the positions whose value differs from the
	// previous frame. Empty for every lane at index 0.
	Changed [][]int `json:"changed" yaml:"changed"`

	// Resized reports, per lane, whether the lane length differs from the
	// previous frame. Changed only covers the shorter of the two lengths.
	Resized []bool `json:"resized" yaml:"resized"`

	// Labels maps, per lane, each pointed-at position to its sorted pointer
	// names. Pointers outside the lane are left out.
	Labels []map[int][]string `json:"labels" yaml:"labels"`
}

// NewStep builds the step for history[index].
func NewStep[V comparable](history []frames.Frame[V], index int) (Step[V], error) {
	if index < 0 || index >= len(history) {
		return Step[V]{}, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, index, len(history))
	}

	f := history[index].Clone()
	labels := make([]map[int][]string, f.LaneCount())
	for lane := range labels {
		labels[lane] = Labels(f, lane)
	}

	return Step[V]{
		Index:    index,
		Arrays:   f.Arrays,
		Pointers: f.Pointers,
		Changed:  frames.ChangedSlots(history, index),
		Resized:  frames.LaneResized(history, index),
		Labels:   labels,
	}, nil
}

// Steps builds every step of history in order.
func Steps[V comparable](history []frames.Frame[V]) []Step[V] {
	out := make([]Step[V], 0, len(history))
	for i := range history {
		// i is always in range.
		step, _ := NewStep(history, i)
		out = append(out, step)
	}
	return out
}

// Labels maps positions of frame's lane to the names of the pointers that
// point at them, each list sorted.
//
// Only positions inside the lane get labels; negative or past-the-end
// pointer values have no cell to sit on and are omitted.
func Labels[V comparable](frame frames.Frame[V], lane int) map[int][]string {
	out := make(map[int][]string)
	if lane < 0 || lane >= len(frame.Pointers) || lane >= len(frame.Arrays) {
		return out
	}

	size := len(frame.Arrays[lane])
	for name, pos := range frame.Pointers[lane] {
		if pos < 0 || pos >= size {
			continue
		}
		out[pos] = append(out[pos], name)
	}
	for pos := range out {
		slices.Sort(out[pos])
	}
	return out
}

// =============================================================================
// Player
// =============================================================================

// Player replays a history one step at a time.
//
// # Description
//
// Next yields steps from the current position until the history is
// exhausted. Reset rewinds to the first step and Seek jumps anywhere.
//
// # Thread Safety
//
// NOT safe for concurrent use.
type Player[V comparable] struct {
	history []frames.Frame[V]
	pos     int
}

// NewPlayer creates a Player positioned at the first step.
func NewPlayer[V comparable](history []frames.Frame[V]) *Player[V] {
	return &Player[V]{history: history}
}

// Next returns the step at the current position and advances. The bool is
// false once every step has been returned.
func (p *Player[V]) Next() (Step[V], bool) {
	if p.pos >= len(p.history) {
		return Step[V]{}, false
	}
	step, _ := NewStep(p.history, p.pos)
	p.pos++
	return step, true
}

// Reset rewinds to the first step.
func (p *Player[V]) Reset() {
	p.pos = 0
}

// Seek positions the player so the next call to Next returns step i.
// Seeking to Len() is allowed and leaves the player exhausted.
func (p *Player[V]) Seek(i int) error {
	if i < 0 || i > len(p.history) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrOutOfRange, i, len(p.history))
	}
	p.pos = i
	return nil
}

// Position is the index of the step Next will return.
func (p *Player[V]) Position() int {
	return p.pos
}

// Len is the number of steps in the history.
func (p *Player[V]) Len() int {
	return len(p.history)
}
