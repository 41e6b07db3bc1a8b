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

// Recorder accumulates the frame history of one recording session.
//
// # Description
//
// The zero value is not usable; create one with NewRecorder. A Recorder
// belongs to exactly one run of one instrumented algorithm. The lane count
// is fixed by the first successful Record call.
//
// # Thread Safety
//
// NOT safe for concurrent use; the algorithm calls Record from its own
// goroutine and readers wait until it has returned.
type Recorder[V comparable] struct {
	laneCount int
	locked    bool
	history   []Frame[V]
}

// NewRecorder creates an empty recorder.
func NewRecorder[V comparable]() *Recorder[V] {
	return &Recorder[V]{}
}

// Record validates an update and appends one new frame.
//
// # Description
//
// Absent fields are filled from the previous frame, or with empty lanes when
// the history is empty. Every stored value is a deep copy, so the caller may
// keep mutating its own slices and maps afterwards.
//
// # Inputs
//
//   - u: The update. At least one of Arrays and Pointers must be non-nil.
//
// # Outputs
//
//   - error: ErrMissingUpdate when both fields are nil, a *LengthMismatchError
//     when a present field disagrees with the lane count. On error nothing is
//     appended and the lane count is left as it was.
func (r *Recorder[V]) Record(u Update[V]) error {
	hasArrays := u.Arrays != nil
	hasPointers := u.Pointers != nil
	if !hasArrays && !hasPointers {
		return ErrMissingUpdate
	}

	laneCount := r.laneCount
	if !r.locked {
		if hasArrays {
			laneCount = len(u.Arrays)
		} else {
			laneCount = len(u.Pointers)
		}
	}

	if hasArrays && len(u.Arrays) != laneCount {
		return &LengthMismatchError{Field: "arrays", Got: len(u.Arrays), Want: laneCount}
	}
	if hasPointers && len(u.Pointers) != laneCount {
		return &LengthMismatchError{Field: "pointers", Got: len(u.Pointers), Want: laneCount}
	}

	var next Frame[V]
	switch {
	case hasArrays && hasPointers:
		next = Frame[V]{Arrays: cloneArrays(u.Arrays), Pointers: clonePointers(u.Pointers)}
	case hasArrays && len(r.history) > 0:
		prev := r.history[len(r.history)-1]
		next = Frame[V]{Arrays: cloneArrays(u.Arrays), Pointers: clonePointers(prev.Pointers)}
	case hasPointers && len(r.history) > 0:
		prev := r.history[len(r.history)-1]
		next = Frame[V]{Arrays: cloneArrays(prev.Arrays), Pointers: clonePointers(u.Pointers)}
	case hasArrays:
		next = Frame[V]{Arrays: cloneArrays(u.Arrays), Pointers: emptyPointers(laneCount)}
	default:
		next = Frame[V]{Arrays: emptyArrays[V](laneCount), Pointers: clonePointers(u.Pointers)}
	}

	r.laneCount = laneCount
	r.locked = true
	r.history = append(r.history, next)
	return nil
}

// Func returns a RecordFunc bound to this recorder.
func (r *Recorder[V]) Func() RecordFunc[V] {
	return r.Record
}

// LaneCount returns the lane count and whether it has been established.
func (r *Recorder[V]) LaneCount() (int, bool) {
	return r.laneCount, r.locked
}

// Len returns the number of recorded frames.
func (r *Recorder[V]) Len() int {
	return len(r.history)
}

// Frame returns a deep copy of the frame at index i.
//
// Panics if i is out of range.
func (r *Recorder[V]) Frame(i int) Frame[V] {
	return r.history[i].Clone()
}

// Frames returns a deep copy of the whole history, oldest first.
//
// The returned slice shares nothing with the recorder.
func (r *Recorder[V]) Frames() []Frame[V] {
	if len(r.history) == 0 {
		return nil
	}
	out := make([]Frame[V], len(r.history))
	for i, f := range r.history {
		out[i] = f.Clone()
	}
	return out
}
