// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package frames records and diffs the state evolution of array-based
// algorithms.
//
// An instrumented algorithm is handed a RecordFunc and calls it whenever its
// arrays or named index pointers change. The Recorder validates each Update,
// fills omitted state from the previous frame, and appends an immutable
// Frame to its history. ChangedSlots compares two adjacent frames and reports,
// per lane, which array positions changed.
//
// # Lanes
//
// A recording tracks a fixed number of lanes. Each lane is one array plus
// one map of pointer names to indices into that array. The lane count is
// taken from the first successful Record call and every later update must
// supply exactly that many arrays and/or pointer maps.
//
// # Usage
//
//	rec := frames.NewRecorder[int]()
//	record := rec.Func()
//
//	nums := []int{3, 1, 2}
//	_ = record(frames.Arrays(nums))
//	_ = record(frames.Pointers(map[string]int{"i": 0}))
//
//	history := rec.Frames()
//	changed := frames.ChangedSlots(history, 1) // [[]]
//
// # Thread Safety
//
// Recorder is NOT safe for concurrent use. Recording is expected to run on
// the same goroutine as the algorithm. Frames returned by Recorder.Frames are
// deep copies and may be shared freely once recording is done.
package frames
