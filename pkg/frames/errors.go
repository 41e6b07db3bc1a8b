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

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Recorder.Record.
var (
	// ErrLengthMismatch indicates an update supplied a different number of
	// arrays or pointer maps than the recording's lane count.
	ErrLengthMismatch = errors.New("lane count mismatch")

	// ErrMissingUpdate indicates an update supplied neither arrays nor
	// pointer maps.
	ErrMissingUpdate = errors.New("update has neither arrays nor pointers")
)

// LengthMismatchError describes which field of an update disagreed with the
// lane count.
//
// It matches ErrLengthMismatch under errors.Is.
type LengthMismatchError struct {
	// Field is "arrays" or "pointers".
	Field string

	// Got is the number of lanes the update supplied.
	Got int

	// Want is the recording's lane count.
	Want int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("length of %s is %d, expected %d", e.Field, e.Got, e.Want)
}

// Is reports whether target is ErrLengthMismatch.
func (e *LengthMismatchError) Is(target error) bool {
	return target == ErrLengthMismatch
}
