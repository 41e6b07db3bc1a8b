// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package session

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode encodes recordings canonically so identical recordings always
// produce identical bytes. Timestamps keep nanosecond precision.
var cborEncMode cbor.EncMode

func init() {
	opts := cbor.CanonicalEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	em, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("session: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalRecording serializes a Recording to CBOR bytes.
func MarshalRecording(rec *Recording) ([]byte, error) {
	data, err := cborEncMode.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("session: marshal recording: %w", err)
	}
	return data, nil
}

// UnmarshalRecording deserializes a Recording from CBOR bytes.
func UnmarshalRecording(data []byte) (*Recording, error) {
	var rec Recording
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("session: unmarshal recording: %w", err)
	}
	return &rec, nil
}
