// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package api exposes recordings over HTTP for out-of-process renderers.
//
// Routes live under /v1/arrayviz. Errors are returned as ErrorResponse with
// a machine-readable Code.
package api

import (
	"encoding/json"

	"github.com/AleutianAI/arrayviz/services/arrayviz/algorithms"
	"github.com/AleutianAI/arrayviz/services/arrayviz/session"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidID        = "INVALID_ID"
	CodeInvalidIndex     = "INVALID_INDEX"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeUnknownAlgorithm = "UNKNOWN_ALGORITHM"
	CodeRecordingFailed  = "RECORDING_FAILED"
	CodeNotFound         = "RECORDING_NOT_FOUND"
	CodeStepNotFound     = "STEP_NOT_FOUND"
	CodeStoreFailed      = "STORE_FAILED"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is the error code.
	Code string `json:"code,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// AlgorithmsResponse is the body of GET /algorithms.
type AlgorithmsResponse struct {
	Algorithms []algorithms.Info `json:"algorithms"`
}

// CreateRecordingRequest is the body of POST /recordings.
type CreateRecordingRequest struct {
	// Algorithm is the registry name to run.
	Algorithm string `json:"algorithm" binding:"required"`

	// Input is the algorithm input, either as a JSON object or as a string
	// holding a YAML document. Omitted selects the example input.
	Input json.RawMessage `json:"input,omitempty"`
}

// RecordingsResponse is the body of GET /recordings.
type RecordingsResponse struct {
	Recordings []session.Summary `json:"recordings"`
}
