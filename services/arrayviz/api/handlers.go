// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/arrayviz/pkg/frames"
	"github.com/AleutianAI/arrayviz/services/arrayviz/algorithms"
	"github.com/AleutianAI/arrayviz/services/arrayviz/replay"
	"github.com/AleutianAI/arrayviz/services/arrayviz/session"
)

// Handlers serves the arrayviz HTTP API.
//
// Thread Safety: Safe for concurrent use when the runner and store are.
type Handlers struct {
	runner *session.Runner
	store  session.Store
}

// NewHandlers creates handlers over runner and store.
func NewHandlers(runner *session.Runner, store session.Store) *Handlers {
	return &Handlers{runner: runner, store: store}
}

// getOrCreateRequestID returns the X-Request-ID header, generating one if
// absent, and echoes it on the response.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}

// HandleHealth handles GET /v1/arrayviz/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy"})
}

// HandleListAlgorithms handles GET /v1/arrayviz/algorithms.
func (h *Handlers) HandleListAlgorithms(c *gin.Context) {
	c.JSON(http.StatusOK, AlgorithmsResponse{Algorithms: h.runner.Algorithms()})
}

// HandleCreateRecording handles POST /v1/arrayviz/recordings.
//
// Description:
//
//	Runs the requested algorithm, stores the recording and returns its
//	summary with a Location header pointing at the full recording.
//
// Responses:
//
//	201 - session.Summary
//	400 - INVALID_REQUEST, INVALID_INPUT
//	404 - UNKNOWN_ALGORITHM
//	422 - RECORDING_FAILED (the algorithm sent an update the recorder rejected)
//	500 - STORE_FAILED
func (h *Handlers) HandleCreateRecording(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleCreateRecording")

	var req CreateRecordingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeInvalidRequest})
		return
	}

	input, err := inputDocument(req.Input)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeInvalidRequest})
		return
	}

	ctx := c.Request.Context()
	rec, err := h.runner.Run(ctx, req.Algorithm, input)
	if err != nil {
		status, code := runErrorStatus(err)
		logger.Warn("Recording failed", "algorithm", req.Algorithm, "error", err)
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}

	if err := h.store.Save(ctx, rec); err != nil {
		logger.Error("Save recording failed", "recording_id", rec.ID, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: CodeStoreFailed})
		return
	}

	logger.Info("Created recording", "recording_id", rec.ID, "frames", len(rec.Frames))
	c.Header("Location", c.FullPath()+"/"+rec.ID.String())
	c.JSON(http.StatusCreated, rec.Summary())
}

// HandleListRecordings handles GET /v1/arrayviz/recordings.
func (h *Handlers) HandleListRecordings(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		slog.Error("List recordings failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: CodeStoreFailed})
		return
	}
	c.JSON(http.StatusOK, RecordingsResponse{Recordings: list})
}

// HandleGetRecording handles GET /v1/arrayviz/recordings/:id.
func (h *Handlers) HandleGetRecording(c *gin.Context) {
	rec, ok := h.loadRecording(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rec)
}

// HandleGetStep handles GET /v1/arrayviz/recordings/:id/steps/:index.
//
// The step carries the frame, its changed slots, resized lanes and
// pointer labels, so a renderer can draw it without the previous frame.
func (h *Handlers) HandleGetStep(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "index must be an integer", Code: CodeInvalidIndex})
		return
	}

	rec, ok := h.loadRecording(c)
	if !ok {
		return
	}

	step, err := replay.NewStep(rec.Frames, index)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: CodeStepNotFound})
		return
	}
	c.JSON(http.StatusOK, step)
}

// HandleDeleteRecording handles DELETE /v1/arrayviz/recordings/:id.
func (h *Handlers) HandleDeleteRecording(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleDeleteRecording")

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: CodeNotFound})
			return
		}
		logger.Error("Delete recording failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: CodeStoreFailed})
		return
	}

	logger.Info("Deleted recording", "recording_id", id)
	c.Status(http.StatusNoContent)
}

// loadRecording resolves the :id parameter, writing the error response
// itself when it returns false.
func (h *Handlers) loadRecording(c *gin.Context) (*session.Recording, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}

	rec, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: CodeNotFound})
			return nil, false
		}
		slog.Error("Get recording failed", "recording_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: CodeStoreFailed})
		return nil, false
	}
	return rec, true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id must be a UUID", Code: CodeInvalidID})
		return uuid.Nil, false
	}
	return id, true
}

// inputDocument turns the request's input field into the document handed to
// the algorithm. A JSON string is unwrapped so it can carry YAML.
func inputDocument(raw json.RawMessage) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '"' {
		var doc string
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, err
		}
		return []byte(doc), nil
	}
	return trimmed, nil
}

// runErrorStatus maps a Runner.Run error to a status and error code.
func runErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, algorithms.ErrUnknownAlgorithm):
		return http.StatusNotFound, CodeUnknownAlgorithm
	case errors.Is(err, algorithms.ErrInvalidInput):
		return http.StatusBadRequest, CodeInvalidInput
	case errors.Is(err, frames.ErrLengthMismatch),
		errors.Is(err, frames.ErrMissingUpdate),
		errors.Is(err, session.ErrEmptyRecording):
		return http.StatusUnprocessableEntity, CodeRecordingFailed
	default:
		return http.StatusInternalServerError, CodeRecordingFailed
	}
}
