// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package session runs instrumented algorithms and keeps their recordings.
//
// A Runner drives one algorithm against a fresh frames.Recorder and returns
// the finished Recording. Recordings are kept in a Store: MemoryStore for
// tests and throwaway runs, BadgerStore for anything that must survive a
// restart. Stored values are canonical CBOR.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/arrayviz/pkg/frames"
	"github.com/AleutianAI/arrayviz/services/arrayviz/algorithms"
	"github.com/AleutianAI/arrayviz/services/arrayviz/telemetry"
)

const tracerName = "arrayviz.session"

// DefaultDelay is the pause between frames suggested to renderers.
const DefaultDelay = time.Second

// ErrEmptyRecording is returned when an algorithm finishes without
// recording a single frame.
var ErrEmptyRecording = errors.New("algorithm recorded no frames")

// Recording is the finished frame history of one algorithm run.
type Recording struct {
	// ID uniquely identifies the recording.
	ID uuid.UUID `json:"id" yaml:"id"`

	// Algorithm is the registry name of the algorithm that produced it.
	Algorithm string `json:"algorithm" yaml:"algorithm"`

	// Input is the raw input document, empty for the example input.
	Input string `json:"input,omitempty" yaml:"input,omitempty"`

	// CreatedAt is when the run finished, in UTC.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// LaneCount is the lane count locked in by the first frame.
	LaneCount int `json:"lane_count" yaml:"lane_count"`

	// Frames is the full history in recording order.
	Frames []frames.Frame[int] `json:"frames" yaml:"frames"`

	// Delay is the pause a renderer should hold each frame for.
	Delay time.Duration `json:"delay" yaml:"delay"`
}

// Summary is the listing view of a Recording.
type Summary struct {
	ID         uuid.UUID `json:"id" yaml:"id"`
	Algorithm  string    `json:"algorithm" yaml:"algorithm"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	LaneCount  int       `json:"lane_count" yaml:"lane_count"`
	FrameCount int       `json:"frame_count" yaml:"frame_count"`
}

// Summary returns the listing view of r.
func (r *Recording) Summary() Summary {
	return Summary{
		ID:         r.ID,
		Algorithm:  r.Algorithm,
		CreatedAt:  r.CreatedAt,
		LaneCount:  r.LaneCount,
		FrameCount: len(r.Frames),
	}
}

// Clone returns a deep copy of r.
func (r *Recording) Clone() *Recording {
	out := *r
	out.Frames = make([]frames.Frame[int], len(r.Frames))
	for i, f := range r.Frames {
		out.Frames[i] = f.Clone()
	}
	return &out
}

// =============================================================================
// Runner
// =============================================================================

// Runner executes registered algorithms and produces recordings.
//
// # Description
//
// Each Run uses its own Recorder, so a Runner can serve concurrent runs.
// Metrics are optional; with none configured nothing is counted.
//
// # Thread Safety
//
// Safe for concurrent use.
type Runner struct {
	registry *algorithms.Registry
	metrics  *telemetry.Metrics
	logger   *slog.Logger
	delay    time.Duration
	now      func() time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithMetrics counts frames, record errors and runs on m.
func WithMetrics(m *telemetry.Metrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithDelay sets the per-frame delay stored on each recording.
func WithDelay(d time.Duration) RunnerOption {
	return func(r *Runner) { r.delay = d }
}

// NewRunner creates a Runner over registry.
func NewRunner(registry *algorithms.Registry, opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: registry,
		logger:   slog.Default(),
		delay:    DefaultDelay,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Algorithms lists the algorithms this runner can execute.
func (r *Runner) Algorithms() []algorithms.Info {
	return r.registry.List()
}

// Run executes the named algorithm and returns its recording.
//
// # Description
//
// The algorithm receives a RecordFunc bound to a fresh Recorder. Any error
// the recorder returns is handed back to the algorithm unchanged, and
// algorithms in this module propagate it, so a mismatched update aborts
// the run. A cancelled ctx is reported through the same callback.
//
// # Inputs
//
//   - ctx: Cancellation and tracing context.
//   - name: Registry name of the algorithm.
//   - input: YAML or JSON input document. Empty selects the example input.
//
// # Outputs
//
//   - *Recording: The finished recording with a new ID.
//   - error: algorithms.ErrUnknownAlgorithm, algorithms.ErrInvalidInput,
//     a frames error, ErrEmptyRecording, or ctx.Err().
func (r *Runner) Run(ctx context.Context, name string, input []byte) (*Recording, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "Runner.Run",
		trace.WithAttributes(attribute.String("algorithm", name)),
	)
	defer span.End()

	start := time.Now()
	rec, err := r.run(ctx, name, input)
	r.observeRun(ctx, name, time.Since(start), err)
	if err != nil {
		telemetry.RecordError(span, err)
		r.logger.Warn("algorithm run failed",
			slog.String("algorithm", name),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("recording_id", rec.ID.String()),
		attribute.Int("frames", len(rec.Frames)),
	)
	telemetry.SetSpanOK(span)
	r.logger.Info("algorithm run recorded",
		slog.String("algorithm", name),
		slog.String("recording_id", rec.ID.String()),
		slog.Int("frames", len(rec.Frames)),
		slog.Int("lanes", rec.LaneCount),
	)
	return rec, nil
}

func (r *Runner) run(ctx context.Context, name string, input []byte) (*Recording, error) {
	algo, err := r.registry.Get(name)
	if err != nil {
		return nil, err
	}

	recorder := frames.NewRecorder[int]()
	record := func(u frames.Update[int]) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := recorder.Record(u); err != nil {
			r.observeRecordError(ctx, name, err)
			return err
		}
		if r.metrics != nil {
			r.metrics.FramesRecorded.Add(ctx, 1,
				metric.WithAttributes(attribute.String("algorithm", name)))
		}
		return nil
	}

	if err := algo.Run(input, record); err != nil {
		return nil, fmt.Errorf("run %s: %w", name, err)
	}

	lanes, ok := recorder.LaneCount()
	if !ok || recorder.Len() == 0 {
		return nil, fmt.Errorf("run %s: %w", name, ErrEmptyRecording)
	}

	return &Recording{
		ID:        uuid.New(),
		Algorithm: name,
		Input:     string(input),
		CreatedAt: r.now().UTC(),
		LaneCount: lanes,
		Frames:    recorder.Frames(),
		Delay:     r.delay,
	}, nil
}

func (r *Runner) observeRecordError(ctx context.Context, name string, err error) {
	if r.metrics == nil {
		return
	}
	kind := "other"
	switch {
	case errors.Is(err, frames.ErrLengthMismatch):
		kind = "length_mismatch"
	case errors.Is(err, frames.ErrMissingUpdate):
		kind = "missing_update"
	}
	r.metrics.RecordErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("algorithm", name),
		attribute.String("kind", kind),
	))
}

func (r *Runner) observeRun(ctx context.Context, name string, elapsed time.Duration, err error) {
	if r.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("algorithm", name),
		attribute.String("outcome", outcome),
	)
	r.metrics.SessionsTotal.Add(ctx, 1, attrs)
	r.metrics.SessionDuration.Record(ctx, elapsed.Seconds(), attrs)
}
