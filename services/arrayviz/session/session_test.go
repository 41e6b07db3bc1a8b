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
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AleutianAI/arrayviz/pkg/frames"
	"github.com/AleutianAI/arrayviz/services/arrayviz/algorithms"
	"github.com/AleutianAI/arrayviz/services/arrayviz/telemetry"
)

// scriptAlgo replays a fixed list of updates.
type scriptAlgo struct {
	name    string
	updates []frames.Update[int]
}

func (a scriptAlgo) Name() string        { return a.name }
func (a scriptAlgo) Description() string { return "scripted updates" }
func (a scriptAlgo) Lanes() int          { return 1 }

func (a scriptAlgo) Run(_ []byte, record frames.RecordFunc[int]) error {
	for _, u := range a.updates {
		if err := record(u); err != nil {
			return err
		}
	}
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRunner(t *testing.T, extra ...algorithms.Algorithm) *Runner {
	t.Helper()
	reg := algorithms.DefaultRegistry()
	for _, a := range extra {
		require.NoError(t, reg.Register(a))
	}
	return NewRunner(reg, WithLogger(quietLogger()), WithDelay(250*time.Millisecond))
}

func TestRunner_MergeExample(t *testing.T) {
	runner := newTestRunner(t)

	rec, err := runner.Run(context.Background(), "merge", nil)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, "merge", rec.Algorithm)
	assert.Empty(t, rec.Input)
	assert.Equal(t, 2, rec.LaneCount)
	assert.Len(t, rec.Frames, 20)
	assert.Equal(t, 250*time.Millisecond, rec.Delay)
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())

	last := rec.Frames[len(rec.Frames)-1]
	assert.Equal(t, []int{1, 2, 2, 3, 4, 5, 5, 6, 7}, last.Arrays[0])
}

func TestRunner_DefaultDelay(t *testing.T) {
	runner := NewRunner(algorithms.DefaultRegistry(), WithLogger(quietLogger()))

	rec, err := runner.Run(context.Background(), "bubble", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultDelay, rec.Delay)
	assert.Equal(t, 1, rec.LaneCount)
}

func TestRunner_DistinctIDs(t *testing.T) {
	runner := newTestRunner(t)

	a, err := runner.Run(context.Background(), "pairsum", nil)
	require.NoError(t, err)
	b, err := runner.Run(context.Background(), "pairsum", nil)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Frames, b.Frames)
}

func TestRunner_Errors(t *testing.T) {
	mismatch := scriptAlgo{name: "mismatch", updates: []frames.Update[int]{
		frames.Arrays([]int{1}),
		frames.Arrays([]int{1}, []int{2}),
	}}
	missing := scriptAlgo{name: "missing", updates: []frames.Update[int]{{}}}
	empty := scriptAlgo{name: "empty"}

	runner := newTestRunner(t, mismatch, missing, empty)

	tests := []struct {
		name    string
		algo    string
		input   []byte
		wantErr error
	}{
		{"unknown algorithm", "quicksort", nil, algorithms.ErrUnknownAlgorithm},
		{"invalid input", "bubble", []byte("values: not-a-list"), algorithms.ErrInvalidInput},
		{"lane mismatch", "mismatch", nil, frames.ErrLengthMismatch},
		{"missing update", "missing", nil, frames.ErrMissingUpdate},
		{"no frames", "empty", nil, ErrEmptyRecording},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := runner.Run(context.Background(), tt.algo, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, rec)
		})
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	runner := newTestRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, "merge", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_Metrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	metrics, err := telemetry.NewMetrics(provider.Meter("arrayviz.test"))
	require.NoError(t, err)

	bad := scriptAlgo{name: "bad", updates: []frames.Update[int]{
		frames.Arrays([]int{1}),
		frames.Pointers[int](map[string]int{"i": 0}, map[string]int{}),
	}}
	reg := algorithms.DefaultRegistry()
	require.NoError(t, reg.Register(bad))
	runner := NewRunner(reg, WithLogger(quietLogger()), WithMetrics(metrics))

	_, err = runner.Run(context.Background(), "merge", nil)
	require.NoError(t, err)
	_, err = runner.Run(context.Background(), "bad", nil)
	require.Error(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	// 20 merge frames plus the one accepted frame of the failing run.
	assert.Equal(t, int64(21), sumCounter(t, rm, "arrayviz_frames_recorded_total"))
	assert.Equal(t, int64(1), sumCounter(t, rm, "arrayviz_record_errors_total"))
	assert.Equal(t, int64(2), sumCounter(t, rm, "arrayviz_sessions_total"))
}

func sumCounter(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	t.Fatalf("metric %s not collected", name)
	return 0
}

func TestRecording_CloneIsDeep(t *testing.T) {
	rec := &Recording{
		ID:        uuid.New(),
		Algorithm: "merge",
		LaneCount: 1,
		Frames: []frames.Frame[int]{
			{Arrays: [][]int{{1, 2}}, Pointers: []map[string]int{{"i": 0}}},
		},
	}

	clone := rec.Clone()
	clone.Frames[0].Arrays[0][0] = 99
	clone.Frames[0].Pointers[0]["i"] = 7

	assert.Equal(t, 1, rec.Frames[0].Arrays[0][0])
	assert.Equal(t, 0, rec.Frames[0].Pointers[0]["i"])
}

func TestRecording_Summary(t *testing.T) {
	rec := &Recording{
		ID:        uuid.New(),
		Algorithm: "bubble",
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		LaneCount: 1,
		Frames:    make([]frames.Frame[int], 4),
	}

	s := rec.Summary()
	assert.Equal(t, rec.ID, s.ID)
	assert.Equal(t, "bubble", s.Algorithm)
	assert.Equal(t, 4, s.FrameCount)
	assert.Equal(t, 1, s.LaneCount)
	assert.True(t, rec.CreatedAt.Equal(s.CreatedAt))
}
