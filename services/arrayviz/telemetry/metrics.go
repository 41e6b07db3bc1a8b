// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the arrayviz instruments.
//
// # Description
//
// Created once with NewMetrics and shared by the session runner and the
// HTTP API. Instruments come from whatever MeterProvider is global at
// creation time; with no provider configured they are no-ops.
//
// # Thread Safety
//
// Safe for concurrent use after creation.
type Metrics struct {
	// FramesRecorded counts frames appended to a recorder.
	FramesRecorded metric.Int64Counter

	// RecordErrors counts rejected recording calls, by error kind.
	RecordErrors metric.Int64Counter

	// SessionsTotal counts algorithm runs, by algorithm and outcome.
	SessionsTotal metric.Int64Counter

	// SessionDuration is the wall time of one algorithm run.
	SessionDuration metric.Float64Histogram

	// HTTPRequestsTotal counts API requests, by route and status.
	HTTPRequestsTotal metric.Int64Counter
}

// NewMetrics creates every arrayviz instrument from meter.
//
// Inputs:
//
//	meter - Meter to create instruments from, usually otel.Meter("arrayviz").
//
// Outputs:
//
//	*Metrics - The instruments.
//	error - Non-nil if any instrument could not be created.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.FramesRecorded, err = meter.Int64Counter(
		"arrayviz_frames_recorded_total",
		metric.WithDescription("Total frames recorded"),
		metric.WithUnit("{frame}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create frames_recorded_total: %w", err)
	}

	m.RecordErrors, err = meter.Int64Counter(
		"arrayviz_record_errors_total",
		metric.WithDescription("Total rejected recording calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create record_errors_total: %w", err)
	}

	m.SessionsTotal, err = meter.Int64Counter(
		"arrayviz_sessions_total",
		metric.WithDescription("Total algorithm runs"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create sessions_total: %w", err)
	}

	m.SessionDuration, err = meter.Float64Histogram(
		"arrayviz_session_duration_seconds",
		metric.WithDescription("Algorithm run duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1),
	)
	if err != nil {
		return nil, fmt.Errorf("create session_duration: %w", err)
	}

	m.HTTPRequestsTotal, err = meter.Int64Counter(
		"arrayviz_http_requests_total",
		metric.WithDescription("Total HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create http_requests_total: %w", err)
	}

	return m, nil
}
