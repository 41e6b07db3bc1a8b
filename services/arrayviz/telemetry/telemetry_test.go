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
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ServiceName != "arrayviz" {
		t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, "arrayviz")
	}
	if cfg.TraceExporter != "none" {
		t.Errorf("TraceExporter = %q, want %q", cfg.TraceExporter, "none")
	}
	if cfg.MetricExporter != "none" {
		t.Errorf("MetricExporter = %q, want %q", cfg.MetricExporter, "none")
	}
	if cfg.OTLPEndpoint != "localhost:4317" {
		t.Errorf("OTLPEndpoint = %q, want %q", cfg.OTLPEndpoint, "localhost:4317")
	}
}

func TestInit_NilContext(t *testing.T) {
	//nolint:staticcheck // nil context is the case under test
	_, err := Init(nil, DefaultConfig())
	if !errors.Is(err, ErrNilContext) {
		t.Errorf("Init(nil, cfg) error = %v, want %v", err, ErrNilContext)
	}
}

func TestInit_NoopExporter(t *testing.T) {
	shutdown, err := Init(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
}

func TestInit_StdoutExporters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TraceExporter = "stdout"
	cfg.MetricExporter = "stdout"

	shutdown, err := Init(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
}

func TestInit_UnknownExporter(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"trace", func(c *Config) { c.TraceExporter = "zipkin" }},
		{"metric", func(c *Config) { c.MetricExporter = "statsd" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			_, err := Init(context.Background(), cfg)
			if !errors.Is(err, ErrUnknownExporter) {
				t.Errorf("Init() error = %v, want %v", err, ErrUnknownExporter)
			}
		})
	}
}

func TestInit_PrometheusServesMetrics(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MetricExporter = "prometheus"

	shutdown, err := Init(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer shutdown(context.Background())

	handler := MetricsHandler()
	if handler == nil {
		t.Fatal("MetricsHandler() = nil after prometheus init")
	}

	metrics, err := NewMetrics(otel.Meter("arrayviz.test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	ctx := context.Background()
	metrics.FramesRecorded.Add(ctx, 3)
	metrics.SessionsTotal.Add(ctx, 1)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "arrayviz_frames_recorded") {
		t.Errorf("metrics output missing arrayviz_frames_recorded:\n%s", body)
	}
	if !strings.Contains(string(body), "arrayviz_sessions") {
		t.Errorf("metrics output missing arrayviz_sessions:\n%s", body)
	}
}

func TestNewMetrics_NoopMeter(t *testing.T) {
	metrics, err := NewMetrics(otel.Meter("arrayviz.noop"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	if metrics.FramesRecorded == nil || metrics.RecordErrors == nil ||
		metrics.SessionsTotal == nil || metrics.SessionDuration == nil ||
		metrics.HTTPRequestsTotal == nil {
		t.Fatal("NewMetrics() left an instrument nil")
	}

	// Recording on no-op instruments must not panic.
	ctx := context.Background()
	metrics.SessionDuration.Record(ctx, 0.01)
	metrics.HTTPRequestsTotal.Add(ctx, 1)
}

func TestStartSpan_RecordError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	ctx, span := StartSpan(context.Background(), "arrayviz.test", "Test.Op")
	if TraceID(ctx) == "" {
		t.Error("TraceID() is empty inside a recording span")
	}
	RecordError(span, errors.New("boom"), attribute.String("step", "record"))
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(ended))
	}
	if ended[0].Name() != "Test.Op" {
		t.Errorf("span name = %q, want %q", ended[0].Name(), "Test.Op")
	}
	if ended[0].Status().Description != "boom" {
		t.Errorf("span status = %q, want %q", ended[0].Status().Description, "boom")
	}
	if len(ended[0].Events()) != 1 {
		t.Errorf("span events = %d, want 1", len(ended[0].Events()))
	}
}

func TestNilSafety(t *testing.T) {
	RecordError(nil, errors.New("ignored"))
	SetSpanOK(nil)

	_, span := StartSpan(context.Background(), "arrayviz.test", "noop")
	RecordError(span, nil)
	span.End()

	if got := TraceID(context.Background()); got != "" {
		t.Errorf("TraceID(background) = %q, want empty", got)
	}
}
