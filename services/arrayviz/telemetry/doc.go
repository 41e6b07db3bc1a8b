// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry provides OpenTelemetry-based observability for arrayviz.
//
// Init wires a TracerProvider and a MeterProvider from configuration; after
// that, otel.Tracer() and otel.Meter() are live everywhere. Without Init the
// global no-op providers are used, so instrumented code never has to check.
//
// # Usage
//
//	shutdown, err := telemetry.Init(ctx, cfg.Telemetry)
//	if err != nil {
//	    return fmt.Errorf("init telemetry: %w", err)
//	}
//	defer shutdown(context.Background())
//
//	metrics, err := telemetry.NewMetrics(otel.Meter("arrayviz"))
//
// # Exporters
//
//   - traces: otlp (gRPC), stdout, none
//   - metrics: prometheus (served by MetricsHandler), stdout, none
//
// # Thread Safety
//
// All exported functions are safe for concurrent use after Init() returns.
package telemetry
