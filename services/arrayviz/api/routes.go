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
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/AleutianAI/arrayviz/services/arrayviz/telemetry"
)

// RegisterRoutes registers the arrayviz routes under rg.
//
// Routes:
//
//	GET    /arrayviz/health
//	GET    /arrayviz/algorithms
//	POST   /arrayviz/recordings
//	GET    /arrayviz/recordings
//	GET    /arrayviz/recordings/:id
//	GET    /arrayviz/recordings/:id/steps/:index
//	DELETE /arrayviz/recordings/:id
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	arrayviz := rg.Group("/arrayviz")
	{
		arrayviz.GET("/health", handlers.HandleHealth)
		arrayviz.GET("/algorithms", handlers.HandleListAlgorithms)

		arrayviz.POST("/recordings", handlers.HandleCreateRecording)
		arrayviz.GET("/recordings", handlers.HandleListRecordings)
		arrayviz.GET("/recordings/:id", handlers.HandleGetRecording)
		arrayviz.GET("/recordings/:id/steps/:index", handlers.HandleGetStep)
		arrayviz.DELETE("/recordings/:id", handlers.HandleDeleteRecording)
	}
}

// NewRouter builds the engine used by the serve command: recovery,
// tracing, request metrics, /metrics when prometheus is active, and the
// /v1 routes. metrics may be nil.
func NewRouter(handlers *Handlers, metrics *telemetry.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("arrayviz"))
	if metrics != nil {
		router.Use(MetricsMiddleware(metrics))
	}

	if h := telemetry.MetricsHandler(); h != nil {
		router.GET("/metrics", gin.WrapH(h))
	}

	v1 := router.Group("/v1")
	RegisterRoutes(v1, handlers)
	return router
}

// MetricsMiddleware counts requests by route, method and status.
func MetricsMiddleware(metrics *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.Add(c.Request.Context(), 1, metric.WithAttributes(
			attribute.String("route", route),
			attribute.String("method", c.Request.Method),
			attribute.String("status", strconv.Itoa(c.Writer.Status())),
		))
	}
}
