// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package docblock

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

var (
	// generateTotal counts successful generate calls.
	// Labels: action (newline, snippet), style
	generateTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "docblockr",
		Subsystem: "service",
		Name:      "generate_total",
		Help:      "Total successful generate calls by action and style",
	}, []string{"action", "style"})

	// errorsTotal counts failed calls by error code.
	// Labels: code (INVALID_POSITION, CONTENT_TOO_LARGE, ...)
	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "docblockr",
		Subsystem: "service",
		Name:      "errors_total",
		Help:      "Total failed calls by error code",
	}, []string{"code"})

	// durationSeconds measures service call latency.
	// Labels: operation (generate, outline)
	durationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "docblockr",
		Subsystem: "service",
		Name:      "duration_seconds",
		Help:      "Service call latency by operation",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"operation"})

	// outlineTargetsTotal counts undocumented definitions found by outline.
	outlineTargetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docblockr",
		Subsystem: "service",
		Name:      "outline_targets_total",
		Help:      "Total undocumented definitions found by outline",
	})

	// rateLimitedTotal counts HTTP requests rejected by the rate limiter.
	rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docblockr",
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Total HTTP requests rejected by the rate limiter",
	})
)

// recordGenerate records the outcome of one generate call.
func recordGenerate(resp *GenerateResponse, err error, d time.Duration) {
	observeDuration("generate", d)
	if err != nil {
		recordError(err)
		return
	}
	style := resp.Style
	if style == "" {
		style = "none"
	}
	generateTotal.WithLabelValues(string(resp.Action), style).Inc()
}

func recordError(err error) {
	_, code := errorStatus(err)
	errorsTotal.WithLabelValues(code).Inc()
}

func observeDuration(operation string, d time.Duration) {
	durationSeconds.WithLabelValues(operation).Observe(d.Seconds())
}
