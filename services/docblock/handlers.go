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
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/docblockr/services/docblock/formatter"
)

// RequestIDHeader carries the caller's request ID, or the generated one.
const RequestIDHeader = "X-Request-ID"

// Handlers serves the docblock HTTP API.
//
// Thread Safety: Safe for concurrent use.
type Handlers struct {
	svc *Service
}

// NewHandlers creates handlers backed by svc.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleGenerate handles POST /v1/docblock/generate.
//
// Description:
//
//	Runs one generate call. The body is a GenerateRequest.
//
// Response:
//
//	200 OK: GenerateResponse
//	400 Bad Request: Malformed body, invalid position or invalid content
//	413 Request Entity Too Large: Content over the configured limit
//	422 Unprocessable Entity: Ambiguous docstring delimiter
func (h *Handlers) HandleGenerate(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleGenerate")

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Debug("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	resp, err := h.svc.Generate(c.Request.Context(), req)
	if err != nil {
		writeError(c, logger, err)
		return
	}

	logger.Debug("Generated",
		slog.String("action", string(resp.Action)),
		slog.String("style", resp.Style))
	c.JSON(http.StatusOK, resp)
}

// HandleBatch handles POST /v1/docblock/batch.
//
// Description:
//
//	Runs up to 100 independent generate calls. Per-item failures are
//	reported inside the response; the status is 200 unless the body is
//	malformed or the request is cancelled.
func (h *Handlers) HandleBatch(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleBatch")

	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	resp, err := h.svc.GenerateBatch(c.Request.Context(), req.Requests)
	if err != nil {
		writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleOutline handles POST /v1/docblock/outline.
//
// Response:
//
//	200 OK: OutlineResponse
//	400 Bad Request: Malformed body or invalid content
//	413 Request Entity Too Large: Content over the configured limit
func (h *Handlers) HandleOutline(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleOutline")

	var req OutlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	resp, err := h.svc.Outline(c.Request.Context(), req)
	if err != nil {
		writeError(c, logger, err)
		return
	}

	logger.Debug("Outline complete", slog.Int("targets", len(resp.Items)))
	c.JSON(http.StatusOK, resp)
}

// HandleStyles handles GET /v1/docblock/styles.
func (h *Handlers) HandleStyles(c *gin.Context) {
	getOrCreateRequestID(c)

	styles := h.svc.Registry().Styles()
	names := make([]string, len(styles))
	for i, s := range styles {
		names[i] = s.String()
	}

	def := h.svc.Settings().Formatter
	if style, ok := formatter.ParseStyle(def); ok {
		def = style.String()
	}
	c.JSON(http.StatusOK, StylesResponse{Styles: names, Default: def})
}

// HandleHealth handles GET /v1/docblock/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:        "healthy",
		Version:       Version,
		UptimeSeconds: int64(h.svc.Uptime().Seconds()),
	})
}

// =============================================================================
// Helpers
// =============================================================================

// getOrCreateRequestID returns the caller's request ID or generates one,
// and echoes it on the response.
func getOrCreateRequestID(c *gin.Context) string {
	id := c.GetHeader(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Header(RequestIDHeader, id)
	return id
}

// errorStatus maps a service error to an HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidPosition):
		return http.StatusBadRequest, "INVALID_POSITION"
	case errors.Is(err, ErrInvalidContent):
		return http.StatusBadRequest, "INVALID_CONTENT"
	case errors.Is(err, ErrContentTooLarge):
		return http.StatusRequestEntityTooLarge, "CONTENT_TOO_LARGE"
	case errors.Is(err, ErrAmbiguousDelimiter):
		return http.StatusUnprocessableEntity, "AMBIGUOUS_DELIMITER"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout, "CANCELED"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

func writeError(c *gin.Context, logger *slog.Logger, err error) {
	status, code := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", slog.String("error", err.Error()))
	} else {
		logger.Debug("Request rejected",
			slog.String("code", code),
			slog.String("error", err.Error()))
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}
