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
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/docblockr/services/docblock/buffer"
	"github.com/AleutianAI/docblockr/services/docblock/config"
	"github.com/AleutianAI/docblockr/services/docblock/formatter"
	"github.com/AleutianAI/docblockr/services/docblock/outline"
	"github.com/AleutianAI/docblockr/services/docblock/parser"
	"github.com/AleutianAI/docblockr/services/docblock/scope"
)

// Version is reported by the health endpoint and the CLI.
var Version = "0.1.0"

var tracer = otel.Tracer("docblockr.service")

// =============================================================================
// Configuration
// =============================================================================

// ServiceConfig configures a Service.
type ServiceConfig struct {
	// Settings is the initial configuration. Required.
	Settings *config.Settings

	// Registry holds the formatters. Nil uses formatter.NewRegistry().
	Registry *formatter.Registry
}

// DefaultServiceConfig returns a config built from the embedded defaults.
func DefaultServiceConfig() (ServiceConfig, error) {
	settings, err := config.Defaults()
	if err != nil {
		return ServiceConfig{}, fmt.Errorf("loading default settings: %w", err)
	}
	return ServiceConfig{Settings: settings}, nil
}

// =============================================================================
// Service
// =============================================================================

// Service synthesizes docstrings for buffers it is handed.
//
// Description:
//
//	Service owns no buffer state. Every call builds its own buffer from
//	the request content, so calls are independent.
//
// Thread Safety: Safe for concurrent use. Settings are swapped atomically
// by UpdateSettings; the formatter registry is immutable.
type Service struct {
	settings  atomic.Pointer[config.Settings]
	registry  *formatter.Registry
	startedAt time.Time
}

// NewService creates a service.
//
// Inputs:
//   - cfg: Service configuration. cfg.Settings must not be nil.
//
// Outputs:
//   - *Service: The service.
//   - error: Non-nil if cfg.Settings is nil or invalid.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Settings == nil {
		return nil, errors.New("settings must not be nil")
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}

	registry := cfg.Registry
	if registry == nil {
		registry = formatter.NewRegistry()
	}

	s := &Service{
		registry:  registry,
		startedAt: time.Now(),
	}
	s.settings.Store(cfg.Settings)
	return s, nil
}

// Settings returns the current settings. Callers must not modify them.
func (s *Service) Settings() *config.Settings {
	return s.settings.Load()
}

// UpdateSettings replaces the settings used by subsequent calls. Invalid
// settings are rejected and the previous ones stay in effect.
func (s *Service) UpdateSettings(settings *config.Settings) error {
	if settings == nil {
		return errors.New("settings must not be nil")
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	s.settings.Store(settings)
	slog.Info("Settings updated",
		slog.String("formatter", settings.Formatter),
		slog.Int("tab_width", settings.TabWidth))
	return nil
}

// Registry returns the formatter registry.
func (s *Service) Registry() *formatter.Registry {
	return s.registry
}

// Uptime reports how long the service has existed.
func (s *Service) Uptime() time.Duration {
	return time.Since(s.startedAt)
}

// =============================================================================
// Generate
// =============================================================================

// Generate decides what to insert at the requested docstring position.
//
// Description:
//
//	When the docstring at the position is already closed the result is
//	ActionNewline. Otherwise the enclosing unit is located, its header and
//	body are parsed into an attribute model, and the model is rendered with
//	the requested formatter into an ActionSnippet. Text after the cursor on
//	the same line, minus a trailing triple quote, becomes the summary.
//
// Inputs:
//   - ctx: Context for cancellation and tracing.
//   - req: Content, position and per-request overrides.
//
// Outputs:
//   - *GenerateResponse: The action to perform.
//   - error: ErrContentTooLarge, ErrInvalidContent, ErrInvalidPosition or
//     ErrAmbiguousDelimiter, wrapped.
//
// Thread Safety: Safe for concurrent use.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	ctx, span := tracer.Start(ctx, "docblock.Service.Generate",
		trace.WithAttributes(attribute.Int("docblock.content_bytes", len(req.Content))))
	defer span.End()
	start := time.Now()

	resp, err := s.generate(ctx, req)
	recordGenerate(resp, err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("docblock.action", string(resp.Action)),
		attribute.String("docblock.unit_kind", resp.Definition.Kind.String()),
		attribute.String("docblock.style", resp.Style),
		attribute.Int("docblock.attributes", modelSize(resp.Model)),
	)
	return resp, nil
}

func (s *Service) generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	settings := s.Settings()
	if err := checkContent(req.Content, settings.Server.MaxContentBytes); err != nil {
		return nil, err
	}

	tabWidth := settings.TabWidth
	if req.TabWidth > 0 {
		tabWidth = req.TabWidth
	}
	style := settings.Formatter
	if req.Formatter != "" {
		style = req.Formatter
	}

	buf := buffer.NewText(req.Content, tabWidth)
	pos, err := resolvePosition(buf, req)
	if err != nil {
		return nil, err
	}
	return s.synthesize(buf, pos, style)
}

// synthesize runs the engine on buf at pos.
func (s *Service) synthesize(buf buffer.Buffer, pos int, style string) (*GenerateResponse, error) {
	line := buf.Line(pos)

	closure, err := scope.DetectClosure(buf, pos)
	if err != nil {
		return nil, err
	}
	if closure.Closed {
		return &GenerateResponse{
			Action:    ActionNewline,
			Text:      "\n",
			Replace:   buffer.Line{Begin: pos, End: pos},
			Delimiter: closure.Delimiter,
		}, nil
	}

	summary := trailingSummary(buf.Substr(pos, line.End))

	signature, hasSignature := scope.Locate(buf, pos)
	def := parser.ParseDefinition(signature, hasSignature)

	body := scope.Extract(buf, pos, buf.IndentationLevel(pos), def.Kind)
	if def.Kind == parser.UnitFunction {
		body = scope.Header(buf, pos) + "\n" + body
	}

	model := parser.Parse(signature, hasSignature, body)
	f := s.registry.Lookup(style)

	return &GenerateResponse{
		Action:     ActionSnippet,
		Text:       f.Render(model, summary, string(closure.Delimiter)),
		Replace:    buffer.Line{Begin: pos, End: line.End},
		Style:      f.Style().String(),
		Delimiter:  closure.Delimiter,
		Definition: def,
		Signature:  signature,
		Model:      &model,
	}, nil
}

// trailingSummary turns the text after the cursor into a snippet-safe
// summary line.
func trailingSummary(trailing string) string {
	text := strings.TrimSpace(trailing)
	for _, delim := range []scope.Delimiter{scope.DoubleQuotes, scope.SingleQuotes} {
		if strings.HasSuffix(text, string(delim)) {
			text = strings.TrimSpace(strings.TrimSuffix(text, string(delim)))
			break
		}
	}
	return formatter.Escape(text)
}

func checkContent(content string, limit int) error {
	if limit > 0 && len(content) > limit {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrContentTooLarge, len(content), limit)
	}
	if !utf8.ValidString(content) {
		return fmt.Errorf("%w: not valid UTF-8", ErrInvalidContent)
	}
	return nil
}

func resolvePosition(buf *buffer.Text, req GenerateRequest) (int, error) {
	if req.Offset != nil {
		off := *req.Offset
		if off < 0 || off > buf.Size() {
			return 0, fmt.Errorf("%w: offset %d outside [0, %d]", ErrInvalidPosition, off, buf.Size())
		}
		return off, nil
	}
	if req.Line == 0 {
		return 0, fmt.Errorf("%w: offset or line is required", ErrInvalidPosition)
	}
	return buf.Offset(req.Line, req.Column)
}

func modelSize(m *parser.Model) int {
	if m == nil {
		return 0
	}
	return len(m.Attributes)
}

// =============================================================================
// Batch
// =============================================================================

// GenerateBatch runs each request independently and reports per-item
// outcomes in request order.
//
// Description:
//
//	Requests run concurrently, at most Server.BatchConcurrency at a time.
//	A failing item does not affect the others. Only cancellation of ctx
//	fails the whole batch.
//
// Thread Safety: Safe for concurrent use.
func (s *Service) GenerateBatch(ctx context.Context, reqs []GenerateRequest) (*BatchResponse, error) {
	ctx, span := tracer.Start(ctx, "docblock.Service.GenerateBatch")
	defer span.End()
	span.SetAttributes(attribute.Int("docblock.batch_size", len(reqs)))

	results := make([]BatchItem, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Settings().Server.BatchConcurrency)
	for i := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resp, err := s.Generate(gctx, reqs[i])
			if err != nil {
				_, code := errorStatus(err)
				results[i] = BatchItem{Error: err.Error(), Code: code}
				return nil
			}
			results[i] = BatchItem{Response: resp}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &BatchResponse{Results: results}, nil
}

// =============================================================================
// Outline
// =============================================================================

// Outline proposes a docstring for every undocumented class and function in
// a Python file.
//
// Description:
//
//	Targets come from outline.Scan. For each target an empty docstring is
//	opened above its body and the regular generate path runs at the
//	position between the delimiters, so outline and interactive use render
//	identical snippets. With req.Apply the docstrings are inserted into the
//	content, fields replaced by their labels.
//
// Outputs:
//   - *OutlineResponse: One item per target, in file order.
//   - error: ErrContentTooLarge or ErrInvalidContent, wrapped.
//
// Thread Safety: Safe for concurrent use.
func (s *Service) Outline(ctx context.Context, req OutlineRequest) (*OutlineResponse, error) {
	ctx, span := tracer.Start(ctx, "docblock.Service.Outline",
		trace.WithAttributes(attribute.Int("docblock.content_bytes", len(req.Content))))
	defer span.End()
	start := time.Now()

	resp, err := s.outline(ctx, req)
	observeDuration("outline", time.Since(start))
	if err != nil {
		recordError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	outlineTargetsTotal.Add(float64(len(resp.Items)))
	span.SetAttributes(
		attribute.Int("docblock.targets", len(resp.Items)),
		attribute.Bool("docblock.syntax_errors", resp.SyntaxErrors),
	)
	return resp, nil
}

func (s *Service) outline(ctx context.Context, req OutlineRequest) (*OutlineResponse, error) {
	settings := s.Settings()
	if err := checkContent(req.Content, settings.Server.MaxContentBytes); err != nil {
		return nil, err
	}

	result, err := outline.Scan(ctx, []byte(req.Content))
	if err != nil {
		return nil, err
	}

	tabWidth := settings.TabWidth
	if req.TabWidth > 0 {
		tabWidth = req.TabWidth
	}
	style := settings.Formatter
	if req.Formatter != "" {
		style = req.Formatter
	}

	items := make([]OutlineItem, len(result.Targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(settings.Server.BatchConcurrency)
	for i, target := range result.Targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item, err := s.outlineItem(req.Content, target, tabWidth, style)
			if err != nil {
				return fmt.Errorf("%s %q at line %d: %w", target.Kind, target.Name, target.Line, err)
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &OutlineResponse{
		Items:        items,
		SyntaxErrors: result.SyntaxErrors,
	}
	if req.Apply {
		edits := make([]outline.Edit, len(items))
		for i, item := range items {
			edits[i] = outline.Edit{
				BodyLine: item.Target.BodyLine,
				Indent:   item.Target.Indent,
				Text:     item.Docstring,
			}
		}
		resp.Content = outline.Apply(req.Content, edits)
	}

	slog.Debug("Outline generated",
		slog.Int("targets", len(items)),
		slog.Bool("syntax_errors", result.SyntaxErrors),
		slog.Bool("applied", req.Apply))
	return resp, nil
}

func (s *Service) outlineItem(content string, target outline.Target, tabWidth int, style string) (OutlineItem, error) {
	delim := string(scope.DoubleQuotes)
	prepared, pos := outline.Prepare(content, target, delim)

	resp, err := s.synthesize(buffer.NewText(prepared, tabWidth), pos, style)
	if err != nil {
		return OutlineItem{}, err
	}
	if resp.Action != ActionSnippet {
		return OutlineItem{}, fmt.Errorf("unexpected %s action for an empty docstring", resp.Action)
	}

	return OutlineItem{
		Target:    target,
		Snippet:   resp.Text,
		Docstring: delim + formatter.Plain(resp.Text),
		Model:     resp.Model,
	}, nil
}
