// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package docblock is the invocation boundary of the docstring engine: it
// turns a buffer and cursor position into either a newline or a rendered
// docstring snippet, and exposes that over HTTP.
package docblock

import (
	"errors"

	"github.com/AleutianAI/docblockr/services/docblock/buffer"
	"github.com/AleutianAI/docblockr/services/docblock/outline"
	"github.com/AleutianAI/docblockr/services/docblock/parser"
	"github.com/AleutianAI/docblockr/services/docblock/scope"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrInvalidPosition is returned when the request does not address a
	// position inside the content.
	ErrInvalidPosition = buffer.ErrInvalidPosition

	// ErrContentTooLarge is returned when content exceeds the configured limit.
	ErrContentTooLarge = errors.New("content too large")

	// ErrInvalidContent is returned for content that is not valid UTF-8.
	ErrInvalidContent = outline.ErrInvalidContent

	// ErrAmbiguousDelimiter is returned when a candidate closing line starts
	// with both triple-quote styles, so the docstring's style is unknown.
	ErrAmbiguousDelimiter = scope.ErrAmbiguousDelimiter
)

// =============================================================================
// Generate
// =============================================================================

// Action tells the caller what to insert at the cursor.
type Action string

const (
	// ActionNewline means the docstring is already closed; insert "\n".
	ActionNewline Action = "newline"

	// ActionSnippet means Text is a docstring snippet that replaces the
	// Replace region.
	ActionSnippet Action = "snippet"
)

// GenerateRequest addresses one docstring position.
//
// Description:
//
//	The position is Offset when set, otherwise Line and Column. Formatter
//	and TabWidth override the service settings for this request only.
type GenerateRequest struct {
	// Content is the full buffer text.
	Content string `json:"content"`

	// Offset is a byte offset into Content.
	Offset *int `json:"offset,omitempty" binding:"omitempty,min=0"`

	// Line is 1-based.
	Line int `json:"line,omitempty" binding:"omitempty,min=1"`

	// Column is a 0-based byte column on Line.
	Column int `json:"column,omitempty" binding:"omitempty,min=0"`

	// Formatter names the docstring style.
	Formatter string `json:"formatter,omitempty"`

	// TabWidth is the columns per indentation level.
	TabWidth int `json:"tab_width,omitempty" binding:"omitempty,min=1,max=16"`
}

// GenerateResponse is the result of one invocation.
type GenerateResponse struct {
	// Action is newline or snippet.
	Action Action `json:"action"`

	// Text is "\n" for ActionNewline, else the snippet.
	Text string `json:"text"`

	// Replace is the region the caller replaces with Text. For snippets it
	// covers the trailing text after the cursor, which was folded into the
	// summary line.
	Replace buffer.Line `json:"replace"`

	// Style is the formatter that rendered Text. Empty for newlines.
	Style string `json:"style,omitempty"`

	// Delimiter is the triple-quote style of the docstring.
	Delimiter scope.Delimiter `json:"delimiter"`

	// Definition describes the documented unit. Zero for newlines.
	Definition parser.Definition `json:"definition"`

	// Signature is the logical signature line, empty at module scope.
	Signature string `json:"signature,omitempty"`

	// Model is the attribute model Text was rendered from.
	Model *parser.Model `json:"model,omitempty"`
}

// =============================================================================
// Batch
// =============================================================================

// BatchRequest holds independent generate requests.
type BatchRequest struct {
	Requests []GenerateRequest `json:"requests" binding:"required,min=1,max=100,dive"`
}

// BatchItem is the outcome of one batched request. Exactly one of Response
// and Error is set.
type BatchItem struct {
	Response *GenerateResponse `json:"response,omitempty"`
	Error    string            `json:"error,omitempty"`
	Code     string            `json:"code,omitempty"`
}

// BatchResponse preserves request order.
type BatchResponse struct {
	Results []BatchItem `json:"results"`
}

// =============================================================================
// Outline
// =============================================================================

// OutlineRequest asks for docstrings for every undocumented definition.
type OutlineRequest struct {
	Content   string `json:"content"`
	Formatter string `json:"formatter,omitempty"`
	TabWidth  int    `json:"tab_width,omitempty" binding:"omitempty,min=1,max=16"`

	// Apply returns Content with every docstring inserted.
	Apply bool `json:"apply,omitempty"`
}

// OutlineItem is the docstring proposed for one target.
type OutlineItem struct {
	Target outline.Target `json:"target"`

	// Snippet is the rendered snippet, fields intact.
	Snippet string `json:"snippet"`

	// Docstring is the literal docstring text, unindented, delimiters
	// included, fields replaced by their labels.
	Docstring string `json:"docstring"`

	Model *parser.Model `json:"model,omitempty"`
}

// OutlineResponse lists proposals in file order.
type OutlineResponse struct {
	Items        []OutlineItem `json:"items"`
	SyntaxErrors bool          `json:"syntax_errors"`

	// Content is set when the request asked to apply the docstrings.
	Content string `json:"content,omitempty"`
}

// =============================================================================
// Misc
// =============================================================================

// StylesResponse lists the registered styles and the configured default.
type StylesResponse struct {
	Styles  []string `json:"styles"`
	Default string   `json:"default"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
