// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package outline finds Python classes and functions that have no
// docstring yet, using the tree-sitter Python grammar.
package outline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/docblockr/services/docblock/parser"
)

// MaxDepth bounds the recursion into nested definitions.
const MaxDepth = 64

// ErrInvalidContent is returned for content that is not valid UTF-8.
var ErrInvalidContent = errors.New("invalid content")

var tracer = otel.Tracer("docblockr.outline")

// Target is one class or function without a docstring.
type Target struct {
	// Kind is UnitClass or UnitFunction.
	Kind parser.UnitKind `json:"kind"`

	// Name is the declared identifier.
	Name string `json:"name"`

	// Line is the 1-based line of the class or def keyword.
	Line int `json:"line"`

	// BodyLine is the 1-based line of the first statement of the body.
	BodyLine int `json:"body_line"`

	// Indent is the leading whitespace of the body's first statement.
	Indent string `json:"indent"`
}

// Result is the outcome of Scan.
type Result struct {
	// Targets are ordered by position in the file.
	Targets []Target `json:"targets"`

	// SyntaxErrors is true when tree-sitter recovered from errors. Targets
	// are still reported for the parts it could parse.
	SyntaxErrors bool `json:"syntax_errors"`
}

// Scan parses content and lists every undocumented class and function,
// decorated or nested ones included.
//
// Description:
//
//	A definition counts as documented when the first statement of its
//	block, comments aside, is a bare string expression. Definitions whose
//	body shares the line of the signature ("def f(): pass") are skipped
//	since no docstring line can be opened for them.
//
// Inputs:
//   - ctx: Context for cancellation and tracing. Must not be nil.
//   - content: Python source.
//
// Outputs:
//   - *Result: Never nil on success.
//   - error: ErrInvalidContent for non UTF-8 input, or a wrapped
//     tree-sitter or context error.
//
// Thread Safety: Safe for concurrent use; a parser is created per call.
func Scan(ctx context.Context, content []byte) (*Result, error) {
	ctx, span := tracer.Start(ctx, "outline.Scan")
	defer span.End()
	span.SetAttributes(attribute.Int("outline.content_bytes", len(content)))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan canceled before start: %w", err)
	}
	if !utf8.Valid(content) {
		span.SetStatus(codes.Error, "invalid utf-8")
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidContent)
	}

	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())

	tree, err := p.ParseCtx(ctx, nil, content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	result := &Result{Targets: make([]Target, 0)}
	root := tree.RootNode()
	if root == nil {
		return result, nil
	}
	if root.HasError() {
		result.SyntaxErrors = true
		slog.Debug("outline: source contains syntax errors")
	}

	s := &scanner{content: content, lines: strings.Split(string(content), "\n")}
	s.walk(root, 0)
	result.Targets = s.targets

	sort.SliceStable(result.Targets, func(i, j int) bool {
		return result.Targets[i].Line < result.Targets[j].Line
	})

	span.SetAttributes(
		attribute.Int("outline.targets", len(result.Targets)),
		attribute.Bool("outline.syntax_errors", result.SyntaxErrors),
	)
	return result, nil
}

type scanner struct {
	content []byte
	lines   []string
	targets []Target
}

func (s *scanner) walk(node *sitter.Node, depth int) {
	if node == nil || depth > MaxDepth {
		return
	}

	switch node.Type() {
	case "function_definition":
		s.visit(node, parser.UnitFunction)
	case "class_definition":
		s.visit(node, parser.UnitClass)
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		s.walk(node.NamedChild(i), depth+1)
	}
}

func (s *scanner) visit(node *sitter.Node, kind parser.UnitKind) {
	nameNode := node.ChildByFieldName("name")
	body := node.ChildByFieldName("body")
	if nameNode == nil || body == nil {
		return
	}

	first := firstStatement(body)
	if first == nil || hasDocstring(first) {
		return
	}

	bodyRow := int(first.StartPoint().Row)
	indent, ok := s.indentAt(bodyRow, int(first.StartPoint().Column))
	if !ok {
		return
	}

	s.targets = append(s.targets, Target{
		Kind:     kind,
		Name:     nameNode.Content(s.content),
		Line:     int(node.StartPoint().Row) + 1,
		BodyLine: bodyRow + 1,
		Indent:   indent,
	})
}

// firstStatement returns the first named child of a block that is not a
// comment.
func firstStatement(block *sitter.Node) *sitter.Node {
	for i := 0; i < int(block.NamedChildCount()); i++ {
		child := block.NamedChild(i)
		if child.Type() != "comment" {
			return child
		}
	}
	return nil
}

func hasDocstring(stmt *sitter.Node) bool {
	if stmt.Type() != "expression_statement" || stmt.NamedChildCount() == 0 {
		return false
	}
	return stmt.NamedChild(0).Type() == "string"
}

// indentAt returns the prefix of row up to column. It reports false when
// the prefix is not pure whitespace, which means the statement shares its
// line with the signature.
func (s *scanner) indentAt(row, column int) (string, bool) {
	if row >= len(s.lines) {
		return "", false
	}
	line := s.lines[row]
	if column > len(line) {
		column = len(line)
	}
	prefix := line[:column]
	if strings.TrimLeft(prefix, " \t") != "" {
		return "", false
	}
	return prefix, true
}
