// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package buffer provides the text-buffer abstraction the docblock engine
// reads from, plus an in-memory implementation and a line cursor.
package buffer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultTabWidth is the indentation width used when none is configured.
const DefaultTabWidth = 4

// ErrInvalidPosition is returned when a line/column pair does not address
// a position inside the buffer.
var ErrInvalidPosition = errors.New("position outside buffer")

// Line is the half-open span [Begin, End) of one physical line, excluding
// the terminating newline.
type Line struct {
	Begin int `json:"begin"`
	End   int `json:"end"`
}

// Empty reports whether the line spans no characters.
func (l Line) Empty() bool {
	return l.End <= l.Begin
}

// Buffer is the read-only view of editor text the engine needs.
//
// Description:
//
//	Mirrors the minimal host editor contract: total size, the line that
//	contains a position, the indentation level at a position, and substring
//	extraction. Implementations must never be mutated during one invocation.
//
// Thread Safety: Implementations must be safe for concurrent reads.
type Buffer interface {
	// Size returns the number of bytes in the buffer.
	Size() int

	// Line returns the line containing pos. Positions are clamped.
	Line(pos int) Line

	// IndentationLevel returns the indentation level of the line containing pos.
	IndentationLevel(pos int) int

	// Substr returns the text in [begin, end). Bounds are clamped.
	Substr(begin, end int) string
}

// Text is an in-memory Buffer over a string.
//
// Thread Safety: Immutable after construction; safe for concurrent use.
type Text struct {
	content    string
	lineStarts []int
	tabWidth   int
}

// NewText indexes content for line lookups.
//
// Inputs:
//   - content: Source text. Line terminators are "\n"; a preceding "\r" is
//     kept as line content and ignored by the trimming callers do.
//   - tabWidth: Columns per indentation level. Values < 1 use DefaultTabWidth.
//
// Outputs:
//   - *Text: Never nil.
func NewText(content string, tabWidth int) *Text {
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}

	starts := make([]int, 1, strings.Count(content, "\n")+1)
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}

	return &Text{
		content:    content,
		lineStarts: starts,
		tabWidth:   tabWidth,
	}
}

// Size returns the byte length of the content.
func (t *Text) Size() int {
	return len(t.content)
}

// TabWidth returns the configured columns per indentation level.
func (t *Text) TabWidth() int {
	return t.tabWidth
}

// Line returns the line containing pos.
func (t *Text) Line(pos int) Line {
	pos = t.clamp(pos)
	idx := t.lineIndex(pos)
	return t.lineAt(idx)
}

// LineCount returns the number of physical lines.
func (t *Text) LineCount() int {
	return len(t.lineStarts)
}

// IndentationLevel returns the leading-whitespace width of the line at pos
// divided by the tab width. Tabs advance to the next tab stop.
func (t *Text) IndentationLevel(pos int) int {
	line := t.Line(pos)
	cols := 0
	for i := line.Begin; i < line.End; i++ {
		switch t.content[i] {
		case ' ':
			cols++
		case '\t':
			cols += t.tabWidth - cols%t.tabWidth
		default:
			return cols / t.tabWidth
		}
	}
	return cols / t.tabWidth
}

// Substr returns content[begin:end] with both bounds clamped.
func (t *Text) Substr(begin, end int) string {
	begin, end = t.clamp(begin), t.clamp(end)
	if end < begin {
		return ""
	}
	return t.content[begin:end]
}

// Offset converts a 1-based line number and 0-based byte column into a
// buffer position.
//
// Outputs:
//   - int: The position. Columns past the end of the line clamp to line end.
//   - error: ErrInvalidPosition if the line does not exist or column < 0.
func (t *Text) Offset(line, column int) (int, error) {
	if line < 1 || line > len(t.lineStarts) || column < 0 {
		return 0, fmt.Errorf("%w: line %d column %d", ErrInvalidPosition, line, column)
	}
	l := t.lineAt(line - 1)
	pos := l.Begin + column
	if pos > l.End {
		pos = l.End
	}
	return pos, nil
}

// LineText returns the text of the line containing pos.
func LineText(b Buffer, pos int) string {
	l := b.Line(pos)
	return b.Substr(l.Begin, l.End)
}

func (t *Text) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(t.content) {
		return len(t.content)
	}
	return pos
}

func (t *Text) lineIndex(pos int) int {
	// First start strictly greater than pos, minus one.
	return sort.SearchInts(t.lineStarts, pos+1) - 1
}

func (t *Text) lineAt(idx int) Line {
	begin := t.lineStarts[idx]
	end := len(t.content)
	if idx+1 < len(t.lineStarts) {
		end = t.lineStarts[idx+1] - 1
	}
	return Line{Begin: begin, End: end}
}
