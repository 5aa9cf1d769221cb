// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package scope walks a buffer around a docstring position to find the
// unit being documented, the text that belongs to it, and whether the
// docstring is already closed.
//
// Everything here reads the buffer through the buffer.Buffer interface and
// never mutates it.
package scope

import (
	"strings"

	"github.com/AleutianAI/docblockr/services/docblock/buffer"
)

// Locate returns the logical signature line of the unit enclosing the
// docstring at pos.
//
// Description:
//
//	Starting from the indentation level of pos's line, walks upward over
//	non-blank, non-comment lines until one is strictly less indented. That
//	line opens the scope. Every visited line, stopping line included, is
//	trimmed and joined top-to-bottom with a single space, which rebuilds
//	signatures whose parameter lists span several physical lines. When the
//	stopping line starts with ")", the walk continues upward until the
//	matching "(" so that a parameter list closed at the signature's own
//	indentation is joined whole.
//
// Inputs:
//   - buf: The buffer to read.
//   - pos: Any position on the docstring's line.
//
// Outputs:
//   - string: The joined signature. Empty when ok is false.
//   - bool: False at module scope, which is the case when pos's line starts
//     the buffer or no shallower line exists above it.
//
// Example:
//
//	// def f(a,
//	//       b):
//	//     """
//	sig, ok := scope.Locate(buf, pos) // "def f(a, b):", true
func Locate(buf buffer.Buffer, pos int) (string, bool) {
	lines, ok := signatureLines(buf, pos)
	if !ok {
		return "", false
	}

	parts := make([]string, len(lines))
	for i, line := range lines {
		parts[len(lines)-1-i] = strings.TrimSpace(buf.Substr(line.Begin, line.End))
	}
	return strings.Join(parts, " "), true
}

// Header returns the physical lines above the docstring that declare the
// unit: the signature lines followed upward by any decorator lines at the
// signature's indentation. Lines are right-trimmed and newline-joined
// top-to-bottom. Module scope yields "".
func Header(buf buffer.Buffer, pos int) string {
	lines, ok := signatureLines(buf, pos)
	if !ok {
		return ""
	}

	opener := lines[len(lines)-1]
	level := buf.IndentationLevel(opener.Begin)

	c := buffer.NewCursor(buf, opener.Begin, true)
	for line, ok := c.Next(); ok; line, ok = c.Next() {
		text := strings.TrimSpace(buf.Substr(line.Begin, line.End))
		if skippable(text) {
			continue
		}
		if !strings.HasPrefix(text, "@") || buf.IndentationLevel(line.Begin) != level {
			break
		}
		lines = append(lines, line)
	}

	parts := make([]string, len(lines))
	for i, line := range lines {
		parts[len(lines)-1-i] = rtrim(buf.Substr(line.Begin, line.End))
	}
	return strings.Join(parts, "\n")
}

// signatureLines returns the lines visited by the upward walk, bottom-up,
// ending with the line that opens the scope.
func signatureLines(buf buffer.Buffer, pos int) ([]buffer.Line, bool) {
	if buf.Line(pos).Begin == 0 {
		return nil, false
	}

	level := buf.IndentationLevel(pos)
	var (
		visited []buffer.Line
		depth   int
		closing bool
	)

	c := buffer.NewCursor(buf, pos, true)
	for line, ok := c.Next(); ok; line, ok = c.Next() {
		text := strings.TrimSpace(buf.Substr(line.Begin, line.End))
		if skippable(text) {
			continue
		}
		visited = append(visited, line)

		if closing {
			depth += parenBalance(text)
			if depth <= 0 {
				return visited, true
			}
			continue
		}
		if buf.IndentationLevel(line.Begin) >= level {
			continue
		}

		// "def f(\n    a,\n) -> int:" puts the closing paren at the
		// signature's own level, so keep climbing to the matching opener.
		if strings.HasPrefix(text, ")") {
			closing = true
			depth = parenBalance(text)
			if depth > 0 {
				continue
			}
		}
		return visited, true
	}

	if closing {
		return visited, true
	}
	return nil, false
}

// parenBalance counts closing minus opening parentheses in text.
func parenBalance(text string) int {
	return strings.Count(text, ")") - strings.Count(text, "(")
}

// skippable reports whether a trimmed line is blank or a comment.
func skippable(trimmed string) bool {
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

func rtrim(s string) string {
	return strings.TrimRight(s, " \t\r")
}
