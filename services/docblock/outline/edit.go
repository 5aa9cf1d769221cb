// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package outline

import (
	"sort"
	"strings"
)

// Edit inserts Text as new lines before BodyLine.
type Edit struct {
	// BodyLine is the 1-based line the text is inserted before.
	BodyLine int `json:"body_line"`

	// Indent prefixes every non-empty inserted line.
	Indent string `json:"indent"`

	// Text is the unindented text. It may span several lines.
	Text string `json:"text"`
}

// Prepare opens an empty docstring on a new line above the target's body.
//
// Description:
//
//	The inserted line holds an opening and a closing delimiter with nothing
//	between them, which is the shape an editor produces when the user
//	types the opener and auto-pairing adds the closer.
//
// Outputs:
//   - string: The modified content.
//   - int: Position between the two delimiters.
func Prepare(content string, t Target, delimiter string) (string, int) {
	lines := strings.Split(content, "\n")
	idx := clampLine(t.BodyLine, len(lines))

	offset := 0
	for i := 0; i < idx; i++ {
		offset += len(lines[i]) + 1
	}

	opened := t.Indent + delimiter + delimiter
	prepared := Apply(content, []Edit{{BodyLine: t.BodyLine, Text: opened}})
	return prepared, offset + len(t.Indent) + len(delimiter)
}

// Apply inserts every edit into content. Edits are applied bottom-up so
// BodyLine always refers to the original content.
func Apply(content string, edits []Edit) string {
	if len(edits) == 0 {
		return content
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BodyLine > sorted[j].BodyLine
	})

	lines := strings.Split(content, "\n")
	for _, e := range sorted {
		idx := clampLine(e.BodyLine, len(lines))

		inserted := strings.Split(e.Text, "\n")
		for i, l := range inserted {
			if l != "" {
				inserted[i] = e.Indent + l
			}
		}

		out := make([]string, 0, len(lines)+len(inserted))
		out = append(out, lines[:idx]...)
		out = append(out, inserted...)
		out = append(out, lines[idx:]...)
		lines = out
	}
	return strings.Join(lines, "\n")
}

// clampLine converts a 1-based line to a slice index in [0, n].
func clampLine(line, n int) int {
	idx := line - 1
	if idx < 0 {
		return 0
	}
	if idx > n {
		return n
	}
	return idx
}
