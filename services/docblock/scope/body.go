// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package scope

import (
	"strings"

	"github.com/AleutianAI/docblockr/services/docblock/buffer"
	"github.com/AleutianAI/docblockr/services/docblock/parser"
)

// Extract collects the body text that belongs to the unit documented at pos.
//
// Description:
//
//	Walks downward from pos's line, skipping blank and comment lines, and
//	stops at the first line indented less than level. For functions every
//	line is kept regardless of depth, since return, yield and raise may be
//	nested inside any block. For modules, classes and unrecognized units
//	only lines at exactly level are kept; deeper lines are implementation
//	detail of nested units.
//
// Inputs:
//   - buf: The buffer to read.
//   - pos: Any position on the docstring's line. That line is not included.
//   - level: The docstring's indentation level.
//   - kind: The unit kind from parser.ParseDefinition.
//
// Outputs:
//   - string: Right-trimmed lines joined with "\n". Empty when nothing matched.
func Extract(buf buffer.Buffer, pos, level int, kind parser.UnitKind) string {
	var kept []string

	c := buffer.NewCursor(buf, pos, false)
	for line, ok := c.Next(); ok; line, ok = c.Next() {
		raw := buf.Substr(line.Begin, line.End)
		if skippable(strings.TrimSpace(raw)) {
			continue
		}

		current := buf.IndentationLevel(line.Begin)
		if current < level {
			break
		}
		if kind != parser.UnitFunction && current != level {
			continue
		}
		kept = append(kept, rtrim(raw))
	}
	return strings.Join(kept, "\n")
}
