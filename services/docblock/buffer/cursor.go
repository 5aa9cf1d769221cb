// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package buffer

// Cursor walks physical lines away from a starting position, one line per
// call to Next.
//
// Description:
//
//	The first line produced is the one adjacent to the starting position's
//	line in the requested direction. The walk ends when the next candidate
//	position falls outside the open interval (0, Size()), so an empty first
//	line or an empty trailing line is never produced.
//
// Example:
//
//	c := buffer.NewCursor(buf, pos, true)
//	for line, ok := c.Next(); ok; line, ok = c.Next() {
//	    fmt.Println(buf.Substr(line.Begin, line.End))
//	}
//
// Thread Safety: Not safe for concurrent use. Create one Cursor per walk.
type Cursor struct {
	buf     Buffer
	current Line
	reverse bool
	done    bool
}

// NewCursor creates a Cursor positioned on the line containing pos.
//
// Inputs:
//   - buf: The buffer to walk. Must not be nil.
//   - pos: Starting position; its own line is never produced.
//   - reverse: Walk toward the start of the buffer when true.
func NewCursor(buf Buffer, pos int, reverse bool) *Cursor {
	return &Cursor{
		buf:     buf,
		current: buf.Line(pos),
		reverse: reverse,
	}
}

// Next advances to the adjacent line.
//
// Outputs:
//   - Line: The next line. Zero value when ok is false.
//   - bool: False once the walk left the buffer; all later calls return false.
func (c *Cursor) Next() (Line, bool) {
	if c.done {
		return Line{}, false
	}

	next := c.current.End + 1
	if c.reverse {
		next = c.current.Begin - 1
	}

	if !(next > 0 && next < c.buf.Size()) {
		c.done = true
		return Line{}, false
	}

	c.current = c.buf.Line(next)
	return c.current, true
}
