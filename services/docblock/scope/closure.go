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
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/AleutianAI/docblockr/services/docblock/buffer"
)

// Delimiter is a Python triple-quote style.
type Delimiter string

const (
	// DoubleQuotes is the conventional docstring delimiter and the default.
	DoubleQuotes Delimiter = `"""`

	// SingleQuotes is the alternate delimiter.
	SingleQuotes Delimiter = "'''"
)

// ErrAmbiguousDelimiter is returned when a candidate closing line starts with
// both triple-quote styles back to back, so neither can be chosen.
var ErrAmbiguousDelimiter = errors.New("ambiguous docstring delimiter")

var (
	sameLinePattern  = regexp.MustCompile(`^\s*("""|''').*("""|''')\s*$`)
	openerPattern    = regexp.MustCompile(`^\s*("""|''')`)
	ambiguousPattern = regexp.MustCompile(`^\s*("""'''|'''""")`)
)

// Closure is the result of DetectClosure.
type Closure struct {
	// Closed is true when a closing delimiter already terminates the block.
	Closed bool `json:"closed"`

	// Delimiter is the style to emit when closing the block.
	Delimiter Delimiter `json:"delimiter"`
}

// DetectClosure determines whether the docstring at pos already has a
// closing delimiter.
//
// Description:
//
//	A line that opens and closes a docstring on its own is the line being
//	typed, so it reports not closed. Otherwise the lines below are scanned
//	with pos's indentation as baseline: blank and deeper lines are skipped,
//	a shallower line ends the scope (not closed), and a line at the same
//	level starting with a triple quote is the closer (closed). When pos's
//	line opens with one style, a same-level line starting with the other
//	style belongs to a different string and is skipped.
//
//	The delimiter is taken from the closing line when one is found, else
//	from pos's line, else DoubleQuotes. No state is kept between calls, so
//	repeated calls on an unchanged buffer agree.
//
// Outputs:
//   - Closure: Closed flag and delimiter style.
//   - error: ErrAmbiguousDelimiter when a same-level candidate line starts
//     with both styles at once.
//
// Thread Safety: Safe for concurrent use.
func DetectClosure(buf buffer.Buffer, pos int) (Closure, error) {
	current := buffer.LineText(buf, pos)

	if m := sameLinePattern.FindStringSubmatch(current); m != nil {
		return Closure{Closed: false, Delimiter: Delimiter(m[1])}, nil
	}

	opened, hasOpener := leadingDelimiter(current)
	level := buf.IndentationLevel(pos)

	c := buffer.NewCursor(buf, pos, false)
	for line, ok := c.Next(); ok; line, ok = c.Next() {
		text := rtrim(buf.Substr(line.Begin, line.End))
		if strings.TrimSpace(text) == "" {
			continue
		}

		indent := buf.IndentationLevel(line.Begin)
		if indent > level {
			continue
		}
		if indent < level {
			break
		}

		if ambiguousPattern.MatchString(text) {
			return Closure{}, fmt.Errorf("%w: %q", ErrAmbiguousDelimiter, strings.TrimSpace(text))
		}

		closer, isCloser := leadingDelimiter(text)
		if !isCloser || (hasOpener && closer != opened) {
			continue
		}
		return Closure{Closed: true, Delimiter: closer}, nil
	}

	if hasOpener {
		return Closure{Delimiter: opened}, nil
	}
	return Closure{Delimiter: DoubleQuotes}, nil
}

func leadingDelimiter(line string) (Delimiter, bool) {
	m := openerPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return Delimiter(m[1]), true
}
