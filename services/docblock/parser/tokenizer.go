// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package parser

import "strings"

// closers maps each opening rune to the rune that ends its region.
var closers = map[rune]rune{
	'"':  '"',
	'\'': '\'',
	'<':  '>',
	'(':  ')',
	'{':  '}',
	'[':  ']',
}

// SplitByCommas splits text on commas that are not enclosed in quotes or
// brackets.
//
// Description:
//
//	Only the most recently opened region is tracked: a second opener inside
//	an open region is an ordinary character until the first matching closer
//	appears. Inside a region a backslash makes the next rune literal, and
//	both the backslash and that rune are kept in the token verbatim, so
//	`"a\,b"` stays `"a\,b"`. A '<' that is never closed by '>' is a
//	comparison, not a generic bracket, and does not protect commas. Each
//	token is trimmed of surrounding whitespace.
//
// Example:
//
//	SplitByCommas(`foo, bar(baz, quux), fwip = "hey, hi"`)
//	// []string{"foo", "bar(baz, quux)", `fwip = "hey, hi"`}
func SplitByCommas(text string) []string {
	tokens, _ := Tokenize(text)
	return tokens
}

// Tokenize is SplitByCommas that also reports whether the scan ended outside
// any quote or bracket region.
//
// Outputs:
//   - []string: Trimmed tokens. Empty (nil) for empty input.
//   - bool: False when a quote or bracket region was still open at end of
//     input. An unclosed '<' never makes the result unbalanced.
func Tokenize(text string) ([]string, bool) {
	if text == "" {
		return nil, true
	}

	runes := []rune(text)
	comparisons := make(map[int]bool)
	for {
		tokens, open := scanTokens(runes, comparisons)
		if open < 0 {
			return tokens, true
		}
		if runes[open] != '<' {
			return tokens, false
		}
		comparisons[open] = true
	}
}

// scanTokens splits runes on top-level commas, treating the '<' positions in
// literal as ordinary characters. It returns the index of the opener of the
// region still open at end of input, or -1.
func scanTokens(runes []rune, literal map[int]bool) ([]string, int) {
	var (
		out      []string
		current  strings.Builder
		closer   rune
		openedAt = -1
		escaping bool
	)

	for i, r := range runes {
		switch {
		case escaping:
			current.WriteRune(r)
			escaping = false
		case openedAt >= 0:
			current.WriteRune(r)
			if r == '\\' {
				escaping = true
			} else if r == closer {
				openedAt = -1
			}
		case r == ',':
			out = append(out, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
			if c, ok := closers[r]; ok && !literal[i] {
				closer = c
				openedAt = i
			}
		}
	}

	out = append(out, strings.TrimSpace(current.String()))
	return out, openedAt
}
