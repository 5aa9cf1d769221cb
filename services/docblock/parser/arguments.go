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

// excludedParameters are dropped when they are the first parameter.
var excludedParameters = map[string]bool{
	"self": true,
	"cls":  true,
}

// ParseArguments extracts the parameters of a function signature line.
//
// Description:
//
//	Inline annotations ("name: type", with balanced brackets in the type)
//	are captured and removed before the parameter text is split, so commas
//	inside generic arguments do not produce extra tokens. A token containing
//	"=" is a keyword argument regardless of position. The type of each
//	parameter is resolved as hint > value guess > name guess.
//
// Inputs:
//   - line: The logical signature line.
//
// Outputs:
//   - Arguments: Positional and keyword parameters in declaration order.
//   - bool: False when the line is not a function signature or no parameter
//     survives filtering.
//
// Limitations:
//   - Parameter text with an unterminated quote is returned as a single
//     opaque positional argument. An unclosed bracket only merges the
//     parameters after it into one token.
func ParseArguments(line string) (Arguments, bool) {
	m := functionPattern.FindStringSubmatch(line)
	if m == nil {
		return Arguments{}, false
	}

	raw := m[3]
	hints, stripped := extractHints(raw)
	if strings.TrimSpace(stripped) == "" {
		return Arguments{}, false
	}

	if unterminatedQuote(stripped) {
		opaque := Parameter{Name: strings.TrimSpace(raw)}
		return Arguments{Positional: []Parameter{opaque}}, true
	}

	var args Arguments
	for i, tok := range SplitByCommas(stripped) {
		if i == 0 && excludedParameters[tok] {
			continue
		}
		// Bare "*" and "/" only separate keyword-only and positional-only groups.
		if tok == "" || tok == "*" || tok == "/" {
			continue
		}

		name, value, keyword := strings.Cut(tok, "=")
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		bare := strings.TrimLeft(name, "*")

		p := Parameter{
			Name:     name,
			TypeHint: hints[bare],
			Default:  value,
		}
		p.Type = ResolveType(p.TypeHint, p.Default, bare)

		if keyword {
			args.Keyword = append(args.Keyword, p)
		} else {
			args.Positional = append(args.Positional, p)
		}
	}

	if args.Empty() {
		return Arguments{}, false
	}
	return args, true
}

// unterminatedQuote reports whether a string literal in params is still open
// at end of input. Brackets are ignored.
func unterminatedQuote(params string) bool {
	var quote byte
	for i := 0; i < len(params); i++ {
		c := params[i]
		switch {
		case quote == 0:
			if c == '"' || c == '\'' {
				quote = c
			}
		case c == '\\':
			i++
		case c == quote:
			quote = 0
		}
	}
	return quote != 0
}

// extractHints collects "name: type" annotations at the head of each
// top-level parameter and returns the text with those annotations removed.
func extractHints(params string) (map[string]string, string) {
	hints := make(map[string]string)
	var out strings.Builder

	var (
		quote  byte
		depth  int
		atHead = true
	)

	for i := 0; i < len(params); {
		c := params[i]

		if quote != 0 {
			out.WriteByte(c)
			if c == '\\' && i+1 < len(params) {
				out.WriteByte(params[i+1])
				i += 2
				continue
			}
			if c == quote {
				quote = 0
			}
			i++
			continue
		}

		if atHead && depth == 0 {
			atHead = false
			if next, ok := stripAnnotation(params, i, hints, &out); ok {
				i = next
				continue
			}
		}

		switch c {
		case '"', '\'':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				atHead = true
			}
		}
		out.WriteByte(c)
		i++
	}

	return hints, out.String()
}

// stripAnnotation handles one parameter head starting at i. When the head is
// "[*]name : type", the name part is written to out, the hint recorded, and
// the index after the annotation returned.
func stripAnnotation(params string, i int, hints map[string]string, out *strings.Builder) (int, bool) {
	j := i
	for j < len(params) && (isSpace(params[j]) || params[j] == '*') {
		j++
	}
	k := j
	for k < len(params) && isIdentByte(params[k]) {
		k++
	}
	if k == j {
		return i, false
	}

	m := k
	for m < len(params) && isSpace(params[m]) {
		m++
	}
	if m >= len(params) || params[m] != ':' {
		return i, false
	}

	typ, end := scanType(params, m+1)
	if typ == "" {
		return i, false
	}

	hints[params[j:k]] = typ
	out.WriteString(params[i:k])
	for end < len(params) && isSpace(params[end]) {
		end++
	}
	return end, true
}

// scanType reads a dotted type name with an optional balanced bracket suffix.
func scanType(s string, start int) (string, int) {
	i := start
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	nameStart := i
	for i < len(s) && (isIdentByte(s[i]) || s[i] == '.') {
		i++
	}
	if i == nameStart {
		return "", start
	}
	nameEnd := i

	if i < len(s) && s[i] == '[' {
		depth := 0
		for j := i; j < len(s); j++ {
			switch s[j] {
			case '[':
				depth++
			case ']':
				depth--
				if depth == 0 {
					return s[nameStart : j+1], j + 1
				}
			}
		}
	}

	return s[nameStart:nameEnd], nameEnd
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
