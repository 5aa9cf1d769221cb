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

import (
	"regexp"
	"strconv"
	"strings"
)

// Type names produced by the inference heuristics.
const (
	TypeNumber        = "number"
	TypeString        = "string"
	TypeUnicodeString = "unicode string"
	TypeList          = "list"
	TypeDict          = "dict"
	TypeTuple         = "tuple"
	TypeBool          = "bool"
	TypeFunction      = "function"
)

var (
	boolNamePattern     = regexp.MustCompile(`^(?:is|has)[A-Z_]`)
	callbackNamePattern = regexp.MustCompile(`^(?:cb|callback|done|next|fn)$`)
)

// InferFromValue guesses a type from the literal text of a value.
//
// Outputs:
//   - string: One of the Type* constants, or "" when no guess applies.
func InferFromValue(literal string) string {
	if literal == "" {
		return ""
	}

	if isNumeric(literal) {
		return TypeNumber
	}

	switch literal[0] {
	case '"', '\'':
		return TypeString
	case '[':
		return TypeList
	case '{':
		return TypeDict
	case '(':
		return TypeTuple
	}

	if literal == "True" || literal == "False" {
		return TypeBool
	}

	if len(literal) >= 2 && (literal[0] == 'u' || literal[0] == 'U') && (literal[1] == '\'' || literal[1] == '"') {
		return TypeUnicodeString
	}

	if strings.HasPrefix(strings.TrimSpace(literal), "lambda ") {
		return TypeFunction
	}

	return ""
}

// InferFromName guesses a type from naming conventions.
//
// Outputs:
//   - string: TypeBool for is*/has* names, TypeFunction for common callback
//     names, or "".
func InferFromName(name string) string {
	if boolNamePattern.MatchString(name) {
		return TypeBool
	}
	if callbackNamePattern.MatchString(name) {
		return TypeFunction
	}
	return ""
}

// ResolveType applies the inference precedence: explicit hint, then the
// value-based guess, then the name-based guess.
func ResolveType(hint, value, name string) string {
	if hint != "" {
		return hint
	}
	if t := InferFromValue(value); t != "" {
		return t
	}
	return InferFromName(name)
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}
