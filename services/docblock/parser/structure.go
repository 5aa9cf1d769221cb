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
	"strings"
)

var (
	decoratorPattern = regexp.MustCompile(`^\s*@([\w.]*)(?:\(.*\)|\s*$)`)
	returnPattern    = regexp.MustCompile(`(?m)^[ \t]*(return|yield)[ \t]+([\w.]+)`)
	raisePattern     = regexp.MustCompile(`(?m)^[ \t]*raise[ \t]+([\w.]+)`)
	asyncDefPattern  = regexp.MustCompile(`^async\s+def\s`)
)

// excludedDecorators carry no information worth documenting.
var excludedDecorators = map[string]bool{
	"classmethod":  true,
	"staticmethod": true,
	"property":     true,
}

// nonVariablePrefixes start statements that are never variable declarations.
var nonVariablePrefixes = []string{"from ", "import ", "def ", "class ", "@"}

// ParseExtends returns the base classes of a class signature line, without
// the implicit "object" base.
//
// Outputs:
//   - []string: Bases in declaration order. May be empty when only object
//     was listed.
//   - bool: False when the line is not "class Name(...):".
func ParseExtends(line string) ([]string, bool) {
	m := classExtendsPattern.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}

	var bases []string
	for _, base := range SplitByCommas(m[1]) {
		if base == "object" {
			continue
		}
		bases = append(bases, base)
	}
	return bases, true
}

// ParseDecorators returns the decorators written directly above the first
// function signature found in body, top-down, minus classmethod,
// staticmethod and property.
//
// Multi-line decorators are not recognized; the walk stops at them.
func ParseDecorators(body string) []string {
	lines := strings.Split(body, "\n")

	sig := -1
	for i, line := range lines {
		if functionStartPattern.MatchString(line) {
			sig = i
			break
		}
	}
	if sig < 0 {
		return nil
	}

	var found []string
	for i := sig - 1; i >= 0; i-- {
		m := decoratorPattern.FindStringSubmatch(lines[i])
		if m == nil {
			break
		}
		if excludedDecorators[m[1]] {
			continue
		}
		found = append(found, m[1])
	}

	decorators := make([]string, 0, len(found))
	for i := len(found) - 1; i >= 0; i-- {
		decorators = append(decorators, found[i])
	}
	return decorators
}

// ParseReturns finds the first return or yield statement in body.
//
// Description:
//
//	Only "return <token>" and "yield <token>" where the token is a dotted
//	identifier or literal word are recognized. A "-> type" annotation on the
//	signature replaces the value-based type guess.
//
// Outputs:
//   - AttributeKind: KindReturns or KindYields.
//   - ReturnSpec: The inferred type, possibly empty.
//   - bool: False when neither keyword appears.
func ParseReturns(signature, body string) (AttributeKind, ReturnSpec, bool) {
	m := returnPattern.FindStringSubmatch(body)
	if m == nil {
		return "", ReturnSpec{}, false
	}

	kind := KindReturns
	if m[1] == "yield" {
		kind = KindYields
	}

	spec := ReturnSpec{Type: InferFromValue(m[2])}
	if h := returnHintPattern.FindStringSubmatch(signature); h != nil {
		spec.Type = h[1]
	}
	return kind, spec, true
}

// ParseRaises returns the distinct exception names raised anywhere in body,
// in first-seen order.
func ParseRaises(body string) ([]string, bool) {
	matches := raisePattern.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil, false
	}

	seen := make(map[string]bool, len(matches))
	raises := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		raises = append(raises, m[1])
	}
	return raises, true
}

// ParseVariables treats every remaining line of body as one assignment.
//
// Description:
//
//	body is expected to contain only lines at the docstring's indentation.
//	Lines that begin an import, def, async def, class or decorator statement
//	are skipped. Each other non-empty line is split on its first "="; an
//	annotation on the left-hand side becomes the type hint.
//
// Outputs:
//   - []Variable: One entry per candidate line.
//   - bool: False when no candidate line exists.
func ParseVariables(body string) ([]Variable, bool) {
	var vars []Variable
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !isVariableCandidate(line) {
			continue
		}
		vars = append(vars, processVariable(line))
	}
	if len(vars) == 0 {
		return nil, false
	}
	return vars, true
}

func isVariableCandidate(line string) bool {
	for _, prefix := range nonVariablePrefixes {
		if strings.HasPrefix(line, prefix) {
			return false
		}
	}
	return !asyncDefPattern.MatchString(line)
}

func processVariable(line string) Variable {
	name, value, _ := strings.Cut(line, "=")
	name = strings.TrimSpace(name)

	v := Variable{
		Name:    name,
		Default: strings.TrimSpace(value),
	}
	if left, hint, ok := strings.Cut(name, ":"); ok && strings.TrimSpace(hint) != "" {
		v.Name = strings.TrimSpace(left)
		v.TypeHint = strings.TrimSpace(hint)
	}

	v.Type = ResolveType(v.TypeHint, v.Default, v.Name)
	return v
}
