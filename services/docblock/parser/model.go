// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package parser turns a Python signature line and body text into an ordered
// attribute model describing what a docstring should document.
//
// Every function here is a pure function of its text inputs; none of them
// touch a buffer. The scope package produces the inputs.
package parser

// AttributeKind names one category of documentable fact.
type AttributeKind string

const (
	KindDecorators AttributeKind = "decorators"
	KindExtends    AttributeKind = "extends"
	KindArguments  AttributeKind = "arguments"
	KindReturns    AttributeKind = "returns"
	KindYields     AttributeKind = "yields"
	KindRaises     AttributeKind = "raises"
	KindVariables  AttributeKind = "variables"
)

// Parameter is one function parameter.
//
// Type holds the resolved type after the hint > value > name precedence;
// TypeHint is only the explicit annotation.
type Parameter struct {
	Name     string `json:"name"`
	TypeHint string `json:"type_hint,omitempty"`
	Default  string `json:"default,omitempty"`
	Type     string `json:"type,omitempty"`
}

// Variable is one module- or class-level assignment.
type Variable struct {
	Name     string `json:"name"`
	TypeHint string `json:"type_hint,omitempty"`
	Default  string `json:"default,omitempty"`
	Type     string `json:"type,omitempty"`
}

// Arguments splits parameters by whether they carry a default.
type Arguments struct {
	Positional []Parameter `json:"arguments"`
	Keyword    []Parameter `json:"keyword_arguments"`
}

// Empty reports whether no parameter survived filtering.
func (a Arguments) Empty() bool {
	return len(a.Positional) == 0 && len(a.Keyword) == 0
}

// ReturnSpec describes the value of the first return or yield statement.
type ReturnSpec struct {
	Type string `json:"type,omitempty"`
}

// Attribute is one (kind, payload) entry of a Model. Exactly the payload
// field matching Kind is set.
type Attribute struct {
	Kind      AttributeKind `json:"kind"`
	Names     []string      `json:"names,omitempty"`
	Arguments *Arguments    `json:"arguments,omitempty"`
	Return    *ReturnSpec   `json:"return,omitempty"`
	Variables []Variable    `json:"variables,omitempty"`
}

// Model is the ordered attribute collection for one docstring.
//
// Order is discovery order and empty categories are never present.
type Model struct {
	Attributes []Attribute `json:"attributes"`
}

// Get returns the first attribute of the given kind.
func (m Model) Get(kind AttributeKind) (Attribute, bool) {
	for _, a := range m.Attributes {
		if a.Kind == kind {
			return a, true
		}
	}
	return Attribute{}, false
}

// Kinds returns the attribute kinds in model order.
func (m Model) Kinds() []AttributeKind {
	kinds := make([]AttributeKind, 0, len(m.Attributes))
	for _, a := range m.Attributes {
		kinds = append(kinds, a.Kind)
	}
	return kinds
}

func (m *Model) appendNames(kind AttributeKind, names []string) {
	if len(names) == 0 {
		return
	}
	m.Attributes = append(m.Attributes, Attribute{Kind: kind, Names: names})
}
