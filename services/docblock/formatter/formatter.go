// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package formatter renders a parser.Model into docstring snippet text in
// one of several documentation styles.
//
// Placeholders use the editor snippet field syntax ${n:[name]}; fields are
// numbered from 1 within each rendered snippet.
package formatter

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/docblockr/services/docblock/parser"
)

// Style identifies one documentation layout.
type Style int

const (
	// StyleBase emits one placeholder line per attribute kind.
	StyleBase Style = iota

	// StyleDocblock is the default "Arguments: name {type} -- desc" layout.
	StyleDocblock

	// StyleGoogle follows the Google Python style guide.
	StyleGoogle

	// StyleNumpy follows the numpydoc section layout.
	StyleNumpy

	// StyleSphinx emits reStructuredText field lists.
	StyleSphinx

	// StylePEP257 follows the PEP 257 examples.
	StylePEP257
)

// allStyles lists every style in registry order.
var allStyles = []Style{StyleBase, StyleDocblock, StyleGoogle, StyleNumpy, StyleSphinx, StylePEP257}

// String returns the setting name of the style.
func (s Style) String() string {
	switch s {
	case StyleBase:
		return "base"
	case StyleDocblock:
		return "docblock"
	case StyleGoogle:
		return "google"
	case StyleNumpy:
		return "numpy"
	case StyleSphinx:
		return "sphinx"
	case StylePEP257:
		return "PEP0257"
	default:
		return "unknown"
	}
}

// MarshalText encodes the style by name.
func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a style name accepted by ParseStyle.
func (s *Style) UnmarshalText(text []byte) error {
	style, ok := ParseStyle(string(text))
	if !ok {
		return fmt.Errorf("unknown style %q", text)
	}
	*s = style
	return nil
}

// ParseStyle resolves a setting name case-insensitively. "pep257" is
// accepted as an alias of "PEP0257".
func ParseStyle(name string) (Style, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "pep257" {
		return StylePEP257, true
	}
	for _, s := range allStyles {
		if strings.ToLower(s.String()) == normalized {
			return s, true
		}
	}
	return StyleBase, false
}

// Formatter renders a model into snippet text.
type Formatter interface {
	// Style returns the layout this formatter produces.
	Style() Style

	// Render returns summary, a description placeholder, one section per
	// model attribute in model order, and finally closing.
	//
	// An empty summary is replaced by a placeholder field. summary must
	// already be escaped for snippet syntax.
	Render(model parser.Model, summary, closing string) string
}

// fields numbers placeholder fields within one render.
type fields struct {
	next int
}

// field returns value when it is non-empty, else a new numbered
// placeholder labeled name.
func (f *fields) field(name, value string) string {
	if value != "" {
		return value
	}
	return f.placeholder(name)
}

func (f *fields) placeholder(name string) string {
	f.next++
	return fmt.Sprintf("${%d:[%s]}", f.next, name)
}

// sections writes the style-specific text of each attribute kind. A
// method returning "" drops that kind from the snippet.
type sections interface {
	decorators(f *fields, names []string) string
	extends(f *fields, names []string) string
	arguments(f *fields, args parser.Arguments) string
	returns(f *fields, spec parser.ReturnSpec) string
	yields(f *fields, spec parser.ReturnSpec) string
	raises(f *fields, names []string) string
	variables(f *fields, vars []parser.Variable) string
}

// renderer adapts a sections implementation to Formatter.
type renderer struct {
	style    Style
	sections sections
}

func (r *renderer) Style() Style {
	return r.style
}

func (r *renderer) Render(model parser.Model, summary, closing string) string {
	f := &fields{}

	var b strings.Builder
	if summary == "" {
		summary = f.placeholder("summary")
	}
	b.WriteString(summary)
	b.WriteString("\n\n")
	b.WriteString(f.placeholder("description"))
	b.WriteString("\n")

	for _, attr := range model.Attributes {
		b.WriteString(r.section(f, attr))
	}

	b.WriteString(closing)
	return b.String()
}

func (r *renderer) section(f *fields, attr parser.Attribute) string {
	switch attr.Kind {
	case parser.KindDecorators:
		return r.sections.decorators(f, attr.Names)
	case parser.KindExtends:
		return r.sections.extends(f, attr.Names)
	case parser.KindArguments:
		if attr.Arguments == nil || attr.Arguments.Empty() {
			return ""
		}
		return r.sections.arguments(f, *attr.Arguments)
	case parser.KindReturns:
		if attr.Return == nil {
			return ""
		}
		return r.sections.returns(f, *attr.Return)
	case parser.KindYields:
		if attr.Return == nil {
			return ""
		}
		return r.sections.yields(f, *attr.Return)
	case parser.KindRaises:
		return r.sections.raises(f, attr.Names)
	case parser.KindVariables:
		return r.sections.variables(f, attr.Variables)
	default:
		return ""
	}
}
