// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package formatter

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/docblockr/services/docblock/parser"
)

// Field evaluation order inside each line determines placeholder numbering,
// so every line below resolves its fields left to right before formatting.

// baseSections emits one placeholder line per kind.
type baseSections struct{}

func (baseSections) decorators(f *fields, _ []string) string {
	return f.placeholder("decorators") + "\n"
}

func (baseSections) extends(f *fields, _ []string) string {
	return f.placeholder("extends") + "\n"
}

func (baseSections) arguments(f *fields, _ parser.Arguments) string {
	return f.placeholder("arguments") + "\n"
}

func (baseSections) returns(f *fields, _ parser.ReturnSpec) string {
	return f.placeholder("returns") + "\n"
}

func (baseSections) yields(f *fields, _ parser.ReturnSpec) string {
	return f.placeholder("yields") + "\n"
}

func (baseSections) raises(f *fields, _ []string) string {
	return f.placeholder("raises") + "\n"
}

func (baseSections) variables(f *fields, _ []parser.Variable) string {
	return f.placeholder("variables") + "\n"
}

// docblockSections renders "name {type} -- description" lines.
type docblockSections struct{}

func (docblockSections) decorators(_ *fields, names []string) string {
	return listSection("\nDecorators:\n", names)
}

func (docblockSections) extends(_ *fields, names []string) string {
	return listSection("\nExtends:\n", names)
}

func (docblockSections) arguments(f *fields, args parser.Arguments) string {
	var b strings.Builder
	if len(args.Positional) > 0 {
		b.WriteString("\nArguments:\n")
		for _, p := range args.Positional {
			name := f.field("name", p.Name)
			typ := f.field("type", p.Type)
			desc := f.placeholder("description")
			fmt.Fprintf(&b, "\t%s {%s} -- %s\n", name, typ, desc)
		}
	}

	if len(args.Keyword) > 0 {
		b.WriteString("\nKeyword Arguments:\n")
		for _, p := range args.Keyword {
			name := f.field("name", p.Name)
			typ := f.field("type", p.Type)
			desc := f.placeholder("description")
			def := f.field("default", p.Default)
			fmt.Fprintf(&b, "\t%s {%s} -- %s (default: {%s})\n", name, typ, desc, def)
		}
	}
	return b.String()
}

func (docblockSections) returns(f *fields, spec parser.ReturnSpec) string {
	return docblockReturn("\nReturns:\n", f, spec)
}

func (docblockSections) yields(f *fields, spec parser.ReturnSpec) string {
	return docblockReturn("\nYields:\n", f, spec)
}

func docblockReturn(heading string, f *fields, spec parser.ReturnSpec) string {
	typ := f.field("type", spec.Type)
	desc := f.placeholder("description")
	return fmt.Sprintf("%s\t%s -- %s\n", heading, typ, desc)
}

func (docblockSections) raises(f *fields, names []string) string {
	var b strings.Builder
	b.WriteString("\nRaises:\n")
	for _, n := range names {
		name := f.field("name", n)
		desc := f.placeholder("description")
		fmt.Fprintf(&b, "\t%s -- %s\n", name, desc)
	}
	return b.String()
}

func (docblockSections) variables(f *fields, vars []parser.Variable) string {
	var b strings.Builder
	b.WriteString("\nVariables:\n")
	for _, v := range vars {
		name := f.field("name", v.Name)
		typ := f.field("type", v.Type)
		desc := f.placeholder("description")
		fmt.Fprintf(&b, "\t%s {%s} -- %s\n", name, typ, desc)
	}
	return b.String()
}

func listSection(heading string, names []string) string {
	var b strings.Builder
	b.WriteString(heading)
	for _, n := range names {
		fmt.Fprintf(&b, "\t%s\n", n)
	}
	return b.String()
}

// googleSections renders Google style "Args:" blocks.
type googleSections struct{}

func (googleSections) decorators(*fields, []string) string { return "" }
func (googleSections) extends(*fields, []string) string    { return "" }

func (googleSections) arguments(f *fields, args parser.Arguments) string {
	var b strings.Builder
	b.WriteString("\nArgs:\n")
	for _, p := range args.Positional {
		name := f.field("name", p.Name)
		desc := f.placeholder("description")
		fmt.Fprintf(&b, "\t%s: %s\n", name, desc)
	}
	for _, p := range args.Keyword {
		name := f.field("name", p.Name)
		desc := f.placeholder("description")
		def := f.field("default", p.Default)
		fmt.Fprintf(&b, "\t%s: %s (default: {%s})\n", name, desc, def)
	}
	return b.String()
}

func (googleSections) returns(f *fields, spec parser.ReturnSpec) string {
	return googleReturn("\nReturns:\n", f, spec)
}

func (googleSections) yields(f *fields, spec parser.ReturnSpec) string {
	return googleReturn("\nYields:\n", f, spec)
}

func googleReturn(heading string, f *fields, spec parser.ReturnSpec) string {
	desc := f.placeholder("description")
	typ := f.field("type", spec.Type)
	return fmt.Sprintf("%s\t%s\n\t%s\n", heading, desc, typ)
}

func (googleSections) raises(f *fields, names []string) string {
	var b strings.Builder
	b.WriteString("\nRaises:\n")
	for _, n := range names {
		name := f.field("name", n)
		desc := f.placeholder("description")
		fmt.Fprintf(&b, "\t%s: %s\n", name, desc)
	}
	return b.String()
}

func (googleSections) variables(f *fields, vars []parser.Variable) string {
	var b strings.Builder
	b.WriteString("\nAttributes:\n")
	for _, v := range vars {
		name := f.field("name", v.Name)
		desc := f.placeholder("description")
		fmt.Fprintf(&b, "\t%s: %s\n", name, desc)
	}
	return b.String()
}

// numpySections renders numpydoc underlined sections.
type numpySections struct{}

func (numpySections) decorators(*fields, []string) string { return "" }
func (numpySections) extends(*fields, []string) string    { return "" }

func (numpySections) arguments(f *fields, args parser.Arguments) string {
	var b strings.Builder
	b.WriteString("\nParameters\n----------\n")
	for _, p := range args.Positional {
		name := f.field("name", p.Name)
		typ := f.field("type", p.Type)
		desc := f.placeholder("description")
		fmt.Fprintf(&b, "%s : {%s}\n\t%s\n", name, typ, desc)
	}
	for _, p := range args.Keyword {
		name := f.field("name", p.Name)
		typ := f.field("type", p.Type)
		desc := f.placeholder("description")
		def := f.field("default", p.Default)
		defDesc := f.placeholder("default_description")
		fmt.Fprintf(&b, "%s : {%s}, optional\n\t%s (the default is %s, which %s)\n", name, typ, desc, def, defDesc)
	}
	return b.String()
}

func (numpySections) returns(f *fields, spec parser.ReturnSpec) string {
	return numpyReturn("\nReturns\n-------\n", f, spec)
}

func (numpySections) yields(f *fields, spec parser.ReturnSpec) string {
	return numpyReturn("\nYields\n------\n", f, spec)
}

func numpyReturn(heading string, f *fields, spec parser.ReturnSpec) string {
	typ := f.field("type", spec.Type)
	desc := f.placeholder("description")
	return fmt.Sprintf("%s%s\n\t%s\n", heading, typ, desc)
}

func (numpySections) raises(f *fields, names []string) string {
	var b strings.Builder
	b.WriteString("\nRaises\n------\n")
	for _, n := range names {
		name := f.field("name", n)
		desc := f.placeholder("description")
		fmt.Fprintf(&b, "%s\n\t%s\n", name, desc)
	}
	return b.String()
}

func (numpySections) variables(f *fields, vars []parser.Variable) string {
	var b strings.Builder
	b.WriteString("\nAttributes\n----------\n")
	for _, v := range vars {
		name := f.field("name", v.Name)
		typ := f.field("type", v.Type)
		desc := f.placeholder("description")
		fmt.Fprintf(&b, "%s : {%s}\n\t%s\n", name, typ, desc)
	}
	return b.String()
}

// sphinxSections renders reStructuredText field lists.
type sphinxSections struct{}

func (sphinxSections) decorators(*fields, []string) string { return "" }
func (sphinxSections) extends(*fields, []string) string    { return "" }

func (sphinxSections) arguments(f *fields, args parser.Arguments) string {
	var b strings.Builder
	for _, p := range args.Positional {
		writeSphinxParam(&b, f, p.Name, p.Type)
	}
	for _, p := range args.Keyword {
		name := f.field("name", p.Name)
		desc := f.placeholder("description")
		def := f.field("default", p.Default)
		typeName := f.field("name", p.Name)
		typ := f.field("type", p.Type)
		fmt.Fprintf(&b, ":param %s: %s, defaults to %s\n:type %s: %s, optional\n", name, desc, def, typeName, typ)
	}
	return b.String()
}

func writeSphinxParam(b *strings.Builder, f *fields, name, typ string) {
	paramName := f.field("name", name)
	desc := f.placeholder("description")
	typeName := f.field("name", name)
	typ = f.field("type", typ)
	fmt.Fprintf(b, ":param %s: %s\n:type %s: %s\n", paramName, desc, typeName, typ)
}

func (sphinxSections) returns(f *fields, spec parser.ReturnSpec) string {
	return sphinxReturn(f, spec)
}

func (sphinxSections) yields(f *fields, spec parser.ReturnSpec) string {
	return sphinxReturn(f, spec)
}

func sphinxReturn(f *fields, spec parser.ReturnSpec) string {
	desc := f.placeholder("description")
	typ := f.field("type", spec.Type)
	return fmt.Sprintf(":returns: %s\n:rtype: {%s}\n", desc, typ)
}

func (sphinxSections) raises(f *fields, names []string) string {
	resolved := make([]string, 0, len(names))
	for _, n := range names {
		resolved = append(resolved, f.field("name", n))
	}
	return ":raises: " + strings.Join(resolved, ", ") + "\n"
}

func (sphinxSections) variables(f *fields, vars []parser.Variable) string {
	var b strings.Builder
	for _, v := range vars {
		writeSphinxParam(&b, f, v.Name, v.Type)
	}
	return b.String()
}

// pep257Sections renders the PEP 257 example layout.
type pep257Sections struct{}

func (pep257Sections) decorators(*fields, []string) string       { return "" }
func (pep257Sections) extends(*fields, []string) string          { return "" }
func (pep257Sections) returns(*fields, parser.ReturnSpec) string { return "" }
func (pep257Sections) yields(*fields, parser.ReturnSpec) string  { return "" }

func (pep257Sections) arguments(f *fields, args parser.Arguments) string {
	var b strings.Builder
	if len(args.Positional) > 0 {
		b.WriteString("\nArguments:\n")
		for _, p := range args.Positional {
			name := f.field("name", p.Name)
			desc := f.placeholder("description")
			fmt.Fprintf(&b, "\t%s -- %s\n", name, desc)
		}
	}
	if len(args.Keyword) > 0 {
		b.WriteString("\nKeyword arguments:\n")
		for _, p := range args.Keyword {
			name := f.field("name", p.Name)
			desc := f.placeholder("description")
			def := f.field("default", p.Default)
			fmt.Fprintf(&b, "\t%s -- %s (default: {%s})\n", name, desc, def)
		}
	}
	return b.String()
}

func (pep257Sections) raises(f *fields, names []string) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, n := range names {
		fmt.Fprintf(&b, "Raises a {%s} %s\n", n, f.placeholder("description"))
	}
	return b.String()
}

func (pep257Sections) variables(f *fields, vars []parser.Variable) string {
	var b strings.Builder
	b.WriteString("\nVariables:\n")
	for _, v := range vars {
		name := f.field("name", v.Name)
		desc := f.placeholder("description")
		fmt.Fprintf(&b, "\t%s -- %s\n", name, desc)
	}
	return b.String()
}
