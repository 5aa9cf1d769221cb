// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// printer writes command output, styled when w is a terminal.
type printer struct {
	w      io.Writer
	styled bool

	heading lipgloss.Style
	label   lipgloss.Style
	body    lipgloss.Style
	note    lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	return &printer{
		w:       w,
		styled:  isTerminal(w),
		heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		body:    lipgloss.NewStyle().PaddingLeft(2),
		note:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("11")),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *printer) render(style lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return style.Render(text)
}

// Heading prints a title with an optional dimmed label.
func (p *printer) Heading(title, label string) {
	line := p.render(p.heading, title)
	if label != "" {
		line += " " + p.render(p.label, "("+label+")")
	}
	fmt.Fprintln(p.w, line)
}

// Block prints multi-line text, indented when styled.
func (p *printer) Block(text string) {
	text = strings.ReplaceAll(text, "\t", "    ")
	fmt.Fprintln(p.w, p.render(p.body, text))
}

// Note prints a one-line remark.
func (p *printer) Note(text string) {
	fmt.Fprintln(p.w, p.render(p.note, text))
}

// Raw prints text exactly as given.
func (p *printer) Raw(text string) {
	fmt.Fprint(p.w, text)
}

// JSON prints v as indented JSON.
func (p *printer) JSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readSource reads path, or stdin when path is "-".
func readSource(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
