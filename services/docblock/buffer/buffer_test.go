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

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSource = "class Foo:\n    def bar(self):\n\tpass\n\n"

func TestText_Line(t *testing.T) {
	buf := NewText(sampleSource, 4)

	tests := []struct {
		name string
		pos  int
		want string
	}{
		{name: "start of buffer", pos: 0, want: "class Foo:"},
		{name: "newline belongs to its line", pos: 10, want: "class Foo:"},
		{name: "second line", pos: 11, want: "    def bar(self):"},
		{name: "tab line", pos: 31, want: "\tpass"},
		{name: "empty line", pos: 37, want: ""},
		{name: "negative clamps", pos: -5, want: "class Foo:"},
		{name: "past end clamps", pos: 1000, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LineText(buf, tt.pos))
		})
	}
}

func TestText_IndentationLevel(t *testing.T) {
	buf := NewText("a\n    b\n        c\n\td\n  \te\n  f\n", 4)

	assert.Equal(t, 0, buf.IndentationLevel(0))
	assert.Equal(t, 1, buf.IndentationLevel(2))
	assert.Equal(t, 2, buf.IndentationLevel(8))
	assert.Equal(t, 1, buf.IndentationLevel(18), "tab counts as one level")
	assert.Equal(t, 1, buf.IndentationLevel(21), "tab advances to the next stop")
	assert.Equal(t, 0, buf.IndentationLevel(26), "partial indentation rounds down")
}

func TestText_TabWidthDefault(t *testing.T) {
	buf := NewText("x", 0)
	assert.Equal(t, DefaultTabWidth, buf.TabWidth())
}

func TestText_Offset(t *testing.T) {
	buf := NewText(sampleSource, 4)

	pos, err := buf.Offset(2, 4)
	require.NoError(t, err)
	assert.Equal(t, 15, pos)

	pos, err = buf.Offset(1, 200)
	require.NoError(t, err)
	assert.Equal(t, 10, pos, "column clamps to end of line")

	_, err = buf.Offset(0, 0)
	assert.True(t, errors.Is(err, ErrInvalidPosition))

	_, err = buf.Offset(99, 0)
	assert.True(t, errors.Is(err, ErrInvalidPosition))
}

func TestText_Substr(t *testing.T) {
	buf := NewText("hello", 4)
	assert.Equal(t, "ell", buf.Substr(1, 4))
	assert.Equal(t, "hello", buf.Substr(-3, 99))
	assert.Equal(t, "", buf.Substr(4, 1))
}

func collect(c *Cursor, buf Buffer) []string {
	var out []string
	for line, ok := c.Next(); ok; line, ok = c.Next() {
		out = append(out, buf.Substr(line.Begin, line.End))
	}
	return out
}

func TestCursor_Forward(t *testing.T) {
	buf := NewText("one\ntwo\nthree\n", 4)
	lines := collect(NewCursor(buf, 0, false), buf)
	assert.Equal(t, []string{"two", "three"}, lines, "own line excluded, trailing empty line excluded")
}

func TestCursor_Reverse(t *testing.T) {
	buf := NewText("one\ntwo\nthree", 4)
	lines := collect(NewCursor(buf, buf.Size(), true), buf)
	assert.Equal(t, []string{"two", "one"}, lines)
}

func TestCursor_ReverseSkipsEmptyFirstLine(t *testing.T) {
	buf := NewText("\nx\ny", 4)
	lines := collect(NewCursor(buf, 3, true), buf)
	assert.Equal(t, []string{"x"}, lines)
}

func TestCursor_ExhaustedStaysExhausted(t *testing.T) {
	buf := NewText("only", 4)
	c := NewCursor(buf, 0, false)

	_, ok := c.Next()
	assert.False(t, ok)
	_, ok = c.Next()
	assert.False(t, ok)
}

func TestCursor_Restartable(t *testing.T) {
	buf := NewText("a\nb\nc", 4)
	first := collect(NewCursor(buf, 0, false), buf)
	second := collect(NewCursor(buf, 0, false), buf)
	assert.Equal(t, first, second)
}
