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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/docblockr/services/docblock/buffer"
	"github.com/AleutianAI/docblockr/services/docblock/parser"
)

// docstringAt builds a buffer and returns the position just past the n-th
// (0-based) occurrence of marker.
func docstringAt(t *testing.T, content, marker string, n int) (*buffer.Text, int) {
	t.Helper()
	offset := 0
	for i := 0; ; i++ {
		idx := strings.Index(content[offset:], marker)
		require.GreaterOrEqual(t, idx, 0, "marker %q occurrence %d not found", marker, n)
		if i == n {
			return buffer.NewText(content, 4), offset + idx + len(marker)
		}
		offset += idx + len(marker)
	}
}

func TestLocate_MultiLineSignature(t *testing.T) {
	content := "def f(a,\n      b):\n    \"\"\"\n    return a\n"
	buf, pos := docstringAt(t, content, `"""`, 0)

	sig, ok := Locate(buf, pos)
	require.True(t, ok)
	assert.Equal(t, "def f(a, b):", sig)
}

func TestLocate_SkipsBlankAndCommentLines(t *testing.T) {
	content := "class A(B):\n    # note\n\n    \"\"\"\n"
	buf, pos := docstringAt(t, content, `"""`, 0)

	sig, ok := Locate(buf, pos)
	require.True(t, ok)
	assert.Equal(t, "class A(B):", sig)
}

func TestLocate_MethodAfterSibling(t *testing.T) {
	content := "class A:\n    def f(self):\n        pass\n\n    def g(self, x):\n        \"\"\"\n"
	buf, pos := docstringAt(t, content, `"""`, 0)

	sig, ok := Locate(buf, pos)
	require.True(t, ok)
	assert.Equal(t, "def g(self, x):", sig)
}

func TestLocate_ModuleScope(t *testing.T) {
	buf, pos := docstringAt(t, "\"\"\"\nimport os\n", `"""`, 0)
	_, ok := Locate(buf, pos)
	assert.False(t, ok, "docstring on the first line")

	buf, pos = docstringAt(t, "#!/usr/bin/env python\nimport os\n\n\"\"\"\nX = 1\n", `"""`, 0)
	_, ok = Locate(buf, pos)
	assert.False(t, ok, "no shallower line above a top-level docstring")
}

func TestHeader_IncludesDecorators(t *testing.T) {
	content := "class A:\n    @staticmethod\n    # comment\n    @cache\n    def g(x,\n          y):\n        \"\"\"\n        return x\n"
	buf, pos := docstringAt(t, content, `"""`, 0)

	header := Header(buf, pos)
	assert.Equal(t, "    @staticmethod\n    @cache\n    def g(x,\n          y):", header)

	body := Extract(buf, pos, buf.IndentationLevel(pos), parser.UnitFunction)
	assert.Equal(t, []string{"cache"}, parser.ParseDecorators(header+"\n"+body))
}

func TestHeader_ModuleScopeIsEmpty(t *testing.T) {
	buf, pos := docstringAt(t, "\"\"\"\nX = 1\n", `"""`, 0)
	assert.Empty(t, Header(buf, pos))
}

func TestExtract_FunctionKeepsNestedLines(t *testing.T) {
	content := "def f(x):\n    \"\"\"\n    if x:\n        # hidden\n        raise ValueError\n\n    return x\ndef g():\n    pass\n"
	buf, pos := docstringAt(t, content, `"""`, 0)

	body := Extract(buf, pos, buf.IndentationLevel(pos), parser.UnitFunction)
	assert.Equal(t, "    if x:\n        raise ValueError\n    return x", body)
}

func TestExtract_ClassKeepsSameLevelOnly(t *testing.T) {
	content := "class A:\n    \"\"\"\n    name = 'a'   \n    def m(self):\n        inner = 1\n    other = 2\nx = 3\n"
	buf, pos := docstringAt(t, content, `"""`, 0)

	body := Extract(buf, pos, buf.IndentationLevel(pos), parser.UnitClass)
	assert.Equal(t, "    name = 'a'\n    def m(self):\n    other = 2", body)
}

func TestExtract_ModuleBody(t *testing.T) {
	content := "\"\"\"\nA = 1\ndef f():\n    b = 2\n"
	buf, pos := docstringAt(t, content, `"""`, 0)

	body := Extract(buf, pos, 0, parser.UnitModule)
	assert.Equal(t, "A = 1\ndef f():", body)

	model := parser.Parse("", false, body)
	assert.Equal(t, []parser.AttributeKind{parser.KindVariables}, model.Kinds())
}

func TestDetectClosure_SameLine(t *testing.T) {
	buf, pos := docstringAt(t, "def f():\n    \"\"\"Summary.\"\"\"\n", `"""`, 0)
	closure, err := DetectClosure(buf, pos)
	require.NoError(t, err)
	assert.Equal(t, Closure{Closed: false, Delimiter: DoubleQuotes}, closure)

	buf, pos = docstringAt(t, "def f():\n    '''x'''\n", "'''", 0)
	closure, err = DetectClosure(buf, pos)
	require.NoError(t, err)
	assert.Equal(t, Closure{Closed: false, Delimiter: SingleQuotes}, closure)
}

func TestDetectClosure_Closed(t *testing.T) {
	content := "def f():\n    \"\"\"\n    Summary.\n\n        detail\n    \"\"\"\n    return 1\n"
	buf, pos := docstringAt(t, content, `"""`, 0)

	closure, err := DetectClosure(buf, pos)
	require.NoError(t, err)
	assert.Equal(t, Closure{Closed: true, Delimiter: DoubleQuotes}, closure)
}

func TestDetectClosure_ScopeEndsFirst(t *testing.T) {
	content := "class A:\n    def f(self):\n        \"\"\"\n    def g(self):\n        \"\"\"x\"\"\"\n"
	buf, pos := docstringAt(t, content, `"""`, 0)

	closure, err := DetectClosure(buf, pos)
	require.NoError(t, err)
	assert.Equal(t, Closure{Closed: false, Delimiter: DoubleQuotes}, closure)
}

func TestDetectClosure_EndOfBufferKeepsOpenerStyle(t *testing.T) {
	buf, pos := docstringAt(t, "def f():\n    '''", "'''", 0)

	closure, err := DetectClosure(buf, pos)
	require.NoError(t, err)
	assert.Equal(t, Closure{Closed: false, Delimiter: SingleQuotes}, closure)
}

func TestDetectClosure_CloserWithoutOpenerLine(t *testing.T) {
	content := "def f():\n    x = 1\n    '''\n"
	buf := buffer.NewText(content, 4)
	pos := strings.Index(content, "x = 1")

	closure, err := DetectClosure(buf, pos)
	require.NoError(t, err)
	assert.Equal(t, Closure{Closed: true, Delimiter: SingleQuotes}, closure)
}

func TestDetectClosure_OtherStyleIsNotCloser(t *testing.T) {
	buf, pos := docstringAt(t, "def f():\n    '''\n    \"\"\"\n", "'''", 0)

	closure, err := DetectClosure(buf, pos)
	require.NoError(t, err)
	assert.Equal(t, Closure{Closed: false, Delimiter: SingleQuotes}, closure)
}

func TestDetectClosure_ModuleDocstringAboveSingleQuotedConstant(t *testing.T) {
	content := "\"\"\"\nimport os\n\nQUERY = '''\nselect 1\n'''\nTIMEOUT = 30\n"
	buf := buffer.NewText(content, 4)

	closure, err := DetectClosure(buf, 3)
	require.NoError(t, err)
	assert.Equal(t, Closure{Closed: false, Delimiter: DoubleQuotes}, closure)
}

func TestDetectClosure_SkipsOtherStyleBeforeOwnCloser(t *testing.T) {
	content := "def f():\n    \"\"\"\n    '''\n    \"\"\"\n"
	buf, pos := docstringAt(t, content, `"""`, 0)

	closure, err := DetectClosure(buf, pos)
	require.NoError(t, err)
	assert.Equal(t, Closure{Closed: true, Delimiter: DoubleQuotes}, closure)
}

func TestDetectClosure_UnclassifiableDelimiter(t *testing.T) {
	buf, pos := docstringAt(t, "def f():\n    \"\"\"\n    \"\"\"'''\n", `"""`, 0)

	_, err := DetectClosure(buf, pos)
	assert.ErrorIs(t, err, ErrAmbiguousDelimiter)
}

func TestLocate_BlackStyleSignature(t *testing.T) {
	content := "@cache\ndef f(\n    a: int,\n    b: str = \"x\",\n) -> int:\n    \"\"\"\n    return a\n"
	buf, pos := docstringAt(t, content, `"""`, 0)

	sig, ok := Locate(buf, pos)
	require.True(t, ok)
	assert.Equal(t, `def f( a: int, b: str = "x", ) -> int:`, sig)

	header := Header(buf, pos)
	assert.Equal(t, "@cache\ndef f(\n    a: int,\n    b: str = \"x\",\n) -> int:", header)
}

func TestDetectClosure_Idempotent(t *testing.T) {
	contents := []string{
		"def f():\n    \"\"\"\n    \"\"\"\n",
		"def f():\n    '''\n",
		"class A:\n    \"\"\"\n    x = 1\n",
	}

	for _, content := range contents {
		buf := buffer.NewText(content, 4)
		pos := strings.Index(content, "\n    ") + 8

		first, err1 := DetectClosure(buf, pos)
		second, err2 := DetectClosure(buf, pos)
		assert.Equal(t, first, second)
		assert.Equal(t, err1, err2)
	}
}
