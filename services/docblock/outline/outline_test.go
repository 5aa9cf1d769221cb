// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package outline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/docblockr/services/docblock/parser"
)

const sample = `import os


@app.route("/")
def index(request):
    return render(request)


class Repo(Base):
    """Documented."""

    def save(self, item):
        # persist
        self.items.append(item)

    def load(self): return self.items


def outer():
    def inner(x):
        return x
    return inner
`

func TestScan_FindsUndocumentedDefinitions(t *testing.T) {
	result, err := Scan(context.Background(), []byte(sample))
	require.NoError(t, err)
	assert.False(t, result.SyntaxErrors)

	assert.Equal(t, []Target{
		{Kind: parser.UnitFunction, Name: "index", Line: 5, BodyLine: 6, Indent: "    "},
		{Kind: parser.UnitFunction, Name: "save", Line: 12, BodyLine: 14, Indent: "        "},
		{Kind: parser.UnitFunction, Name: "outer", Line: 19, BodyLine: 20, Indent: "    "},
		{Kind: parser.UnitFunction, Name: "inner", Line: 20, BodyLine: 21, Indent: "        "},
	}, result.Targets)
}

func TestScan_UndocumentedClass(t *testing.T) {
	result, err := Scan(context.Background(), []byte("class A:\n    x = 1\n"))
	require.NoError(t, err)
	require.Len(t, result.Targets, 1)
	assert.Equal(t, parser.UnitClass, result.Targets[0].Kind)
	assert.Equal(t, "A", result.Targets[0].Name)
}

func TestScan_EmptySource(t *testing.T) {
	result, err := Scan(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Targets)
}

func TestScan_ReportsSyntaxErrors(t *testing.T) {
	result, err := Scan(context.Background(), []byte("def broken(:\n    pass\n"))
	require.NoError(t, err)
	assert.True(t, result.SyntaxErrors)
}

func TestScan_InvalidUTF8(t *testing.T) {
	_, err := Scan(context.Background(), []byte{0xff, 0xfe})
	assert.ErrorIs(t, err, ErrInvalidContent)
}

func TestScan_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Scan(ctx, []byte(sample))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrepare_OpensDocstringAboveBody(t *testing.T) {
	content := "def f(x):\n    return x\n"
	target := Target{Kind: parser.UnitFunction, Name: "f", Line: 1, BodyLine: 2, Indent: "    "}

	prepared, pos := Prepare(content, target, `"""`)

	assert.Equal(t, "def f(x):\n    \"\"\"\"\"\"\n    return x\n", prepared)
	assert.Equal(t, 17, pos)
	assert.Equal(t, `"""`, prepared[pos:pos+3])
}

func TestApply_BottomUp(t *testing.T) {
	content := "def a():\n    pass\ndef b():\n    pass"
	edits := []Edit{
		{BodyLine: 2, Indent: "    ", Text: "\"\"\"A.\n\nMore.\n\"\"\""},
		{BodyLine: 4, Indent: "    ", Text: "\"\"\"B.\"\"\""},
	}

	got := Apply(content, edits)

	want := "def a():\n    \"\"\"A.\n\n    More.\n    \"\"\"\n    pass\ndef b():\n    \"\"\"B.\"\"\"\n    pass"
	assert.Equal(t, want, got)
}

func TestApply_NoEdits(t *testing.T) {
	assert.Equal(t, "x = 1\n", Apply("x = 1\n", nil))
}
