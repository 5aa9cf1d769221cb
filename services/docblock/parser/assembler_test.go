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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ModuleScopeWithVariables(t *testing.T) {
	model := Parse("", false, "import os\nVERSION = '1.0'\nretries = 3\n")

	assert.Equal(t, []AttributeKind{KindVariables}, model.Kinds())
	attr, ok := model.Get(KindVariables)
	require.True(t, ok)
	assert.Equal(t, []Variable{
		{Name: "VERSION", Default: "'1.0'", Type: TypeString},
		{Name: "retries", Default: "3", Type: TypeNumber},
	}, attr.Variables)
}

func TestParse_ModuleScopeWithoutVariables(t *testing.T) {
	model := Parse("", false, "import os\n\ndef main():\n")

	require.NotNil(t, model.Attributes)
	assert.Empty(t, model.Attributes)
}

func TestParse_ModuleStrategyIgnoresSignatureText(t *testing.T) {
	// A signature is only meaningful when hasSignature is set.
	model := Parse("class Foo(Base):", false, "x = 1")
	assert.Equal(t, []AttributeKind{KindVariables}, model.Kinds())
}

func TestParse_Class(t *testing.T) {
	model := Parse("class Repo(Base, object):", true, "table = 'users'\ndef save(self):\n")

	assert.Equal(t, []AttributeKind{KindExtends, KindVariables}, model.Kinds())

	extends, _ := model.Get(KindExtends)
	assert.Equal(t, []string{"Base"}, extends.Names)

	vars, _ := model.Get(KindVariables)
	require.Len(t, vars.Variables, 1)
	assert.Equal(t, "table", vars.Variables[0].Name)
}

func TestParse_ClassOmitsEmptyCategories(t *testing.T) {
	model := Parse("class Marker(object):", true, "def noop(self):\n")
	assert.Empty(t, model.Attributes)

	model = Parse("class Plain:", true, "")
	assert.Empty(t, model.Attributes)
}

func TestParse_FunctionDiscoveryOrder(t *testing.T) {
	signature := "def fetch(self, url, timeout=30) -> Response:"
	body := "@retry(3)\n@classmethod\ndef fetch(self, url,\n        timeout=30) -> Response:\n" +
		"    if not url:\n        raise ValueError\n    return session.get(url)\n"

	model := Parse(signature, true, body)

	assert.Equal(t, []AttributeKind{KindDecorators, KindArguments, KindReturns, KindRaises}, model.Kinds())

	decorators, _ := model.Get(KindDecorators)
	assert.Equal(t, []string{"retry"}, decorators.Names)

	args, _ := model.Get(KindArguments)
	require.NotNil(t, args.Arguments)
	assert.Equal(t, []Parameter{{Name: "url"}}, args.Arguments.Positional)
	assert.Equal(t, []Parameter{{Name: "timeout", Default: "30", Type: TypeNumber}}, args.Arguments.Keyword)

	returns, _ := model.Get(KindReturns)
	require.NotNil(t, returns.Return)
	assert.Equal(t, "Response", returns.Return.Type)

	raises, _ := model.Get(KindRaises)
	assert.Equal(t, []string{"ValueError"}, raises.Names)
}

func TestParse_GeneratorNeverReportsBoth(t *testing.T) {
	model := Parse("def gen(items):", true, "def gen(items):\n    for i in items:\n        yield i\n    return done\n")

	assert.Equal(t, []AttributeKind{KindArguments, KindYields}, model.Kinds())
	_, hasReturns := model.Get(KindReturns)
	assert.False(t, hasReturns)
}

func TestParse_AsyncFunctionWithOnlySelf(t *testing.T) {
	model := Parse("async def close(self):", true, "async def close(self):\n    await self.conn.close()\n")
	assert.Empty(t, model.Attributes)
}

func TestParse_UnrecognizedSignatureYieldsEmptyModel(t *testing.T) {
	model := Parse("with open(path) as f:", true, "x = f.read()\nreturn x\n")

	require.NotNil(t, model.Attributes)
	assert.Empty(t, model.Attributes)
}
