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
)

func TestInferFromValue(t *testing.T) {
	tests := []struct {
		literal string
		want    string
	}{
		{"", ""},
		{"1", TypeNumber},
		{"-3.5", TypeNumber},
		{"1e10", TypeNumber},
		{`"hello"`, TypeString},
		{"'x'", TypeString},
		{"[1, 2]", TypeList},
		{"{}", TypeDict},
		{"(1,)", TypeTuple},
		{"True", TypeBool},
		{"False", TypeBool},
		{"u'text'", TypeUnicodeString},
		{`U"text"`, TypeUnicodeString},
		{"lambda x: x", TypeFunction},
		{"None", ""},
		{"some_call()", ""},
	}

	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			assert.Equal(t, tt.want, InferFromValue(tt.literal))
		})
	}
}

func TestInferFromName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"isReady", TypeBool},
		{"has_items", TypeBool},
		{"is_", TypeBool},
		{"island", ""},
		{"hash", ""},
		{"cb", TypeFunction},
		{"callback", TypeFunction},
		{"done", TypeFunction},
		{"next", TypeFunction},
		{"fn", TypeFunction},
		{"fnord", ""},
		{"value", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferFromName(tt.name))
		})
	}
}

func TestResolveType_Precedence(t *testing.T) {
	assert.Equal(t, "int", ResolveType("int", "'s'", "isOk"), "hint wins")
	assert.Equal(t, TypeString, ResolveType("", "'s'", "isOk"), "value beats name")
	assert.Equal(t, TypeBool, ResolveType("", "", "isOk"), "name as last resort")
	assert.Equal(t, TypeBool, ResolveType("", "None", "isOk"), "unknown value falls through")
	assert.Equal(t, "", ResolveType("", "", "plain"))
}
