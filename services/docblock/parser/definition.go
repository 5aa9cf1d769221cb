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

import "regexp"

// UnitKind classifies the unit a docstring belongs to.
type UnitKind int

const (
	// UnitUnknown is a signature line that is neither a class nor a function.
	UnitUnknown UnitKind = iota
	UnitModule
	UnitClass
	UnitFunction
)

// String returns the lowercase name of the kind.
func (k UnitKind) String() string {
	switch k {
	case UnitModule:
		return "module"
	case UnitClass:
		return "class"
	case UnitFunction:
		return "function"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON and YAML.
func (k UnitKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a name produced by MarshalText. Unrecognized names
// decode to UnitUnknown.
func (k *UnitKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "module":
		*k = UnitModule
	case "class":
		*k = UnitClass
	case "function":
		*k = UnitFunction
	default:
		*k = UnitUnknown
	}
	return nil
}

var (
	classStartPattern    = regexp.MustCompile(`^\s*class\s`)
	classNamePattern     = regexp.MustCompile(`^\s*class\s+(\w+)`)
	classExtendsPattern  = regexp.MustCompile(`^\s*class\s+\w*\s*\((.*)\)\s*:\s*$`)
	functionStartPattern = regexp.MustCompile(`^\s*(async\s+)?def\s`)
	functionPattern      = regexp.MustCompile(`^\s*(async\s+)?def\s+(\w+)\s*\((.*)\)`)
	returnHintPattern    = regexp.MustCompile(`^\s*(?:async\s+)?def\s+\w+\s*\(.*\)\s*->\s*([\w.]+\[[^:]*\]|[\w.]+)\s*:`)
)

// Definition describes the signature line of the unit being documented.
type Definition struct {
	Kind    UnitKind `json:"kind"`
	Name    string   `json:"name,omitempty"`
	IsAsync bool     `json:"is_async,omitempty"`
}

// ParseDefinition classifies a signature line.
//
// Inputs:
//   - signature: The logical signature line.
//   - ok: False when there is no signature (module scope).
func ParseDefinition(signature string, ok bool) Definition {
	if !ok {
		return Definition{Kind: UnitModule}
	}

	if classStartPattern.MatchString(signature) {
		def := Definition{Kind: UnitClass}
		if m := classNamePattern.FindStringSubmatch(signature); m != nil {
			def.Name = m[1]
		}
		return def
	}

	if functionStartPattern.MatchString(signature) {
		def := Definition{Kind: UnitFunction}
		if m := functionPattern.FindStringSubmatch(signature); m != nil {
			def.IsAsync = m[1] != ""
			def.Name = m[2]
		}
		return def
	}

	return Definition{Kind: UnitUnknown}
}
