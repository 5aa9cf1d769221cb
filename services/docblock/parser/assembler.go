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

// strategy builds a model when it recognizes the signature. Strategies are
// mutually exclusive; the first one that applies wins.
type strategy func(signature string, hasSignature bool, body string) (Model, bool)

var strategies = []strategy{
	moduleStrategy,
	classStrategy,
	functionStrategy,
}

// Parse builds the attribute model for one docstring.
//
// Description:
//
//	Tries the module, class and function strategies in that order. The
//	module strategy applies when there is no signature, the class strategy
//	when the signature starts a class, the function strategy when it starts
//	a def or async def. Anything else yields an empty model.
//
// Inputs:
//   - signature: The logical signature line. Ignored when hasSignature is false.
//   - hasSignature: False at module scope.
//   - body: Header and body text gathered by the scope package.
//
// Outputs:
//   - Model: Attributes is non-nil and may be empty.
//
// Thread Safety: Pure function; safe for concurrent use.
func Parse(signature string, hasSignature bool, body string) Model {
	for _, s := range strategies {
		if model, ok := s(signature, hasSignature, body); ok {
			return model
		}
	}
	return Model{Attributes: []Attribute{}}
}

func moduleStrategy(_ string, hasSignature bool, body string) (Model, bool) {
	if hasSignature {
		return Model{}, false
	}

	model := Model{Attributes: []Attribute{}}
	if vars, ok := ParseVariables(body); ok {
		model.Attributes = append(model.Attributes, Attribute{Kind: KindVariables, Variables: vars})
	}
	return model, true
}

func classStrategy(signature string, hasSignature bool, body string) (Model, bool) {
	if !hasSignature || !classStartPattern.MatchString(signature) {
		return Model{}, false
	}

	model := Model{Attributes: []Attribute{}}
	if bases, ok := ParseExtends(signature); ok {
		model.appendNames(KindExtends, bases)
	}
	if vars, ok := ParseVariables(body); ok {
		model.Attributes = append(model.Attributes, Attribute{Kind: KindVariables, Variables: vars})
	}
	return model, true
}

func functionStrategy(signature string, hasSignature bool, body string) (Model, bool) {
	if !hasSignature || !functionStartPattern.MatchString(signature) {
		return Model{}, false
	}

	model := Model{Attributes: []Attribute{}}
	model.appendNames(KindDecorators, ParseDecorators(body))

	if args, ok := ParseArguments(signature); ok {
		model.Attributes = append(model.Attributes, Attribute{Kind: KindArguments, Arguments: &args})
	}

	if kind, spec, ok := ParseReturns(signature, body); ok {
		model.Attributes = append(model.Attributes, Attribute{Kind: kind, Return: &spec})
	}

	if raises, ok := ParseRaises(body); ok {
		model.appendNames(KindRaises, raises)
	}
	return model, true
}
