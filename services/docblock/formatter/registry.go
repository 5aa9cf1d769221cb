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
	"log/slog"
)

// Registry maps styles to formatters.
//
// Description:
//
//	Built once at startup by NewRegistry and never modified afterwards.
//	Consumers receive it by reference.
//
// Thread Safety: Immutable; safe for concurrent use.
type Registry struct {
	formatters map[Style]Formatter
}

// NewRegistry builds the table of every built-in style.
func NewRegistry() *Registry {
	return &Registry{
		formatters: map[Style]Formatter{
			StyleBase:     &renderer{style: StyleBase, sections: baseSections{}},
			StyleDocblock: &renderer{style: StyleDocblock, sections: docblockSections{}},
			StyleGoogle:   &renderer{style: StyleGoogle, sections: googleSections{}},
			StyleNumpy:    &renderer{style: StyleNumpy, sections: numpySections{}},
			StyleSphinx:   &renderer{style: StyleSphinx, sections: sphinxSections{}},
			StylePEP257:   &renderer{style: StylePEP257, sections: pep257Sections{}},
		},
	}
}

// Get returns the formatter for style, or the base formatter for an
// unregistered value.
func (r *Registry) Get(style Style) Formatter {
	if f, ok := r.formatters[style]; ok {
		return f
	}
	return r.formatters[StyleBase]
}

// Lookup resolves a setting name. Unknown names fall back to the base
// formatter and log a warning.
func (r *Registry) Lookup(name string) Formatter {
	style, ok := ParseStyle(name)
	if !ok {
		slog.Warn("Unknown docstring formatter, using base",
			slog.String("formatter", name))
	}
	return r.Get(style)
}

// Styles returns the registered styles in a stable order.
func (r *Registry) Styles() []Style {
	styles := make([]Style, 0, len(r.formatters))
	for _, s := range allStyles {
		if _, ok := r.formatters[s]; ok {
			styles = append(styles, s)
		}
	}
	return styles
}
