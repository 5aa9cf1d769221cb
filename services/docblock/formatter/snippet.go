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
	"regexp"
	"strings"
)

var (
	snippetEscaper   = strings.NewReplacer("$", `\$`, "{", `\{`, "}", `\}`)
	snippetUnescaper = strings.NewReplacer(`\$`, "$", `\{`, "{", `\}`, "}")
	fieldPattern     = regexp.MustCompile(`\$\{\d+:(\[[^\]]*\])\}`)
)

// Escape makes user text safe to embed in a snippet: "$", "{" and "}" are
// backslash-escaped so they do not start a field.
func Escape(text string) string {
	return snippetEscaper.Replace(text)
}

// Plain converts a snippet to literal text. Each field is replaced by its
// bracketed label and escapes are removed.
//
// Example:
//
//	formatter.Plain(`${1:[summary]} costs \$5`) // "[summary] costs $5"
func Plain(snippet string) string {
	return snippetUnescaper.Replace(fieldPattern.ReplaceAllString(snippet, "$1"))
}
