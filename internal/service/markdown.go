// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// htmlSanitizer strips dangerous markup from rendered post content.
var htmlSanitizer = bluemonday.UGCPolicy()

// RenderMarkdown converts Markdown source to sanitized HTML. Post content
// is stored as Markdown and rendered on public reads.
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}

// SanitizeHTML strips dangerous markup from untrusted HTML.
func SanitizeHTML(input string) string {
	return htmlSanitizer.Sanitize(input)
}
