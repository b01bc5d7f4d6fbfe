// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package markup renders post content to sanitized HTML.
package markup

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	// sanitizer strips anything that is not safe user-generated markup.
	sanitizer = bluemonday.UGCPolicy()
)

// Render converts markdown source to HTML and sanitizes the result.
// Raw HTML in the source is escaped by the renderer and removed by the sanitizer.
func Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return sanitizer.Sanitize(buf.String()), nil
}

// Sanitize cleans an HTML fragment.
func Sanitize(fragment string) string {
	return sanitizer.Sanitize(fragment)
}
