// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package videourl converts lesson video links into URLs that can be loaded
// directly inside an embedded player.
package videourl

import (
	"net/url"
	"strings"
)

// Embed URL prefixes for supported providers.
const (
	YouTubeEmbedPrefix    = "https://www.youtube.com/embed/"
	YouTubePlaylistPrefix = "https://www.youtube.com/embed/videoseries?list="
	VimeoPlayerPrefix     = "https://player.vimeo.com/video/"
)

// Normalize returns the embeddable player URL for a YouTube or Vimeo link.
// Links from other hosts are returned trimmed but otherwise unchanged, and
// input that is not an absolute URL is returned verbatim.
func Normalize(input string) string {
	raw := strings.TrimSpace(input)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return input
	}

	host := strings.Replace(strings.ToLower(u.Hostname()), "www.", "", 1)

	if strings.Contains(host, "youtube.com") {
		query := u.Query()
		if list := query.Get("list"); list != "" {
			return YouTubePlaylistPrefix + list
		}
		if v := query.Get("v"); v != "" {
			return YouTubeEmbedPrefix + v
		}
		parts := pathSegments(u)
		for i, part := range parts {
			if part == "embed" {
				if i+1 < len(parts) {
					return YouTubeEmbedPrefix + parts[i+1]
				}
				break
			}
		}
	}

	if host == "youtu.be" {
		if id := strings.TrimPrefix(u.EscapedPath(), "/"); id != "" {
			return YouTubeEmbedPrefix + id
		}
	}

	if strings.Contains(host, "vimeo.com") {
		if parts := pathSegments(u); len(parts) > 0 {
			return VimeoPlayerPrefix + parts[len(parts)-1]
		}
	}

	return raw
}

// IsEmbeddable reports whether s is already in a supported embed form.
func IsEmbeddable(s string) bool {
	return strings.HasPrefix(s, YouTubeEmbedPrefix) || strings.HasPrefix(s, VimeoPlayerPrefix)
}

// pathSegments returns the non-empty segments of the escaped URL path.
func pathSegments(u *url.URL) []string {
	var out []string
	for _, s := range strings.Split(u.EscapedPath(), "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
