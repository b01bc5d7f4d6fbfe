// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package videourl

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "youtube watch",
			input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want:  "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			name:  "youtube watch with extra params",
			input: "https://youtube.com/watch?v=abc123&t=42s",
			want:  "https://www.youtube.com/embed/abc123",
		},
		{
			name:  "youtube playlist wins over video",
			input: "https://www.youtube.com/watch?v=abc123&list=PL987",
			want:  "https://www.youtube.com/embed/videoseries?list=PL987",
		},
		{
			name:  "youtube playlist page",
			input: "https://www.youtube.com/playlist?list=PLxyz",
			want:  "https://www.youtube.com/embed/videoseries?list=PLxyz",
		},
		{
			name:  "youtube mobile host",
			input: "https://m.youtube.com/watch?v=mob1",
			want:  "https://www.youtube.com/embed/mob1",
		},
		{
			name:  "youtube embed passthrough",
			input: "https://www.youtube.com/embed/xyz789",
			want:  "https://www.youtube.com/embed/xyz789",
		},
		{
			name:  "youtube embed deeper in path",
			input: "https://www.youtube.com/v/1/embed/id42",
			want:  "https://www.youtube.com/embed/id42",
		},
		{
			name:  "youtube embed without id",
			input: "https://www.youtube.com/embed/",
			want:  "https://www.youtube.com/embed/",
		},
		{
			name:  "youtu.be short link",
			input: "https://youtu.be/short99",
			want:  "https://www.youtube.com/embed/short99",
		},
		{
			name:  "youtu.be with www",
			input: "https://www.youtu.be/short99",
			want:  "https://www.youtube.com/embed/short99",
		},
		{
			name:  "youtu.be root",
			input: "https://youtu.be/",
			want:  "https://youtu.be/",
		},
		{
			name:  "vimeo",
			input: "https://vimeo.com/123456",
			want:  "https://player.vimeo.com/video/123456",
		},
		{
			name:  "vimeo channel trailing slash",
			input: "https://vimeo.com/channels/staffpicks/987654/",
			want:  "https://player.vimeo.com/video/987654",
		},
		{
			name:  "vimeo root",
			input: "https://vimeo.com/",
			want:  "https://vimeo.com/",
		},
		{
			name:  "other host trimmed",
			input: "  https://example.com/video.mp4  ",
			want:  "https://example.com/video.mp4",
		},
		{
			name:  "relative input verbatim",
			input: " youtube.com/watch?v=abc ",
			want:  " youtube.com/watch?v=abc ",
		},
		{
			name:  "garbage verbatim",
			input: "not a url at all",
			want:  "not a url at all",
		},
		{
			name:  "invalid escape verbatim",
			input: "https://exa mple.com/%zz",
			want:  "https://exa mple.com/%zz",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/playlist?list=PLxyz",
		"https://youtu.be/short99",
		"https://vimeo.com/channels/staffpicks/987654",
		"https://www.youtube.com/embed/xyz789",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
		if !IsEmbeddable(once) {
			t.Errorf("Normalize(%q) = %q, expected an embed URL", in, once)
		}
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	in := "https://www.youtube.com/watch?v=abc&list=L1"
	first := Normalize(in)
	for i := 0; i < 10; i++ {
		if got := Normalize(in); got != first {
			t.Fatalf("Normalize returned %q, then %q", first, got)
		}
	}
}
