// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"path/filepath"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "simple", input: "snapshot.json", want: "snapshot.json"},
		{name: "traversal", input: "../../../etc/passwd", want: "passwd"},
		{name: "nested", input: "backups/2026/academy.json", want: "academy.json"},
		{name: "dot", input: ".", wantErr: true},
		{name: "double dot", input: "..", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SanitizeFilename() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("SanitizeFilename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSafeJoinPath(t *testing.T) {
	base := t.TempDir()

	got, err := SafeJoinPath(base, "academy-1.json")
	if err != nil {
		t.Fatalf("SafeJoinPath() error = %v", err)
	}
	if got != filepath.Join(base, "academy-1.json") {
		t.Errorf("SafeJoinPath() = %q", got)
	}

	if _, err := SafeJoinPath(base, "..", "outside.json"); err == nil {
		t.Error("SafeJoinPath() expected traversal error")
	}
}

func TestValidatePathWithinBase(t *testing.T) {
	base := t.TempDir()

	if err := ValidatePathWithinBase(base, base); err != nil {
		t.Errorf("base itself rejected: %v", err)
	}
	if err := ValidatePathWithinBase(base, filepath.Join(base, "a", "b")); err != nil {
		t.Errorf("nested path rejected: %v", err)
	}
	if err := ValidatePathWithinBase(base, base+"-other"); err == nil {
		t.Error("sibling directory with common prefix accepted")
	}
}
