// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the academy project.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/olegiv/academy/internal/kvstore"
)

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// DiscardLogger creates a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SQLiteStore opens a migrated SQLite store in a temp directory. It is
// closed when the test finishes.
func SQLiteStore(t *testing.T) *kvstore.SQLStore {
	t.Helper()

	s, err := kvstore.OpenSQLite(filepath.Join(t.TempDir(), "academy-test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// MemoryStore returns an empty in-memory store.
func MemoryStore(t *testing.T) *kvstore.MemoryStore {
	t.Helper()
	s := kvstore.NewMemoryStore()
	t.Cleanup(func() { _ = s.Close() })
	return s
}
