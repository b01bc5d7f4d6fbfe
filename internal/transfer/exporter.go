// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/academy/internal/kvstore"
	"github.com/olegiv/academy/internal/model"
)

// Exporter writes snapshots of the store.
type Exporter struct {
	store  kvstore.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewExporter creates a new Exporter instance.
func NewExporter(store kvstore.Store, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{store: store, logger: logger, now: time.Now}
}

// Export reads every collection into a snapshot. Missing collections are
// left out; unreadable stored data is skipped with a warning.
func (e *Exporter) Export(ctx context.Context) (*ExportData, error) {
	data := &ExportData{
		Version:     ExportVersion,
		ID:          uuid.NewString(),
		ExportedAt:  e.now().UTC(),
		Collections: make(map[string]json.RawMessage, len(Collections)),
	}

	for _, key := range Collections {
		raw, err := e.store.Get(ctx, key)
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("exporting %s: %w", key, err)
		}
		if !json.Valid(raw) {
			e.logger.WarnContext(ctx, "skipping malformed collection in export", "category", model.EventCategoryStore, "key", key)
			continue
		}
		data.Collections[key] = json.RawMessage(raw)
	}

	return data, nil
}

// ExportToWriter writes an indented snapshot to w.
func (e *Exporter) ExportToWriter(ctx context.Context, w io.Writer) (*ExportData, error) {
	data, err := e.Export(ctx)
	if err != nil {
		return nil, err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return data, nil
}

// ExportToFile writes a snapshot to path. The file is written next to
// its destination and renamed into place.
func (e *Exporter) ExportToFile(ctx context.Context, path string) (*ExportData, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".export-*.json")
	if err != nil {
		return nil, fmt.Errorf("creating export file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	data, err := e.ExportToWriter(ctx, tmp)
	if err != nil {
		_ = tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing export file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("moving export file: %w", err)
	}

	e.logger.InfoContext(ctx, "store exported", "category", model.EventCategoryStore, "path", path, "id", data.ID)
	return data, nil
}
