// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package repository implements the per-entity operations over the
// key-value store. Each collection lives under one key as a JSON array that
// is re-read on every call and rewritten in full on every mutation.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/academy/internal/kvstore"
)

// Record is implemented by entities identified by a numeric id.
type Record interface {
	RecordID() int64
}

// Collection reads and writes one JSON-array collection.
type Collection[T any] struct {
	store  kvstore.Store
	key    string
	logger *slog.Logger
}

// NewCollection creates a collection over key.
func NewCollection[T any](store kvstore.Store, key string, logger *slog.Logger) *Collection[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection[T]{store: store, key: key, logger: logger}
}

// Key returns the store key of the collection.
func (c *Collection[T]) Key() string {
	return c.key
}

// Load returns the stored records. A missing key or malformed data yields
// an empty slice; only backend failures are returned as errors.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	data, err := c.store.Get(ctx, c.key)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", c.key, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.WarnContext(ctx, "discarding malformed collection", "key", c.key, "error", err)
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save replaces the stored collection with items.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", c.key, err)
	}
	if err := c.store.Set(ctx, c.key, data); err != nil {
		return fmt.Errorf("saving %s: %w", c.key, err)
	}
	return nil
}

// indexOf returns the position of the record with id, or -1.
func indexOf[T Record](items []T, id int64) int {
	for i := range items {
		if items[i].RecordID() == id {
			return i
		}
	}
	return -1
}

// nextID returns now in Unix milliseconds, bumped past the largest id in
// items so ids stay unique when two records are created in the same
// millisecond.
func nextID[T Record](now time.Time, items []T) int64 {
	id := now.UnixMilli()
	for i := range items {
		if existing := items[i].RecordID(); existing >= id {
			id = existing + 1
		}
	}
	return id
}

// getByID loads the collection and returns the record with id.
func getByID[T Record](ctx context.Context, c *Collection[T], id int64) (T, error) {
	var zero T
	items, err := c.Load(ctx)
	if err != nil {
		return zero, err
	}
	if i := indexOf(items, id); i >= 0 {
		return items[i], nil
	}
	return zero, ErrNotFound
}

// appendRecord builds a record with the next id and appends it.
func appendRecord[T Record](ctx context.Context, c *Collection[T], now time.Time, build func(items []T, id int64) T) (T, error) {
	var zero T
	items, err := c.Load(ctx)
	if err != nil {
		return zero, err
	}
	rec := build(items, nextID(now, items))
	items = append(items, rec)
	if err := c.Save(ctx, items); err != nil {
		return zero, err
	}
	return rec, nil
}

// updateByID applies fn to the record with id and rewrites the collection.
// Nothing is written when the record is missing or fn fails.
func updateByID[T Record](ctx context.Context, c *Collection[T], id int64, fn func(items []T, rec *T) error) (T, error) {
	var zero T
	items, err := c.Load(ctx)
	if err != nil {
		return zero, err
	}
	i := indexOf(items, id)
	if i < 0 {
		return zero, ErrNotFound
	}
	rec := items[i]
	if err := fn(items, &rec); err != nil {
		return zero, err
	}
	items[i] = rec
	if err := c.Save(ctx, items); err != nil {
		return zero, err
	}
	return rec, nil
}

// deleteByID filters out the record with id.
func deleteByID[T Record](ctx context.Context, c *Collection[T], id int64) error {
	items, err := c.Load(ctx)
	if err != nil {
		return err
	}
	kept := items[:0]
	found := false
	for _, it := range items {
		if it.RecordID() == id {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	if !found {
		return ErrNotFound
	}
	return c.Save(ctx, kept)
}
