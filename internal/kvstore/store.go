// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package kvstore provides the persistent key-value store that holds the
// academy collections. Each key maps to an opaque byte value (a JSON array
// in practice). Writes replace the whole value; the last write wins.
package kvstore

import (
	"context"
)

// Error represents a store error.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrKeyNotFound is returned when a key has never been written or was deleted.
	ErrKeyNotFound Error = "key not found"

	// ErrClosed is returned when operating on a closed store.
	ErrClosed Error = "store closed"
)

// Store is the contract every backend implements.
type Store interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all stored keys in ascending order.
	Keys(ctx context.Context) ([]string, error)

	// Close releases resources held by the store.
	Close() error
}
