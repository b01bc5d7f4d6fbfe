// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package kvstore

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
)

// MemoryStore keeps values in process memory. Contents are lost on restart;
// it backs tests and the "memory" driver.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed atomic.Bool
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get retrieves a copy of the value stored under key.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return slices.Clone(val), nil
}

// Set stores a copy of value under key.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}

	s.mu.Lock()
	s.data[key] = slices.Clone(value)
	s.mu.Unlock()
	return nil
}

// Delete removes key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	if s.closed.Load() {
		return ErrClosed
	}

	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

// Keys returns the stored keys in ascending order.
func (s *MemoryStore) Keys(_ context.Context) ([]string, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	s.mu.RLock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	slices.Sort(keys)
	return keys, nil
}

// Close marks the store closed and drops its contents.
func (s *MemoryStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()
	return nil
}
