// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer provides import/export of the academy collections.
package transfer

import (
	"encoding/json"
	"time"

	"github.com/olegiv/academy/internal/model"
)

// ExportVersion is the current version of the export format.
const ExportVersion = "1.0"

// dumpVersion marks data parsed from a browser localStorage dump.
const dumpVersion = "localStorage"

// Collections lists the exported store keys in export order.
var Collections = []string{
	model.KeyUsers,
	model.KeyPosts,
	model.KeyBooks,
	model.KeyManuscripts,
	model.KeyLessons,
	model.KeyEvents,
}

// ExportData is a snapshot of every collection. Values are the stored
// JSON arrays. User passwords are included as stored so a restore keeps
// working logins.
type ExportData struct {
	Version     string                     `json:"version"`
	ID          string                     `json:"id"`
	ExportedAt  time.Time                  `json:"exported_at"`
	Collections map[string]json.RawMessage `json:"collections"`
}

// ImportOptions controls how data is merged into the store.
type ImportOptions struct {
	// Replace overwrites each imported collection instead of merging.
	Replace bool
	// DryRun validates and counts without writing.
	DryRun bool
}

// ImportResult summarizes an import.
type ImportResult struct {
	DryRun   bool           `json:"dry_run"`
	Imported map[string]int `json:"imported"`
	Skipped  map[string]int `json:"skipped"`
	Ignored  []string       `json:"ignored,omitempty"`
	Errors   []ImportError  `json:"errors,omitempty"`
}

// ImportError describes a collection that could not be imported.
type ImportError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

func newImportResult(dryRun bool) *ImportResult {
	return &ImportResult{
		DryRun:   dryRun,
		Imported: make(map[string]int),
		Skipped:  make(map[string]int),
	}
}

// TotalImported returns the number of records imported across collections.
func (r *ImportResult) TotalImported() int {
	total := 0
	for _, n := range r.Imported {
		total += n
	}
	return total
}

func (r *ImportResult) addError(key string, err error) {
	r.Errors = append(r.Errors, ImportError{Key: key, Message: err.Error()})
}
