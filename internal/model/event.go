// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth    = "auth"
	EventCategoryUser    = "user"
	EventCategoryContent = "content"
	EventCategoryStore   = "store"
	EventCategorySystem  = "system"
)

// Event represents an audit log entry.
type Event struct {
	ID        int64             `json:"id"`
	Level     string            `json:"level"`
	Category  string            `json:"category"`
	Message   string            `json:"message"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// RecordID implements the repository record constraint.
func (e Event) RecordID() int64 { return e.ID }
