// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package repository

import (
	"context"
	"slices"
	"time"

	"github.com/olegiv/academy/internal/model"
)

// MaxEvents is the number of audit events kept; older ones are dropped.
const MaxEvents = 500

// Events manages the audit log.
type Events struct {
	coll *Collection[model.Event]
	now  func() time.Time
}

// Append records ev, assigning its id and timestamp when unset.
func (r *Events) Append(ctx context.Context, ev model.Event) (model.Event, error) {
	items, err := r.coll.Load(ctx)
	if err != nil {
		return model.Event{}, err
	}

	now := r.now()
	ev.ID = nextID(now, items)
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = now.UTC()
	}

	items = append(items, ev)
	if len(items) > MaxEvents {
		items = items[len(items)-MaxEvents:]
	}
	if err := r.coll.Save(ctx, items); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

// List returns up to limit events, newest first. A limit <= 0 returns all.
func (r *Events) List(ctx context.Context, limit int) ([]model.Event, error) {
	items, err := r.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	slices.Reverse(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
