// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/academy/internal/model"
)

func TestEvents_AppendAndList(t *testing.T) {
	repos, _, clock := newTestRepos(t)
	ctx := context.Background()

	first, err := repos.Events.Append(ctx, model.Event{Level: model.EventLevelWarning, Category: model.EventCategoryAuth, Message: "failed login"})
	require.NoError(t, err)
	assert.Equal(t, clock.Now().UnixMilli(), first.ID)
	assert.Equal(t, clock.Now(), first.CreatedAt)

	second, err := repos.Events.Append(ctx, model.Event{Level: model.EventLevelError, Message: "boom"})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	events, err := repos.Events.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "boom", events[0].Message)

	events, err = repos.Events.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, second.ID, events[0].ID)
}

func TestEvents_Cap(t *testing.T) {
	repos, _, _ := newTestRepos(t)
	ctx := context.Background()

	for i := 0; i < MaxEvents+5; i++ {
		_, err := repos.Events.Append(ctx, model.Event{Message: fmt.Sprintf("event %d", i)})
		require.NoError(t, err)
	}

	events, err := repos.Events.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, MaxEvents)
	assert.Equal(t, fmt.Sprintf("event %d", MaxEvents+4), events[0].Message)
	assert.Equal(t, "event 5", events[len(events)-1].Message)
}
