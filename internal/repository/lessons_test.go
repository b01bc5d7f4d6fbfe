// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLessons_CreateDerivesEmbedURL(t *testing.T) {
	repos, _, _ := newTestRepos(t)
	ctx := context.Background()

	l, err := repos.Lessons.Create(ctx, LessonInput{Title: "Intro", RawURL: " https://youtu.be/abc123 ", Free: true})
	require.NoError(t, err)
	assert.Equal(t, "https://youtu.be/abc123", l.RawURL)
	assert.Equal(t, "https://www.youtube.com/embed/abc123", l.URL)
	assert.True(t, l.Free)

	lessons, err := repos.Lessons.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Intro"}, []string{lessons[0].Title})
}

func TestLessons_Validation(t *testing.T) {
	repos, _, _ := newTestRepos(t)

	_, err := repos.Lessons.Create(context.Background(), LessonInput{Title: "x"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"rawUrl": MsgRequired}, verr.Fields)
}

func TestLessons_Update(t *testing.T) {
	repos, _, clock := newTestRepos(t)
	ctx := context.Background()

	l, err := repos.Lessons.Create(ctx, LessonInput{Title: "Intro", RawURL: "https://vimeo.com/1"})
	require.NoError(t, err)
	clock.Advance(time.Second)
	keep, err := repos.Lessons.Create(ctx, LessonInput{Title: "Keep", RawURL: "https://vimeo.com/2"})
	require.NoError(t, err)

	updated, err := repos.Lessons.Update(ctx, l.ID, LessonChanges{Free: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Free)
	assert.Equal(t, "https://player.vimeo.com/video/1", updated.URL)

	updated, err = repos.Lessons.Update(ctx, l.ID, LessonChanges{RawURL: strPtr("https://www.youtube.com/watch?v=zz")})
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/watch?v=zz", updated.RawURL)
	assert.Equal(t, "https://www.youtube.com/embed/zz", updated.URL)
	assert.Equal(t, "Intro", updated.Title)
	assert.True(t, updated.Free)

	got, err := repos.Lessons.Get(ctx, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, keep, got)

	_, err = repos.Lessons.Update(ctx, 1, LessonChanges{Free: boolPtr(false)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLessons_Delete(t *testing.T) {
	repos, _, _ := newTestRepos(t)
	ctx := context.Background()

	l, err := repos.Lessons.Create(ctx, LessonInput{Title: "Intro", RawURL: "https://example.com/v.mp4"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/v.mp4", l.URL)

	require.NoError(t, repos.Lessons.Delete(ctx, l.ID))
	lessons, err := repos.Lessons.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, lessons)
}
