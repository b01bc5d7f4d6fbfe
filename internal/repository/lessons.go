// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package repository

import (
	"context"
	"strings"
	"time"

	"github.com/olegiv/academy/internal/model"
	"github.com/olegiv/academy/internal/videourl"
)

// LessonInput holds the fields of a new lesson.
type LessonInput struct {
	Title  string `json:"title"`
	RawURL string `json:"rawUrl"`
	Free   bool   `json:"free"`
}

// LessonChanges lists the lesson fields to change; nil fields are kept.
// A new RawURL re-derives the embed URL.
type LessonChanges struct {
	Title  *string `json:"title"`
	RawURL *string `json:"rawUrl"`
	Free   *bool   `json:"free"`
}

// Lessons manages course lessons.
type Lessons struct {
	coll *Collection[model.Lesson]
	now  func() time.Time
}

// List returns the lessons in course order.
func (r *Lessons) List(ctx context.Context) ([]model.Lesson, error) {
	return r.coll.Load(ctx)
}

// Get returns the lesson with id.
func (r *Lessons) Get(ctx context.Context, id int64) (model.Lesson, error) {
	return getByID(ctx, r.coll, id)
}

// Create validates and appends a lesson.
func (r *Lessons) Create(ctx context.Context, in LessonInput) (model.Lesson, error) {
	title := strings.TrimSpace(in.Title)
	rawURL := strings.TrimSpace(in.RawURL)

	var v validator
	v.required("title", title)
	v.required("rawUrl", rawURL)
	if err := v.err(); err != nil {
		return model.Lesson{}, err
	}

	return appendRecord(ctx, r.coll, r.now(), func(_ []model.Lesson, id int64) model.Lesson {
		return model.Lesson{
			ID:     id,
			Title:  title,
			URL:    videourl.Normalize(rawURL),
			RawURL: rawURL,
			Free:   in.Free,
		}
	})
}

// Update applies changes to the lesson with id.
func (r *Lessons) Update(ctx context.Context, id int64, changes LessonChanges) (model.Lesson, error) {
	var v validator
	if changes.Title != nil {
		v.required("title", *changes.Title)
	}
	if changes.RawURL != nil {
		v.required("rawUrl", *changes.RawURL)
	}
	if err := v.err(); err != nil {
		return model.Lesson{}, err
	}

	return updateByID(ctx, r.coll, id, func(_ []model.Lesson, l *model.Lesson) error {
		if changes.Title != nil {
			l.Title = strings.TrimSpace(*changes.Title)
		}
		if changes.RawURL != nil {
			l.RawURL = strings.TrimSpace(*changes.RawURL)
			l.URL = videourl.Normalize(l.RawURL)
		}
		if changes.Free != nil {
			l.Free = *changes.Free
		}
		return nil
	})
}

// Delete removes the lesson with id.
func (r *Lessons) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.coll, id)
}
