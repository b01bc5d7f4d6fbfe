// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package repository

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/academy/internal/model"
	"github.com/olegiv/academy/internal/util"
)

// PostInput holds the fields of a new post.
type PostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PostChanges lists the post fields to change; nil fields are kept.
type PostChanges struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// Posts manages blog posts.
type Posts struct {
	coll *Collection[model.Post]
	now  func() time.Time
}

// List returns all posts, newest first.
func (r *Posts) List(ctx context.Context) ([]model.Post, error) {
	posts, err := r.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(posts, func(a, b model.Post) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return posts, nil
}

// Get returns the post with id.
func (r *Posts) Get(ctx context.Context, id int64) (model.Post, error) {
	return getByID(ctx, r.coll, id)
}

// GetBySlug returns the post with slug.
func (r *Posts) GetBySlug(ctx context.Context, slug string) (model.Post, error) {
	posts, err := r.coll.Load(ctx)
	if err != nil {
		return model.Post{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return model.Post{}, ErrNotFound
}

// Create validates and appends a post.
func (r *Posts) Create(ctx context.Context, in PostInput) (model.Post, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)

	var v validator
	v.required("title", title)
	v.required("content", content)
	if err := v.err(); err != nil {
		return model.Post{}, err
	}

	now := r.now()
	return appendRecord(ctx, r.coll, now, func(posts []model.Post, id int64) model.Post {
		return model.Post{
			ID:        id,
			Title:     title,
			Content:   content,
			Slug:      PostSlug(posts, title, id),
			CreatedAt: now.UTC(),
		}
	})
}

// Update applies changes to the post with id. A new title refreshes the slug.
func (r *Posts) Update(ctx context.Context, id int64, changes PostChanges) (model.Post, error) {
	var v validator
	if changes.Title != nil {
		v.required("title", *changes.Title)
	}
	if changes.Content != nil {
		v.required("content", *changes.Content)
	}
	if err := v.err(); err != nil {
		return model.Post{}, err
	}

	return updateByID(ctx, r.coll, id, func(posts []model.Post, p *model.Post) error {
		if changes.Title != nil {
			p.Title = strings.TrimSpace(*changes.Title)
			p.Slug = PostSlug(posts, p.Title, p.ID)
		}
		if changes.Content != nil {
			p.Content = strings.TrimSpace(*changes.Content)
		}
		return nil
	})
}

// Delete removes the post with id.
func (r *Posts) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.coll, id)
}

// PostSlug derives a slug from title that no other post in posts uses.
// Posts without a usable title get "post-<id>".
func PostSlug(posts []model.Post, title string, id int64) string {
	base := util.Slugify(title)
	if base == "" {
		base = "post-" + strconv.FormatInt(id, 10)
	}
	return util.UniqueSlug(base, func(s string) bool {
		for _, p := range posts {
			if p.ID != id && p.Slug == s {
				return true
			}
		}
		return false
	})
}
