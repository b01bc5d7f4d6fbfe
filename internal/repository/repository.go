// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package repository

import (
	"log/slog"
	"time"

	"github.com/olegiv/academy/internal/kvstore"
	"github.com/olegiv/academy/internal/model"
)

// Repositories groups the repositories of every collection.
type Repositories struct {
	Users       *Users
	Posts       *Posts
	Books       *Books
	Manuscripts *Manuscripts
	Lessons     *Lessons
	Events      *Events
}

// Option configures the repositories.
type Option func(*options)

type options struct {
	logger *slog.Logger
	now    func() time.Time
}

// WithLogger sets the logger used for malformed-data warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock sets the time source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates all repositories over store. hasher protects user passwords.
func New(store kvstore.Store, hasher PasswordHasher, opts ...Option) *Repositories {
	o := options{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Repositories{
		Users: &Users{
			coll:   NewCollection[model.User](store, model.KeyUsers, o.logger),
			hasher: hasher,
			logger: o.logger,
		},
		Posts:       &Posts{coll: NewCollection[model.Post](store, model.KeyPosts, o.logger), now: o.now},
		Books:       &Books{coll: NewCollection[model.Book](store, model.KeyBooks, o.logger), now: o.now},
		Manuscripts: &Manuscripts{coll: NewCollection[model.Manuscript](store, model.KeyManuscripts, o.logger), now: o.now},
		Lessons:     &Lessons{coll: NewCollection[model.Lesson](store, model.KeyLessons, o.logger), now: o.now},
		Events:      &Events{coll: NewCollection[model.Event](store, model.KeyEvents, o.logger), now: o.now},
	}
}
