// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Store keys holding the JSON-encoded collections.
const (
	KeyUsers       = "users"
	KeyPosts       = "posts"
	KeyBooks       = "books"
	KeyManuscripts = "manuscripts"
	KeyLessons     = "lessons"
	KeyEvents      = "events"
)

// SessionKeyIdentity is the session key for the active identity.
const SessionKeyIdentity = "loggedInUser"

// Post is a blog article.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Slug      string    `json:"slug,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecordID implements the repository record constraint.
func (p Post) RecordID() int64 { return p.ID }

// Book is a downloadable book in the library.
type Book struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// RecordID implements the repository record constraint.
func (b Book) RecordID() int64 { return b.ID }

// Manuscript is a link to a manuscript collection.
type Manuscript struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// RecordID implements the repository record constraint.
func (m Manuscript) RecordID() int64 { return m.ID }

// Lesson is a course video. URL is the embeddable form of RawURL.
type Lesson struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	RawURL string `json:"rawUrl"`
	Free   bool   `json:"free"`
}

// RecordID implements the repository record constraint.
func (l Lesson) RecordID() int64 { return l.ID }
