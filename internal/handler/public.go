// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/academy/internal/markup"
	"github.com/olegiv/academy/internal/model"
	"github.com/olegiv/academy/internal/repository"
)

// PublicHandler serves the blog and library to everyone.
type PublicHandler struct {
	posts       *repository.Posts
	books       *repository.Books
	manuscripts *repository.Manuscripts
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(repos *repository.Repositories) *PublicHandler {
	return &PublicHandler{
		posts:       repos.Posts,
		books:       repos.Books,
		manuscripts: repos.Manuscripts,
	}
}

// PostView is a post with its rendered content.
type PostView struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"contentHtml"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newPostView(r *http.Request, p model.Post) PostView {
	html, err := markup.Render(p.Content)
	if err != nil {
		slog.WarnContext(r.Context(), "rendering post content", "id", p.ID, "error", err)
	}
	return PostView{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Content:     p.Content,
		ContentHTML: html,
		CreatedAt:   p.CreatedAt,
	}
}

// ListPosts handles GET /api/posts, newest first.
func (h *PublicHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "listing posts")
		return
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, newPostView(r, p))
	}
	WriteSuccess(w, views)
}

// GetPost handles GET /api/posts/{slug}.
func (h *PublicHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, r, err, "loading post")
		return
	}
	WriteSuccess(w, newPostView(r, post))
}

// Library is the public book and manuscript listing.
type Library struct {
	Books       []model.Book       `json:"books"`
	Manuscripts []model.Manuscript `json:"manuscripts"`
}

// Library handles GET /api/library.
func (h *PublicHandler) Library(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.Catalogue(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "listing books")
		return
	}
	manuscripts, err := h.manuscripts.Catalogue(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "listing manuscripts")
		return
	}
	WriteSuccess(w, Library{Books: books, Manuscripts: manuscripts})
}
