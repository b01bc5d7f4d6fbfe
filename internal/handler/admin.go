// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/academy/internal/i18n"
	"github.com/olegiv/academy/internal/middleware"
	"github.com/olegiv/academy/internal/model"
	"github.com/olegiv/academy/internal/repository"
	"github.com/olegiv/academy/internal/transfer"
)

// recordRepo is the CRUD surface shared by posts, books, manuscripts and lessons.
type recordRepo[T any, In any, Ch any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, in In) (T, error)
	Update(ctx context.Context, id int64, changes Ch) (T, error)
	Delete(ctx context.Context, id int64) error
}

// resource serves the admin routes of one record collection.
type resource[T repository.Record, In any, Ch any] struct {
	repo       recordRepo[T, In, Ch]
	name       string // Used in log messages, e.g. "post"
	entityKey  string // i18n key of the entity name
	createdKey string // i18n key of the created message
}

// Mount registers list, create, update and delete under the current route.
func (res resource[T, In, Ch]) Mount(r chi.Router) {
	r.Get("/", res.list)
	r.Post("/", res.create)
	r.Put("/{id}", res.update)
	r.Delete("/{id}", res.remove)
}

func (res resource[T, In, Ch]) list(w http.ResponseWriter, r *http.Request) {
	items, err := res.repo.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "listing "+res.name+"s")
		return
	}
	WriteSuccess(w, items)
}

func (res resource[T, In, Ch]) create(w http.ResponseWriter, r *http.Request) {
	var in In
	if !decodeJSON(w, r, &in) {
		return
	}

	rec, err := res.repo.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, "creating "+res.name)
		return
	}

	auditContent(r, res.name+" created", rec.RecordID())
	WriteCreated(w, rec, i18n.T(middleware.GetLanguage(r), res.createdKey))
}

func (res resource[T, In, Ch]) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var changes Ch
	if !decodeJSON(w, r, &changes) {
		return
	}

	rec, err := res.repo.Update(r.Context(), id, changes)
	if err != nil {
		writeServiceError(w, r, err, "updating "+res.name)
		return
	}

	auditContent(r, res.name+" updated", id)
	lang := middleware.GetLanguage(r)
	WriteMessage(w, rec, i18n.T(lang, "msg.updated", i18n.T(lang, res.entityKey)))
}

func (res resource[T, In, Ch]) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := res.repo.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "deleting "+res.name)
		return
	}

	auditContent(r, res.name+" deleted", id)
	lang := middleware.GetLanguage(r)
	WriteMessage(w, nil, i18n.T(lang, "msg.deleted", i18n.T(lang, res.entityKey)))
}

// auditContent records an admin content change in the event log.
func auditContent(r *http.Request, msg string, id int64) {
	slog.InfoContext(r.Context(), msg,
		"category", model.EventCategoryContent,
		"id", id,
		"by", adminName(r),
	)
}

func adminName(r *http.Request) string {
	if id := middleware.GetIdentity(r); id != nil {
		return id.Username
	}
	return ""
}

// CredentialService changes the admin account.
type CredentialService interface {
	ChangeAdminCredentials(ctx context.Context, username, password string) (model.Identity, error)
}

// SnapshotExporter writes a snapshot of the store.
type SnapshotExporter interface {
	ExportToWriter(ctx context.Context, w io.Writer) (*transfer.ExportData, error)
}

// AdminHandler serves the admin routes that are not plain record CRUD.
type AdminHandler struct {
	repos       *repository.Repositories
	credentials CredentialService
	exporter    SnapshotExporter
	now         func() time.Time
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(repos *repository.Repositories, credentials CredentialService, exporter SnapshotExporter) *AdminHandler {
	return &AdminHandler{
		repos:       repos,
		credentials: credentials,
		exporter:    exporter,
		now:         time.Now,
	}
}

// Posts returns the admin post routes.
func (h *AdminHandler) Posts() resource[model.Post, repository.PostInput, repository.PostChanges] {
	return resource[model.Post, repository.PostInput, repository.PostChanges]{
		repo: h.repos.Posts, name: "post", entityKey: "entity.post", createdKey: "msg.post_created",
	}
}

// Books returns the admin book routes.
func (h *AdminHandler) Books() resource[model.Book, repository.LinkInput, repository.LinkChanges] {
	return resource[model.Book, repository.LinkInput, repository.LinkChanges]{
		repo: h.repos.Books, name: "book", entityKey: "entity.book", createdKey: "msg.book_created",
	}
}

// Manuscripts returns the admin manuscript routes.
func (h *AdminHandler) Manuscripts() resource[model.Manuscript, repository.LinkInput, repository.LinkChanges] {
	return resource[model.Manuscript, repository.LinkInput, repository.LinkChanges]{
		repo: h.repos.Manuscripts, name: "manuscript", entityKey: "entity.manuscript", createdKey: "msg.manuscript_created",
	}
}

// Lessons returns the admin lesson routes.
func (h *AdminHandler) Lessons() resource[model.Lesson, repository.LessonInput, repository.LessonChanges] {
	return resource[model.Lesson, repository.LessonInput, repository.LessonChanges]{
		repo: h.repos.Lessons, name: "lesson", entityKey: "entity.lesson", createdKey: "msg.lesson_created",
	}
}

// CredentialsRequest is the body of PUT /api/admin/credentials.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChangeCredentials handles PUT /api/admin/credentials. The session
// switches to the new admin identity.
func (h *AdminHandler) ChangeCredentials(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	previous := adminName(r)
	id, err := h.credentials.ChangeAdminCredentials(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err, "changing admin credentials")
		return
	}

	slog.InfoContext(r.Context(), "admin credentials updated",
		"category", model.EventCategoryUser,
		"username", id.Username,
		"previous", previous,
	)
	WriteMessage(w, id, i18n.T(middleware.GetLanguage(r), "msg.admin_updated"))
}

// defaultEventLimit is the number of events listed without ?limit.
const defaultEventLimit = 100

// ListEvents handles GET /api/admin/events?limit=N, newest first.
func (h *AdminHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			WriteBadRequest(w, r)
			return
		}
		limit = min(n, repository.MaxEvents)
	}

	events, err := h.repos.Events.List(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err, "listing events")
		return
	}
	WriteSuccess(w, events)
}

// Export handles GET /api/admin/export as a file download.
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	data, err := h.exporter.ExportToWriter(r.Context(), &buf)
	if err != nil {
		writeServiceError(w, r, err, "exporting store")
		return
	}

	slog.InfoContext(r.Context(), "store export downloaded",
		"category", model.EventCategoryStore,
		"id", data.ID,
		"by", adminName(r),
	)

	filename := "academy-export-" + h.now().UTC().Format("2006-01-02") + ".json"
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
