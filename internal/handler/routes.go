// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/academy/internal/kvstore"
	"github.com/olegiv/academy/internal/middleware"
	"github.com/olegiv/academy/internal/repository"
)

// RequestTimeout bounds every request.
const RequestTimeout = 30 * time.Second

// AuthService is everything the routes need from the auth service.
type AuthService interface {
	LoginService
	CredentialService
	middleware.Authenticator
}

// Deps holds what NewRouter wires together.
type Deps struct {
	Store      kvstore.Store
	Repos      *repository.Repositories
	Auth       AuthService
	Sessions   *scs.SessionManager
	Exporter   SnapshotExporter
	Protection *middleware.LoginProtection // nil disables login protection
	CSRFKey    []byte
	IsDev      bool
	Now        func() time.Time
}

// NewRouter builds the HTTP API.
func NewRouter(d Deps) http.Handler {
	if d.Now == nil {
		d.Now = time.Now
	}

	health := NewHealthHandler(d.Store)
	public := NewPublicHandler(d.Repos)
	authH := NewAuthHandler(d.Auth, d.Protection)
	course := NewCourseHandler(d.Repos.Lessons, d.Now)
	admin := NewAdminHandler(d.Repos, d.Auth, d.Exporter)
	admin.now = d.Now

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Timeout(RequestTimeout))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(d.IsDev)))
	r.Use(middleware.Language)

	r.NotFound(WriteNotFound)

	r.Get("/healthz", health.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CSRF(middleware.DefaultCSRFConfig(d.CSRFKey, d.IsDev)))
		r.Use(d.Sessions.LoadAndSave)
		r.Use(middleware.LoadIdentity(d.Auth))

		r.Get("/posts", public.ListPosts)
		r.Get("/posts/{slug}", public.GetPost)
		r.Get("/library", public.Library)

		r.Route("/auth", func(r chi.Router) {
			if d.Protection != nil {
				r.With(d.Protection.Middleware()).Post("/login", authH.Login)
			} else {
				r.Post("/login", authH.Login)
			}
			r.Post("/logout", authH.Logout)
			r.Get("/me", authH.Me)
		})

		r.Route("/course", func(r chi.Router) {
			r.Use(middleware.RequireIdentity)
			r.Use(middleware.CourseGuard(d.Auth))
			r.Get("/lessons", course.ListLessons)
			r.Get("/lessons/{id}", course.GetLesson)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Route("/posts", admin.Posts().Mount)
			r.Route("/books", admin.Books().Mount)
			r.Route("/manuscripts", admin.Manuscripts().Mount)
			r.Route("/lessons", admin.Lessons().Mount)

			r.Get("/users", admin.ListUsers)
			r.Post("/users", admin.CreateUser)
			r.Put("/users/{username}", admin.UpdateUser)
			r.Delete("/users/{username}", admin.DeleteUser)

			r.Put("/credentials", admin.ChangeCredentials)
			r.Get("/events", admin.ListEvents)
			r.Get("/export", admin.Export)
		})
	})

	return r
}
