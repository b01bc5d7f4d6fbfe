// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/academy/internal/auth"
	"github.com/olegiv/academy/internal/i18n"
	"github.com/olegiv/academy/internal/model"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for identity data.
const (
	ContextKeyIdentity ContextKey = "identity"
	ContextKeyUser     ContextKey = "user"
)

// Authenticator resolves the session of a request.
type Authenticator interface {
	CurrentIdentity(ctx context.Context) (model.Identity, error)
	GuardCourse(ctx context.Context) (model.User, error)
}

// LoadIdentity puts the validated session identity into the request
// context. Requests without a session pass through unchanged.
func LoadIdentity(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := a.CurrentIdentity(r.Context())
			switch {
			case err == nil:
				ctx := context.WithValue(r.Context(), ContextKeyIdentity, id)
				next.ServeHTTP(w, r.WithContext(ctx))
			case errors.Is(err, auth.ErrNotAuthenticated):
				next.ServeHTTP(w, r)
			default:
				slog.ErrorContext(r.Context(), "loading session identity", "error", err, "path", r.URL.Path)
				writeLocalizedError(w, r, http.StatusInternalServerError, "internal", "error.internal")
			}
		})
	}
}

// GetIdentity returns the identity loaded by LoadIdentity, or nil.
func GetIdentity(r *http.Request) *model.Identity {
	id, ok := r.Context().Value(ContextKeyIdentity).(model.Identity)
	if !ok {
		return nil
	}
	return &id
}

// GetUser returns the user loaded by CourseGuard, or nil.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}

// RequireIdentity rejects requests without a session identity.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetIdentity(r) == nil {
			writeLocalizedError(w, r, http.StatusUnauthorized, "not_authenticated", "error.not_authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose identity is not an admin.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := GetIdentity(r)
		if id == nil {
			writeLocalizedError(w, r, http.StatusUnauthorized, "not_authenticated", "error.not_authenticated")
			return
		}
		if id.Role != model.RoleAdmin {
			slog.WarnContext(r.Context(), "access denied",
				"category", model.EventCategoryAuth,
				"status", http.StatusForbidden,
				"method", r.Method,
				"path", r.URL.Path,
				"username", id.Username,
				"role", id.Role,
			)
			writeLocalizedError(w, r, http.StatusForbidden, "forbidden", "error.forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CourseGuard admits members to course routes. A subscriber whose expiry
// has passed is logged out and refused; the backing user record is put
// into the context for the handlers.
func CourseGuard(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.GuardCourse(r.Context())
			switch {
			case err == nil:
				ctx := context.WithValue(r.Context(), ContextKeyUser, user)
				next.ServeHTTP(w, r.WithContext(ctx))
			case errors.Is(err, auth.ErrNotAuthenticated):
				writeLocalizedError(w, r, http.StatusUnauthorized, "not_authenticated", "error.not_authenticated")
			case errors.Is(err, auth.ErrSubscriptionExpired):
				writeLocalizedError(w, r, http.StatusForbidden, "subscription_ended", "error.subscription_ended")
			default:
				slog.ErrorContext(r.Context(), "guarding course", "error", err)
				writeLocalizedError(w, r, http.StatusInternalServerError, "internal", "error.internal")
			}
		})
	}
}

func writeLocalizedError(w http.ResponseWriter, r *http.Request, status int, code, key string) {
	WriteAPIError(w, status, code, i18n.T(GetLanguage(r), key), nil)
}
