// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/academy/internal/access"
	"github.com/olegiv/academy/internal/i18n"
	"github.com/olegiv/academy/internal/middleware"
	"github.com/olegiv/academy/internal/model"
	"github.com/olegiv/academy/internal/repository"
)

// UserView is a subscriber as shown to the admin. Passwords are never sent.
type UserView struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Expiry   string `json:"expiry,omitempty"`
	Expired  bool   `json:"expired"`
}

func (h *AdminHandler) userView(u model.User) UserView {
	return UserView{
		Username: u.Username,
		Role:     u.Role,
		Expiry:   u.Expiry,
		Expired:  access.SubscriptionExpired(&u, h.now()),
	}
}

// ListUsers handles GET /api/admin/users. Admin accounts are not listed.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.repos.Users.ListMembers(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "listing users")
		return
	}

	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, h.userView(u))
	}
	WriteSuccess(w, views)
}

// CreateUser handles POST /api/admin/users.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in repository.UserInput
	if !decodeJSON(w, r, &in) {
		return
	}

	user, err := h.repos.Users.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, "creating user")
		return
	}

	h.auditUser(r, "user created", user)
	WriteCreated(w, h.userView(user), i18n.T(middleware.GetLanguage(r), "msg.user_created"))
}

// UpdateUser handles PUT /api/admin/users/{username}.
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	username, ok := h.memberParam(w, r)
	if !ok {
		return
	}
	var changes repository.UserChanges
	if !decodeJSON(w, r, &changes) {
		return
	}

	user, err := h.repos.Users.Update(r.Context(), username, changes)
	if err != nil {
		writeServiceError(w, r, err, "updating user")
		return
	}

	h.auditUser(r, "user updated", user)
	WriteMessage(w, h.userView(user), i18n.T(middleware.GetLanguage(r), "msg.user_updated"))
}

// DeleteUser handles DELETE /api/admin/users/{username}.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	username, ok := h.memberParam(w, r)
	if !ok {
		return
	}

	if err := h.repos.Users.Delete(r.Context(), username); err != nil {
		writeServiceError(w, r, err, "deleting user")
		return
	}

	slog.InfoContext(r.Context(), "user deleted",
		"category", model.EventCategoryUser,
		"username", username,
		"by", adminName(r),
	)
	lang := middleware.GetLanguage(r)
	WriteMessage(w, nil, i18n.T(lang, "msg.deleted", i18n.T(lang, "entity.user")))
}

// memberParam reads {username} and refuses admin accounts, which are
// managed through the credentials route only.
func (h *AdminHandler) memberParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	// chi matches against the escaped path when one is present.
	username, err := url.PathUnescape(chi.URLParam(r, "username"))
	username = strings.TrimSpace(username)
	if err != nil || username == "" {
		WriteNotFound(w, r)
		return "", false
	}

	user, err := h.repos.Users.Get(r.Context(), username)
	if errors.Is(err, repository.ErrNotFound) {
		WriteNotFound(w, r)
		return "", false
	}
	if err != nil {
		writeServiceError(w, r, err, "loading user")
		return "", false
	}
	if user.IsAdmin() {
		writeLocalizedError(w, r, http.StatusForbidden, "forbidden", "error.forbidden")
		return "", false
	}
	return username, true
}

func (h *AdminHandler) auditUser(r *http.Request, msg string, u model.User) {
	slog.InfoContext(r.Context(), msg,
		"category", model.EventCategoryUser,
		"username", u.Username,
		"expiry", u.Expiry,
		"by", adminName(r),
	)
}
