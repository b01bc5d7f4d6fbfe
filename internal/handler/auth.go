// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/academy/internal/auth"
	"github.com/olegiv/academy/internal/i18n"
	"github.com/olegiv/academy/internal/middleware"
	"github.com/olegiv/academy/internal/model"
)

// Post-login destinations.
const (
	redirectAdmin  = "/admin"
	redirectCourse = "/course"
)

// LoginService logs sessions in and out.
type LoginService interface {
	Login(ctx context.Context, username, password string) (model.Identity, error)
	Logout(ctx context.Context) error
}

// AuthHandler handles login, logout and the current identity.
type AuthHandler struct {
	auth       LoginService
	protection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler. protection may be nil.
func NewAuthHandler(svc LoginService, protection *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{auth: svc, protection: protection}
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the new identity and where the client should go.
type LoginResponse struct {
	Identity model.Identity `json:"identity"`
	Redirect string         `json:"redirect"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	username := strings.TrimSpace(req.Username)

	if h.protection != nil {
		if locked, remaining := h.protection.IsAccountLocked(username); locked {
			writeLocalizedError(w, r, http.StatusTooManyRequests, "account_locked", "error.account_locked",
				remaining.Round(time.Second).String())
			return
		}
	}

	id, err := h.auth.Login(r.Context(), username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) && h.protection != nil {
			h.protection.RecordFailedAttempt(username)
		}
		writeServiceError(w, r, err, "login failed")
		return
	}

	if h.protection != nil {
		h.protection.RecordSuccessfulLogin(username)
	}

	resp := LoginResponse{Identity: id, Redirect: redirectCourse}
	if id.IsAdmin() {
		resp.Redirect = redirectAdmin
	}
	WriteSuccess(w, resp)
}

// Logout handles POST /api/auth/logout. Logging out without a session
// succeeds; a session store failure is reported as a server error.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context()); err != nil {
		writeServiceError(w, r, err, "logout failed")
		return
	}
	WriteMessage(w, nil, i18n.T(middleware.GetLanguage(r), "msg.logged_out"))
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetIdentity(r)
	if id == nil {
		writeLocalizedError(w, r, http.StatusUnauthorized, "not_authenticated", "error.not_authenticated")
		return
	}
	WriteSuccess(w, id)
}
