// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the HTTP session manager and stores the single
// active identity of a browsing context.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/olegiv/academy/internal/model"
)

// New creates a session manager. Sessions are kept in the SQLite database
// when db is non-nil and in process memory otherwise.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()

	if db != nil {
		sm.Store = sqlite3store.New(db)
	} else {
		sm.Store = memstore.New()
	}

	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	// Session cookie only: the identity ends with the browsing context.
	sm.Cookie.Persist = false

	if !isDev {
		sm.Cookie.Name = "__Host-session"
		sm.Cookie.Path = "/"
	}

	return sm
}

// Holder reads and writes the identity kept under model.SessionKeyIdentity.
type Holder struct {
	sm *scs.SessionManager
}

// NewHolder creates a Holder over sm.
func NewHolder(sm *scs.SessionManager) *Holder {
	return &Holder{sm: sm}
}

// Identity returns the identity stored in the request session.
func (h *Holder) Identity(ctx context.Context) (model.Identity, bool) {
	raw := h.sm.GetString(ctx, model.SessionKeyIdentity)
	if raw == "" {
		return model.Identity{}, false
	}
	var id model.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil || id.Username == "" {
		return model.Identity{}, false
	}
	return id, true
}

// SetIdentity stores id, renewing the session token first.
func (h *Holder) SetIdentity(ctx context.Context, id model.Identity) error {
	if err := h.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encoding identity: %w", err)
	}
	h.sm.Put(ctx, model.SessionKeyIdentity, string(data))
	return nil
}

// Clear destroys the session.
func (h *Holder) Clear(ctx context.Context) error {
	if err := h.sm.Destroy(ctx); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}
