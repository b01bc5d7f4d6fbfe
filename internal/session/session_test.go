// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/academy/internal/kvstore"
	"github.com/olegiv/academy/internal/model"
)

func setupTestStore(t *testing.T) *kvstore.SQLStore {
	t.Helper()
	store, err := kvstore.OpenSQLite(filepath.Join(t.TempDir(), "academy.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNew_DevMode(t *testing.T) {
	sm := New(setupTestStore(t).DB(), true)

	if sm.Cookie.Secure {
		t.Error("expected Cookie.Secure = false in dev mode")
	}
	if sm.Cookie.Name == "__Host-session" {
		t.Error("expected default cookie name in dev mode")
	}
	if sm.Store == nil {
		t.Error("expected Store to be initialized")
	}
}

func TestNew_ProductionMode(t *testing.T) {
	sm := New(setupTestStore(t).DB(), false)

	if !sm.Cookie.Secure {
		t.Error("expected Cookie.Secure = true in production mode")
	}
	if sm.Cookie.Name != "__Host-session" {
		t.Errorf("expected __Host-session cookie name, got %q", sm.Cookie.Name)
	}
	if sm.Cookie.Path != "/" {
		t.Errorf("expected Cookie.Path = '/', got %q", sm.Cookie.Path)
	}
}

func TestNew_SessionSettings(t *testing.T) {
	sm := New(nil, true)

	if sm.Lifetime != 24*time.Hour {
		t.Errorf("Lifetime = %v, want 24h", sm.Lifetime)
	}
	if !sm.Cookie.HttpOnly {
		t.Error("expected Cookie.HttpOnly = true")
	}
	if sm.Cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("expected SameSite = Lax, got %v", sm.Cookie.SameSite)
	}
	if sm.Cookie.Persist {
		t.Error("expected a non-persistent session cookie")
	}
	if _, ok := sm.Store.(*memstore.MemStore); !ok {
		t.Errorf("expected memstore without a database, got %T", sm.Store)
	}
}

func TestHolder(t *testing.T) {
	sm := New(nil, true)
	h := NewHolder(sm)

	ctx, err := sm.Load(context.Background(), "")
	require.NoError(t, err)

	_, ok := h.Identity(ctx)
	assert.False(t, ok)

	want := model.Identity{Username: "a", Role: model.RoleUser}
	require.NoError(t, h.SetIdentity(ctx, want))

	got, ok := h.Identity(ctx)
	require.True(t, ok)
	assert.Equal(t, want, got)

	require.NoError(t, h.Clear(ctx))
	_, ok = h.Identity(ctx)
	assert.False(t, ok)
}

func TestHolder_IgnoresMalformedValue(t *testing.T) {
	sm := New(nil, true)
	h := NewHolder(sm)

	ctx, err := sm.Load(context.Background(), "")
	require.NoError(t, err)

	sm.Put(ctx, model.SessionKeyIdentity, "{broken")
	_, ok := h.Identity(ctx)
	assert.False(t, ok)
}

func TestHolder_SQLiteStore(t *testing.T) {
	sm := New(setupTestStore(t).DB(), true)
	h := NewHolder(sm)

	ctx, err := sm.Load(context.Background(), "")
	require.NoError(t, err)
	require.NoError(t, h.SetIdentity(ctx, model.Identity{Username: "admin", Role: model.RoleAdmin}))

	token, _, err := sm.Commit(ctx)
	require.NoError(t, err)

	reloaded, err := sm.Load(context.Background(), token)
	require.NoError(t, err)
	got, ok := h.Identity(reloaded)
	require.True(t, ok)
	assert.True(t, got.IsAdmin())
}
