// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/academy/internal/kvstore"
	"github.com/olegiv/academy/internal/model"
	"github.com/olegiv/academy/internal/repository"
	"github.com/olegiv/academy/internal/session"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	store *kvstore.MemoryStore
	svc   *Service
	repos *repository.Repositories
	ids   *session.Holder
	ctx   context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := kvstore.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	repos := repository.New(store, Hasher{})
	sm := session.New(nil, true)
	ids := session.NewHolder(sm)

	ctx, err := sm.Load(context.Background(), "")
	require.NoError(t, err)

	svc := NewService(repos.Users, ids, Config{Now: func() time.Time { return testNow }})
	return &testEnv{store: store, svc: svc, repos: repos, ids: ids, ctx: ctx}
}

func TestLogin_ExampleScenario(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.repos.Users.Create(env.ctx, repository.UserInput{Username: "a", Password: "p", Expiry: "2099-01-01"})
	require.NoError(t, err)

	id, err := env.svc.Login(env.ctx, "a", "p")
	require.NoError(t, err)
	assert.Equal(t, model.Identity{Username: "a", Role: model.RoleUser}, id)

	stored, ok := env.ids.Identity(env.ctx)
	require.True(t, ok)
	assert.Equal(t, id, stored)

	require.NoError(t, env.svc.Logout(env.ctx))

	_, err = env.svc.Login(env.ctx, "a", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.repos.Users.Update(env.ctx, "a", repository.UserChanges{Expiry: strPtr("2020-01-01")})
	require.NoError(t, err)

	_, err = env.svc.Login(env.ctx, "a", "p")
	assert.ErrorIs(t, err, ErrSubscriptionExpired)
	_, ok = env.ids.Identity(env.ctx)
	assert.False(t, ok, "no session for an expired subscriber")
}

func TestLogin_Boundaries(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.repos.Users.Create(env.ctx, repository.UserInput{Username: "today", Password: "p", Expiry: "2026-03-15"})
	require.NoError(t, err)
	_, err = env.repos.Users.Create(env.ctx, repository.UserInput{Username: "open", Password: "p"})
	require.NoError(t, err)

	// Expiry at midnight today is already before noon.
	_, err = env.svc.Login(env.ctx, "today", "p")
	assert.ErrorIs(t, err, ErrSubscriptionExpired)

	_, err = env.svc.Login(env.ctx, "open", "p")
	assert.NoError(t, err, "no expiry allows login")
}

func TestLogin_AdminBypassesExpiry(t *testing.T) {
	env := newTestEnv(t)

	legacy := `[{"username":"boss","password":"pw","role":"admin","expiry":"2000-01-01"}]`
	require.NoError(t, storeRaw(env, model.KeyUsers, legacy))

	id, err := env.svc.Login(env.ctx, "boss", "pw")
	require.NoError(t, err)
	assert.True(t, id.IsAdmin())

	u, err := env.repos.Users.Get(env.ctx, "boss")
	require.NoError(t, err)
	assert.False(t, NeedsRehash(u.Password), "legacy plaintext is rehashed on login")
}

func TestCurrentIdentity(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CurrentIdentity(env.ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = env.repos.Users.Create(env.ctx, repository.UserInput{Username: "a", Password: "p"})
	require.NoError(t, err)
	_, err = env.svc.Login(env.ctx, "a", "p")
	require.NoError(t, err)

	id, err := env.svc.CurrentIdentity(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", id.Username)

	require.NoError(t, env.repos.Users.Delete(env.ctx, "a"))

	_, err = env.svc.CurrentIdentity(env.ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, ok := env.ids.Identity(env.ctx)
	assert.False(t, ok, "session destroyed when the user is gone")
}

func TestGuardCourse(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.repos.Users.Create(env.ctx, repository.UserInput{Username: "a", Password: "p", Expiry: "2099-01-01"})
	require.NoError(t, err)
	_, err = env.svc.Login(env.ctx, "a", "p")
	require.NoError(t, err)

	u, err := env.svc.GuardCourse(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", u.Username)

	_, err = env.repos.Users.Update(env.ctx, "a", repository.UserChanges{Expiry: strPtr("2026-01-01")})
	require.NoError(t, err)

	_, err = env.svc.GuardCourse(env.ctx)
	assert.ErrorIs(t, err, ErrSubscriptionExpired)
	_, ok := env.ids.Identity(env.ctx)
	assert.False(t, ok)
}

func TestEnsureDefaultAdmin_Idempotent(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.svc.EnsureDefaultAdmin(env.ctx)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = env.svc.EnsureDefaultAdmin(env.ctx)
	require.NoError(t, err)
	assert.False(t, created)

	users, err := env.repos.Users.List(env.ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Username)
	assert.True(t, users[0].IsAdmin())

	id, err := env.svc.Login(env.ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, id.IsAdmin())
}

func TestEnsureDefaultAdmin_Configured(t *testing.T) {
	store := kvstore.NewMemoryStore()
	repos := repository.New(store, Hasher{})
	sm := session.New(nil, true)
	svc := NewService(repos.Users, session.NewHolder(sm), Config{
		DefaultAdmin: Credentials{Username: "owner", Password: "long-password"},
	})

	created, err := svc.EnsureDefaultAdmin(context.Background())
	require.NoError(t, err)
	assert.True(t, created)

	u, err := repos.Users.Get(context.Background(), "owner")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())
}

func TestChangeAdminCredentials(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.EnsureDefaultAdmin(env.ctx)
	require.NoError(t, err)
	_, err = env.svc.Login(env.ctx, "admin", "admin123")
	require.NoError(t, err)

	id, err := env.svc.ChangeAdminCredentials(env.ctx, "root", "n3w-pass")
	require.NoError(t, err)
	assert.Equal(t, model.Identity{Username: "root", Role: model.RoleAdmin}, id)

	current, err := env.svc.CurrentIdentity(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, id, current)

	_, err = env.svc.Login(env.ctx, "admin", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.svc.Login(env.ctx, "root", "n3w-pass")
	assert.NoError(t, err)

	users, _ := env.repos.Users.List(env.ctx)
	assert.Len(t, users, 1)
}

func storeRaw(env *testEnv, key, value string) error {
	return env.store.Set(env.ctx, key, []byte(value))
}

func strPtr(s string) *string { return &s }
