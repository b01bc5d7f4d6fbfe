// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/olegiv/academy/internal/model"
)

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, stored string) bool
	NeedsRehash(stored string) bool
}

// UserInput holds the fields of a new subscriber.
type UserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Expiry   string `json:"expiry"`
}

// UserChanges lists the user fields to change. A nil Expiry keeps the
// current date and an empty one clears it; the password changes only when
// a non-empty value is given.
type UserChanges struct {
	Password *string `json:"password"`
	Expiry   *string `json:"expiry"`
}

// Users manages accounts.
type Users struct {
	coll   *Collection[model.User]
	hasher PasswordHasher
	logger *slog.Logger
}

// List returns all users, admins included.
func (r *Users) List(ctx context.Context) ([]model.User, error) {
	return r.coll.Load(ctx)
}

// ListMembers returns the non-admin users.
func (r *Users) ListMembers(ctx context.Context) ([]model.User, error) {
	users, err := r.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	members := make([]model.User, 0, len(users))
	for _, u := range users {
		if !u.IsAdmin() {
			members = append(members, u)
		}
	}
	return members, nil
}

// Get returns the first user with username.
func (r *Users) Get(ctx context.Context, username string) (model.User, error) {
	users, err := r.coll.Load(ctx)
	if err != nil {
		return model.User{}, err
	}
	if i := indexOfUser(users, username); i >= 0 {
		return users[i], nil
	}
	return model.User{}, ErrNotFound
}

// Create adds a subscriber with role user.
func (r *Users) Create(ctx context.Context, in UserInput) (model.User, error) {
	username := strings.TrimSpace(in.Username)
	expiry := strings.TrimSpace(in.Expiry)

	var v validator
	v.required("username", username)
	validateUsername(&v, username)
	v.required("password", in.Password)
	validateExpiry(&v, expiry)
	if err := v.err(); err != nil {
		return model.User{}, err
	}

	users, err := r.coll.Load(ctx)
	if err != nil {
		return model.User{}, err
	}
	if indexOfUser(users, username) >= 0 {
		return model.User{}, ErrDuplicateUsername
	}

	hash, err := r.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user := model.User{Username: username, Password: hash, Role: model.RoleUser, Expiry: expiry}
	if err := r.coll.Save(ctx, append(users, user)); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Update changes the expiry and optionally the password of username.
// The role is never changed.
func (r *Users) Update(ctx context.Context, username string, changes UserChanges) (model.User, error) {
	var v validator
	var expiry string
	if changes.Expiry != nil {
		expiry = strings.TrimSpace(*changes.Expiry)
		validateExpiry(&v, expiry)
	}
	if err := v.err(); err != nil {
		return model.User{}, err
	}

	users, err := r.coll.Load(ctx)
	if err != nil {
		return model.User{}, err
	}
	i := indexOfUser(users, username)
	if i < 0 {
		return model.User{}, ErrNotFound
	}

	if changes.Expiry != nil {
		users[i].Expiry = expiry
	}
	if changes.Password != nil && *changes.Password != "" {
		hash, err := r.hasher.Hash(*changes.Password)
		if err != nil {
			return model.User{}, fmt.Errorf("hashing password: %w", err)
		}
		users[i].Password = hash
	}

	if err := r.coll.Save(ctx, users); err != nil {
		return model.User{}, err
	}
	return users[i], nil
}

// Delete removes every record with username.
func (r *Users) Delete(ctx context.Context, username string) error {
	users, err := r.coll.Load(ctx)
	if err != nil {
		return err
	}
	kept := users[:0]
	for _, u := range users {
		if u.Username != username {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(users) {
		return ErrNotFound
	}
	return r.coll.Save(ctx, kept)
}

// HasAdmin reports whether any admin record exists.
func (r *Users) HasAdmin(ctx context.Context) (bool, error) {
	users, err := r.coll.Load(ctx)
	if err != nil {
		return false, err
	}
	for _, u := range users {
		if u.IsAdmin() {
			return true, nil
		}
	}
	return false, nil
}

// UpsertAdmin gives the first admin record new credentials, or appends an
// admin when there is none. Taking the username of another user is
// rejected with ErrDuplicateUsername.
func (r *Users) UpsertAdmin(ctx context.Context, username, password string) (model.User, error) {
	username = strings.TrimSpace(username)

	var v validator
	v.required("username", username)
	v.required("password", password)
	if err := v.err(); err != nil {
		return model.User{}, err
	}

	users, err := r.coll.Load(ctx)
	if err != nil {
		return model.User{}, err
	}

	adminIdx := -1
	for i, u := range users {
		if u.IsAdmin() {
			adminIdx = i
			break
		}
	}
	for i, u := range users {
		if i != adminIdx && u.Username == username {
			return model.User{}, ErrDuplicateUsername
		}
	}

	hash, err := r.hasher.Hash(password)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	var admin model.User
	if adminIdx < 0 {
		admin = model.User{Username: username, Password: hash, Role: model.RoleAdmin}
		users = append(users, admin)
	} else {
		users[adminIdx].Username = username
		users[adminIdx].Password = hash
		admin = users[adminIdx]
	}

	if err := r.coll.Save(ctx, users); err != nil {
		return model.User{}, err
	}
	return admin, nil
}

// Authenticate returns the user whose username and password match.
// ErrNotFound is returned when none does. Passwords stored in an outdated
// form (legacy plaintext included) are rehashed on success.
func (r *Users) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	users, err := r.coll.Load(ctx)
	if err != nil {
		return model.User{}, err
	}

	for i, u := range users {
		if u.Username != username || !r.hasher.Verify(password, u.Password) {
			continue
		}
		if r.hasher.NeedsRehash(u.Password) {
			r.rehash(ctx, users, i, password)
		}
		return users[i], nil
	}
	return model.User{}, ErrNotFound
}

// rehash upgrades the stored password of users[i]. Failures are logged only;
// the login itself already succeeded.
func (r *Users) rehash(ctx context.Context, users []model.User, i int, password string) {
	hash, err := r.hasher.Hash(password)
	if err != nil {
		r.logger.WarnContext(ctx, "password rehash failed", "username", users[i].Username, "error", err)
		return
	}
	users[i].Password = hash
	if err := r.coll.Save(ctx, users); err != nil {
		r.logger.WarnContext(ctx, "saving rehashed password failed", "username", users[i].Username, "error", err)
	}
}

func indexOfUser(users []model.User, username string) int {
	for i := range users {
		if users[i].Username == username {
			return i
		}
	}
	return -1
}

// validateUsername rejects names that cannot be addressed as a single URL
// path segment.
func validateUsername(v *validator, username string) {
	if strings.ContainsAny(username, `/\?#%`) || strings.ContainsFunc(username, unicode.IsControl) {
		v.add("username", MsgInvalidUsername)
	}
}

func validateExpiry(v *validator, expiry string) {
	if expiry == "" {
		return
	}
	if _, ok := model.ParseExpiry(expiry); !ok {
		v.add("expiry", MsgInvalidDate)
	}
}
