// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the records persisted in the key-value store
// (users, posts, books, manuscripts, lessons, events) and the session identity.
package model

import (
	"strings"
	"time"
)

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ExpiryDateLayout is the layout of subscription expiry dates (HTML date input).
const ExpiryDateLayout = "2006-01-02"

// User represents an academy account. Admins manage content; users are
// subscribers whose access to paid lessons ends at Expiry.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"` // argon2id hash, or legacy plaintext from imports
	Role     string `json:"role"`
	Expiry   string `json:"expiry,omitempty"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Identity returns the session identity for the user.
func (u *User) Identity() Identity {
	return Identity{Username: u.Username, Role: u.Role}
}

// ExpiresAt parses the subscription expiry.
// Returns false when the user has no expiry or it cannot be parsed.
func (u *User) ExpiresAt() (time.Time, bool) {
	return ParseExpiry(u.Expiry)
}

// ParseExpiry parses an expiry value. Plain dates are read as UTC midnight,
// full RFC 3339 timestamps are accepted as well.
func ParseExpiry(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(ExpiryDateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Identity is the single active identity held by a session.
type Identity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IsAdmin returns true if the identity has admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
