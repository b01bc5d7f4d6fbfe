// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"testing"
	"time"
)

func TestUserIsAdmin(t *testing.T) {
	tests := []struct {
		name string
		role string
		want bool
	}{
		{
			name: "admin role",
			role: RoleAdmin,
			want: true,
		},
		{
			name: "user role",
			role: RoleUser,
			want: false,
		},
		{
			name: "empty role",
			role: "",
			want: false,
		},
		{
			name: "Admin uppercase",
			role: "Admin",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Role: tt.role}
			if got := u.IsAdmin(); got != tt.want {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.want)
			}
			if got := u.Identity().IsAdmin(); got != tt.want {
				t.Errorf("Identity().IsAdmin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseExpiry(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{"date", "2099-01-01", time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"date with spaces", " 2030-05-06 ", time.Date(2030, 5, 6, 0, 0, 0, 0, time.UTC), true},
		{"rfc3339", "2030-05-06T10:00:00Z", time.Date(2030, 5, 6, 10, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "next year", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseExpiry(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseExpiry(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseExpiry(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestUserIdentity(t *testing.T) {
	u := User{Username: "a", Password: "secret", Role: RoleUser, Expiry: "2099-01-01"}
	got := u.Identity()
	if got.Username != "a" || got.Role != RoleUser {
		t.Errorf("Identity() = %+v, want {a user}", got)
	}
}
