// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"strings"
	"testing"
)

// Hash of "changeme" with older parameters (m=65536,t=1,p=4).
const legacyParamsHash = "$argon2id$v=19$m=65536,t=1,p=4$mucMvOaS6lZ2LWNS1OEFKw$UYEWv8cvCOO6l2zGeqv3JPVe1nyy0x9GXBfYEuDM544"

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	again, _ := HashPassword("changeme")
	if hash == again {
		t.Error("expected distinct salts for repeated hashes")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	valid, err := CheckPassword("changeme", hash)
	if err != nil || !valid {
		t.Fatalf("correct password rejected: valid=%v err=%v", valid, err)
	}

	valid, err = CheckPassword("wrongpassword", hash)
	if err != nil || valid {
		t.Fatalf("wrong password accepted: valid=%v err=%v", valid, err)
	}
}

func TestCheckPassword_OlderParameters(t *testing.T) {
	valid, err := CheckPassword("changeme", legacyParamsHash)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if !valid {
		t.Fatal("hash with older parameters rejected correct password")
	}
}

func TestCheckPassword_InvalidFormat(t *testing.T) {
	for _, h := range []string{"", "plain", "$bcrypt$a$b$c$d", "$argon2id$v=19$bad$c2FsdA$aGFzaA"} {
		if _, err := CheckPassword("x", h); err == nil {
			t.Errorf("CheckPassword(%q) expected error", h)
		}
	}
}

func TestNeedsRehash(t *testing.T) {
	current, _ := HashPassword("changeme")

	tests := []struct {
		name   string
		stored string
		want   bool
	}{
		{"current parameters", current, false},
		{"older parameters", legacyParamsHash, true},
		{"plaintext", "admin123", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsRehash(tt.stored); got != tt.want {
				t.Errorf("NeedsRehash() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasher_Verify(t *testing.T) {
	var h Hasher
	hash, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	tests := []struct {
		name     string
		password string
		stored   string
		want     bool
	}{
		{"argon2 match", "s3cret", hash, true},
		{"argon2 mismatch", "S3cret", hash, false},
		{"legacy plaintext match", "admin123", "admin123", true},
		{"legacy plaintext mismatch", "admin", "admin123", false},
		{"empty stored", "", "", false},
		{"corrupt argon2", "s3cret", "$argon2id$broken", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.Verify(tt.password, tt.stored); got != tt.want {
				t.Errorf("Verify(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}
