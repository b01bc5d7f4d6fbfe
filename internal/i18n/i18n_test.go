// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package i18n

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestInit(t *testing.T) {
	if err := Init(nil, ""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if Default() != "ar" {
		t.Errorf("Default() = %q, want ar", Default())
	}
	if TranslationCount("ar") == 0 {
		t.Error("Expected Arabic translations to be loaded")
	}
	if TranslationCount("en") == 0 {
		t.Error("Expected English translations to be loaded")
	}
}

func TestInit_UnsupportedDefault(t *testing.T) {
	if err := Init(nil, "fr"); err == nil {
		t.Fatal("expected error for unsupported default language")
	}
}

func TestT(t *testing.T) {
	if err := Init(nil, "ar"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	tests := []struct {
		lang     string
		key      string
		args     []any
		expected string
	}{
		{"ar", "error.invalid_credentials", nil, "اسم المستخدم أو كلمة المرور غير صحيحة."},
		{"en", "error.invalid_credentials", nil, "Invalid username or password."},
		{"ar", "error.duplicate_username", nil, "يوجد مستخدم بهذا الاسم بالفعل."},
		{"ar", "msg.book_created", nil, "تم إضافة الكتاب بنجاح."},
		{"en", "msg.deleted", []any{"Book"}, "Book deleted."},
		// Unknown language falls back to the default
		{"de", "error.subscription_expired", nil, "انتهت صلاحية حسابك. يرجى التواصل مع الإدارة."},
		// Unknown key returns the key
		{"en", "nonexistent.key", nil, "nonexistent.key"},
	}

	for _, tt := range tests {
		t.Run(tt.lang+"_"+tt.key, func(t *testing.T) {
			if got := T(tt.lang, tt.key, tt.args...); got != tt.expected {
				t.Errorf("T(%q, %q, %v) = %q, want %q", tt.lang, tt.key, tt.args, got, tt.expected)
			}
		})
	}
}

func TestMatchLanguage(t *testing.T) {
	if err := Init(nil, "ar"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"ar", "ar"},
		{"en", "en"},
		{"en-US", "en"},
		{"ar-EG", "ar"},
		{"de", "ar"},
		{"", "ar"},
		{"en-GB, ar;q=0.8", "en"},
		{"ar-SA, en;q=0.9", "ar"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := MatchLanguage(tt.input); got != tt.expected {
				t.Errorf("MatchLanguage(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMatchLanguage_EnglishDefault(t *testing.T) {
	if err := Init(nil, "en"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { _ = Init(nil, "ar") })

	if got := MatchLanguage("de"); got != "en" {
		t.Errorf("MatchLanguage(de) = %q, want en", got)
	}
}

// TestLocaleFilesMatch checks that every locale defines the same keys and
// that format verbs line up.
func TestLocaleFilesMatch(t *testing.T) {
	keys := make(map[string]map[string]string)
	for _, lang := range SupportedLanguages {
		data, err := localesFS.ReadFile(fmt.Sprintf("locales/%s/messages.json", lang))
		if err != nil {
			t.Fatalf("reading %s: %v", lang, err)
		}
		var f MessageFile
		if err := json.Unmarshal(data, &f); err != nil {
			t.Fatalf("parsing %s: %v", lang, err)
		}
		if f.Language != lang {
			t.Errorf("%s file declares language %q", lang, f.Language)
		}
		keys[lang] = make(map[string]string)
		for _, m := range f.Messages {
			if _, dup := keys[lang][m.ID]; dup {
				t.Errorf("%s: duplicate key %s", lang, m.ID)
			}
			keys[lang][m.ID] = m.Translation
		}
	}

	for id, ar := range keys["ar"] {
		en, ok := keys["en"][id]
		if !ok {
			t.Errorf("key %s missing in en", id)
			continue
		}
		if countVerbs(ar) != countVerbs(en) {
			t.Errorf("key %s: format verbs differ between ar and en", id)
		}
	}
	for id := range keys["en"] {
		if _, ok := keys["ar"][id]; !ok {
			t.Errorf("key %s missing in ar", id)
		}
	}
}

func countVerbs(s string) int {
	n := 0
	for i := 0; i < len(s)-1; i++ {
		if s[i] == '%' && s[i+1] != '%' {
			n++
		}
	}
	return n
}
