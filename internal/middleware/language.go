// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/olegiv/academy/internal/i18n"
)

// ContextKeyLanguage is the context key for the request language code.
const ContextKeyLanguage ContextKey = "language"

// LanguageCookieName is the cookie name for language preference.
const LanguageCookieName = "academy_lang"

// Language creates middleware that detects and sets the current language.
// Priority order:
// 1. Query parameter ?lang=XX (explicit language switch, updates cookie)
// 2. Cookie preference
// 3. Accept-Language header
// 4. Default language
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := detectLanguage(w, r)
		w.Header().Set("Content-Language", lang)
		ctx := context.WithValue(r.Context(), ContextKeyLanguage, lang)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func detectLanguage(w http.ResponseWriter, r *http.Request) string {
	if q := strings.ToLower(r.URL.Query().Get("lang")); q != "" && i18n.IsSupported(q) {
		SetLanguageCookie(w, q)
		return q
	}

	if cookie, err := r.Cookie(LanguageCookieName); err == nil {
		if code := strings.ToLower(cookie.Value); i18n.IsSupported(code) {
			return code
		}
	}

	if accept := r.Header.Get("Accept-Language"); accept != "" {
		return i18n.MatchLanguage(accept)
	}

	return i18n.Default()
}

// GetLanguage returns the request language, or the default language when
// the Language middleware did not run.
func GetLanguage(r *http.Request) string {
	if lang, ok := r.Context().Value(ContextKeyLanguage).(string); ok && lang != "" {
		return lang
	}
	return i18n.Default()
}

// SetLanguageCookie sets the language preference cookie.
func SetLanguageCookie(w http.ResponseWriter, langCode string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookieName,
		Value:    langCode,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60, // 1 year
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
