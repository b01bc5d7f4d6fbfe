// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLanguage(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		cookie     string
		acceptLang string
		want       string
		wantCookie bool
	}{
		{name: "default", url: "/", want: "ar"},
		{name: "query switch", url: "/?lang=en", want: "en", wantCookie: true},
		{name: "query uppercase", url: "/?lang=EN", want: "en", wantCookie: true},
		{name: "unsupported query ignored", url: "/?lang=fr", want: "ar"},
		{name: "cookie", url: "/", cookie: "en", want: "en"},
		{name: "query beats cookie", url: "/?lang=ar", cookie: "en", want: "ar", wantCookie: true},
		{name: "accept language region", url: "/", acceptLang: "en-US,en;q=0.9", want: "en"},
		{name: "accept language unsupported", url: "/", acceptLang: "fr-FR", want: "ar"},
		{name: "cookie beats accept language", url: "/", cookie: "ar", acceptLang: "en", want: "ar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := Language(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = GetLanguage(r)
			}))

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LanguageCookieName, Value: tt.cookie})
			}
			if tt.acceptLang != "" {
				req.Header.Set("Accept-Language", tt.acceptLang)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if got != tt.want {
				t.Errorf("language = %q, want %q", got, tt.want)
			}
			if cl := rr.Header().Get("Content-Language"); cl != tt.want {
				t.Errorf("Content-Language = %q, want %q", cl, tt.want)
			}

			hasCookie := false
			for _, c := range rr.Result().Cookies() {
				if c.Name == LanguageCookieName {
					hasCookie = true
					if c.Value != tt.want {
						t.Errorf("cookie value = %q, want %q", c.Value, tt.want)
					}
				}
			}
			if hasCookie != tt.wantCookie {
				t.Errorf("cookie set = %v, want %v", hasCookie, tt.wantCookie)
			}
		})
	}
}

func TestGetLanguageWithoutMiddleware(t *testing.T) {
	if got := GetLanguage(httptest.NewRequest(http.MethodGet, "/", nil)); got != "ar" {
		t.Errorf("GetLanguage() = %q, want ar", got)
	}
}
