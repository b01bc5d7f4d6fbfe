// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		wantHSTS bool
	}{
		{"production", false, true},
		{"development", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			SecurityHeaders(DefaultSecurityHeadersConfig(tt.isDev))(okHandler).
				ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			h := rr.Header()
			if h.Get("X-Content-Type-Options") != "nosniff" {
				t.Error("missing X-Content-Type-Options")
			}
			if h.Get("X-Frame-Options") != "SAMEORIGIN" {
				t.Errorf("X-Frame-Options = %q", h.Get("X-Frame-Options"))
			}
			csp := h.Get("Content-Security-Policy")
			if !strings.HasPrefix(csp, "default-src 'self'") {
				t.Errorf("CSP = %q, want default-src first", csp)
			}
			if !strings.Contains(csp, "https://www.youtube.com") {
				t.Error("CSP should allow embedded YouTube players")
			}
			hsts := h.Get("Strict-Transport-Security")
			if (hsts != "") != tt.wantHSTS {
				t.Errorf("HSTS = %q, want present=%v", hsts, tt.wantHSTS)
			}
			if tt.wantHSTS && hsts != "max-age=31536000; includeSubDomains" {
				t.Errorf("HSTS = %q", hsts)
			}
		})
	}
}

func TestBuildCSPExtraDirectivesSorted(t *testing.T) {
	got := buildCSP(map[string]string{
		"default-src": "'self'",
		"worker-src":  "'none'",
		"media-src":   "'self'",
	})
	want := "default-src 'self'; media-src 'self'; worker-src 'none'"
	if got != want {
		t.Errorf("buildCSP = %q, want %q", got, want)
	}
}

func TestBuildPermissionsPolicy(t *testing.T) {
	got := buildPermissionsPolicy(map[string]string{"usb": "()", "camera": "()"})
	if got != "camera=(), usb=()" {
		t.Errorf("buildPermissionsPolicy = %q", got)
	}
}
