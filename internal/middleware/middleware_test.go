// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/olegiv/academy/internal/i18n"
)

func TestMain(m *testing.M) {
	if err := i18n.Init(slog.New(slog.NewTextHandler(io.Discard, nil)), "ar"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// okHandler writes 200 OK.
var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func decodeAPIError(t *testing.T, rr *httptest.ResponseRecorder) APIError {
	t.Helper()
	var body APIError
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body
}
