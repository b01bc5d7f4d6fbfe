// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers of the academy JSON API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/academy/internal/auth"
	"github.com/olegiv/academy/internal/i18n"
	"github.com/olegiv/academy/internal/middleware"
	"github.com/olegiv/academy/internal/repository"
)

// Response is the standard API response wrapper.
type Response struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Response{Data: data})
}

// WriteCreated writes a 201 Created JSON response with a localized message.
func WriteCreated(w http.ResponseWriter, data any, message string) {
	WriteJSON(w, http.StatusCreated, Response{Data: data, Message: message})
}

// WriteMessage writes a 200 response carrying only a message, or data and a message.
func WriteMessage(w http.ResponseWriter, data any, message string) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Message: message})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// writeLocalizedError writes an error whose message is the translation of key.
func writeLocalizedError(w http.ResponseWriter, r *http.Request, statusCode int, code, key string, args ...any) {
	WriteError(w, statusCode, code, i18n.T(middleware.GetLanguage(r), key, args...), nil)
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, r *http.Request) {
	writeLocalizedError(w, r, http.StatusBadRequest, "bad_request", "error.bad_request")
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, r *http.Request) {
	writeLocalizedError(w, r, http.StatusNotFound, "not_found", "error.not_found")
}

// writeServiceError maps repository and auth errors onto API errors.
// Anything unrecognized is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	lang := middleware.GetLanguage(r)

	var verr *repository.ValidationError
	switch {
	case errors.As(err, &verr):
		details := make(map[string]string, len(verr.Fields))
		for field, key := range verr.Fields {
			details[field] = i18n.T(lang, key)
		}
		WriteError(w, http.StatusUnprocessableEntity, "validation_failed", i18n.T(lang, "error.validation_failed"), details)
	case errors.Is(err, repository.ErrNotFound):
		WriteNotFound(w, r)
	case errors.Is(err, repository.ErrDuplicateUsername):
		writeLocalizedError(w, r, http.StatusConflict, "duplicate_username", "error.duplicate_username")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeLocalizedError(w, r, http.StatusUnauthorized, "invalid_credentials", "error.invalid_credentials")
	case errors.Is(err, auth.ErrSubscriptionExpired):
		writeLocalizedError(w, r, http.StatusForbidden, "subscription_expired", "error.subscription_expired")
	case errors.Is(err, auth.ErrNotAuthenticated):
		writeLocalizedError(w, r, http.StatusUnauthorized, "not_authenticated", "error.not_authenticated")
	default:
		slog.ErrorContext(r.Context(), logMsg, "error", err, "method", r.Method, "path", r.URL.Path)
		writeLocalizedError(w, r, http.StatusInternalServerError, "internal", "error.internal")
	}
}
