// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package repository

import (
	"maps"
	"slices"
	"strings"
)

// Error represents a repository error.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrNotFound is returned when no record matches the given id or username.
	ErrNotFound Error = "record not found"

	// ErrDuplicateUsername is returned when creating a user whose username is taken.
	ErrDuplicateUsername Error = "username already exists"
)

// Validation message keys, resolved through i18n at the HTTP boundary.
const (
	MsgRequired        = "validation.required"
	MsgInvalidDate     = "validation.invalid_date"
	MsgInvalidUsername = "validation.invalid_username"
)

// ValidationError lists the fields that failed validation, keyed by field
// name with an i18n message key as value.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	fields := slices.Sorted(maps.Keys(e.Fields))
	return "validation failed: " + strings.Join(fields, ", ")
}

// validator accumulates field errors.
type validator struct {
	fields map[string]string
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(field, MsgRequired)
	}
}

func (v *validator) add(field, key string) {
	if v.fields == nil {
		v.fields = make(map[string]string)
	}
	if _, exists := v.fields[field]; !exists {
		v.fields[field] = key
	}
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}
