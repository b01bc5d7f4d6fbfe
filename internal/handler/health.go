// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/olegiv/academy/internal/kvstore"
	"github.com/olegiv/academy/internal/version"
)

// healthProbeKey is read to check the store; it is never written.
const healthProbeKey = "__health__"

// HealthHandler handles health check requests.
type HealthHandler struct {
	store     kvstore.Store
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store kvstore.Store) *HealthHandler {
	return &HealthHandler{store: store, startTime: time.Now()}
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Store   Check  `json:"store"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Health handles GET /healthz.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	check := h.checkStore(r.Context())

	status := HealthStatus{
		Status:  "healthy",
		Version: version.Get().String(),
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
		Store:   check,
	}
	code := http.StatusOK
	if check.Status != "healthy" {
		status.Status = "degraded"
		code = http.StatusServiceUnavailable
	}

	WriteJSON(w, code, status)
}

func (h *HealthHandler) checkStore(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	_, err := h.store.Get(ctx, healthProbeKey)
	latency := time.Since(start)

	if err != nil && !errors.Is(err, kvstore.ErrKeyNotFound) {
		return Check{Status: "unhealthy"}
	}
	return Check{Status: "healthy", Latency: latency.Round(time.Microsecond).String()}
}
