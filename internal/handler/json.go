// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
)

// States reported by the liveness and readiness endpoints.
const (
	stateAlive    = "alive"
	stateReady    = "ready"
	stateNotReady = "not_ready"
)

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeCheck writes a single check result. Unhealthy results are served
// as 503.
func writeCheck(w http.ResponseWriter, c Check) {
	statusCode := http.StatusOK
	if c.Status == stateNotReady || c.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, c)
}
