// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"

	"github.com/renacermascotas/renacer-go/internal/analytics"
)

const maxSummaryDays = 365

// AnalyticsSummary handles GET /analytics/summary. An optional ?days
// parameter bounds the reporting window, defaulting to 30.
func (h *Handler) AnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	days := analytics.DefaultSummaryDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxSummaryDays {
			WriteBadRequest(w, "Invalid days parameter", map[string]string{
				"days": "Must be an integer between 1 and 365",
			})
			return
		}
		days = n
	}

	summary, err := h.analytics.Summarize(r.Context(), days)
	if err != nil {
		handleServiceError(w, err, "analytics summary")
		return
	}
	WriteSuccess(w, summary, nil)
}
