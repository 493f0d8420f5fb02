// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package pagination provides page math and query-parameter parsing
// shared by the list endpoints.
package pagination

import (
	"net/http"
	"strconv"
)

// MaxPerPage caps the per_page query parameter.
const MaxPerPage = 100

// Meta describes the position of a page within a collection listing.
// It is embedded in list responses.
type Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

// BuildMeta normalizes the requested page against the total item count
// and returns the resulting metadata. The returned Page is always within
// [1, TotalPages], so callers can use it directly as the query offset page.
func BuildMeta(page, perPage int, totalItems int64) Meta {
	normalized, totalPages := Normalize(page, int(totalItems), perPage)
	return Meta{
		Page:       normalized,
		PerPage:    perPage,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasPrev:    normalized > 1,
		HasNext:    normalized < totalPages,
	}
}

// Offset returns the row offset for the page described by the meta.
func (m Meta) Offset() int {
	return (m.Page - 1) * m.PerPage
}

// TotalPages calculates the number of pages for the given total items and items per page.
func TotalPages(totalItems, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	totalPages := (totalItems + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	return totalPages
}

// ClampPage ensures the page number is within the valid range [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Normalize calculates total pages and clamps the current page to a valid range.
func Normalize(page, totalItems, perPage int) (normalizedPage, totalPages int) {
	totalPages = TotalPages(totalItems, perPage)
	normalizedPage = ClampPage(page, totalPages)
	return normalizedPage, totalPages
}

// ParsePageParam parses the "page" query parameter from the request.
// Returns 1 if the parameter is missing, empty, or invalid.
func ParsePageParam(r *http.Request) int {
	return ParseIntParam(r, "page", 1, 1, 0)
}

// ParsePerPageParam parses the "per_page" query parameter. Returns 0
// when absent or invalid, which callers treat as "use the default".
func ParsePerPageParam(r *http.Request) int {
	return ParseIntParam(r, "per_page", 0, 1, MaxPerPage)
}

// ParseIntParam parses an integer query parameter from the request.
// Returns defaultVal if the parameter is missing, empty, or invalid.
// If minVal > 0, values below minVal return defaultVal.
// If maxVal > 0, values above maxVal return defaultVal.
func ParseIntParam(r *http.Request, param string, defaultVal, minVal, maxVal int) int {
	str := r.URL.Query().Get(param)
	if str == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return defaultVal
	}
	if minVal > 0 && val < minVal {
		return defaultVal
	}
	if maxVal > 0 && val > maxVal {
		return defaultVal
	}
	return val
}

// ParseQueryInt64 parses a named query parameter as a positive int64.
// Returns 0 if the parameter is missing, empty, invalid, or not positive.
func ParseQueryInt64(r *http.Request, name string) int64 {
	str := r.URL.Query().Get(name)
	if str == "" {
		return 0
	}
	val, err := strconv.ParseInt(str, 10, 64)
	if err != nil || val <= 0 {
		return 0
	}
	return val
}
