// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/renacermascotas/renacer-go/internal/middleware"
	"github.com/renacermascotas/renacer-go/internal/model"
	"github.com/renacermascotas/renacer-go/internal/pagination"
	"github.com/renacermascotas/renacer-go/internal/service"
	"github.com/renacermascotas/renacer-go/internal/util"
)

// GalleryItemResponse represents a gallery item in API responses.
type GalleryItemResponse struct {
	ID          int64     `json:"id"`
	MediaURL    string    `json:"media_url"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func galleryItemResponse(g model.GalleryItem) GalleryItemResponse {
	return GalleryItemResponse{
		ID:          g.ID,
		MediaURL:    g.MediaURL,
		Description: util.PtrFromNullString(g.Description),
		CreatedAt:   g.CreatedAt,
	}
}

func galleryItemResponses(items []model.GalleryItem) []GalleryItemResponse {
	out := make([]GalleryItemResponse, len(items))
	for i, g := range items {
		out[i] = galleryItemResponse(g)
	}
	return out
}

// ListGalleryItems handles GET /gallery.
func (h *Handler) ListGalleryItems(w http.ResponseWriter, r *http.Request) {
	page, err := h.content.ListGalleryItems(r.Context(), pagination.ParsePageParam(r), pagination.ParsePerPageParam(r))
	if err != nil {
		handleServiceError(w, err, "gallery items")
		return
	}
	WriteSuccess(w, galleryItemResponses(page.Items), listMeta(page.Meta))
}

// GetGalleryItem handles GET /gallery/{id}.
func (h *Handler) GetGalleryItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid gallery item ID", nil)
		return
	}
	item, err := h.content.GetGalleryItem(r.Context(), id)
	if err != nil {
		handleServiceError(w, err, "gallery item")
		return
	}
	WriteSuccess(w, galleryItemResponse(item), nil)
}

// GalleryItemRequest is the request body for creating or updating a gallery item.
type GalleryItemRequest struct {
	MediaURL    *string `json:"media_url"`
	Description *string `json:"description"`
}

// CreateGalleryItem handles POST /gallery.
func (h *Handler) CreateGalleryItem(w http.ResponseWriter, r *http.Request) {
	var req GalleryItemRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if req.MediaURL == nil || *req.MediaURL == "" {
		WriteValidationError(w, map[string]string{"media_url": "Media URL is required"})
		return
	}

	item, err := h.content.CreateGalleryItem(r.Context(), service.CreateGalleryItemParams{
		MediaURL:    *req.MediaURL,
		Description: req.Description,
	}, middleware.GetUserIDPtr(r))
	if err != nil {
		handleServiceError(w, err, "gallery item")
		return
	}
	WriteCreated(w, galleryItemResponse(item))
}

// UpdateGalleryItem handles PUT /gallery/{id}.
func (h *Handler) UpdateGalleryItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid gallery item ID", nil)
		return
	}

	var req GalleryItemRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if req.MediaURL != nil && *req.MediaURL == "" {
		WriteValidationError(w, map[string]string{"media_url": "Media URL cannot be empty"})
		return
	}

	item, err := h.content.UpdateGalleryItem(r.Context(), id, service.GalleryItemPatch{
		MediaURL:    req.MediaURL,
		Description: req.Description,
	}, middleware.GetUserIDPtr(r))
	if err != nil {
		handleServiceError(w, err, "gallery item")
		return
	}
	WriteSuccess(w, galleryItemResponse(item), nil)
}

// DeleteGalleryItem handles DELETE /gallery/{id}.
func (h *Handler) DeleteGalleryItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid gallery item ID", nil)
		return
	}
	if err := h.content.DeleteGalleryItem(r.Context(), id, middleware.GetUserIDPtr(r)); err != nil {
		handleServiceError(w, err, "gallery item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
