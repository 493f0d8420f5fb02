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

// TestimonialResponse represents a testimonial in API responses.
type TestimonialResponse struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	ImageURL  *string   `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func testimonialResponse(t model.Testimonial) TestimonialResponse {
	return TestimonialResponse{
		ID:        t.ID,
		Author:    t.Author,
		Text:      t.Text,
		ImageURL:  util.PtrFromNullString(t.ImageURL),
		CreatedAt: t.CreatedAt,
	}
}

func testimonialResponses(items []model.Testimonial) []TestimonialResponse {
	out := make([]TestimonialResponse, len(items))
	for i, t := range items {
		out[i] = testimonialResponse(t)
	}
	return out
}

// ListTestimonials handles GET /testimonials.
func (h *Handler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	page, err := h.content.ListTestimonials(r.Context(), pagination.ParsePageParam(r), pagination.ParsePerPageParam(r))
	if err != nil {
		handleServiceError(w, err, "testimonials")
		return
	}
	WriteSuccess(w, testimonialResponses(page.Items), listMeta(page.Meta))
}

// GetTestimonial handles GET /testimonials/{id}.
func (h *Handler) GetTestimonial(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid testimonial ID", nil)
		return
	}
	item, err := h.content.GetTestimonial(r.Context(), id)
	if err != nil {
		handleServiceError(w, err, "testimonial")
		return
	}
	WriteSuccess(w, testimonialResponse(item), nil)
}

// TestimonialRequest is the request body for creating or updating a testimonial.
type TestimonialRequest struct {
	Author   *string `json:"author"`
	Text     *string `json:"text"`
	ImageURL *string `json:"image_url"`
}

// CreateTestimonial handles POST /testimonials.
func (h *Handler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var req TestimonialRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	fieldErrors := map[string]string{}
	if req.Author == nil || *req.Author == "" {
		fieldErrors["author"] = "Author is required"
	}
	if req.Text == nil || *req.Text == "" {
		fieldErrors["text"] = "Text is required"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	item, err := h.content.CreateTestimonial(r.Context(), service.CreateTestimonialParams{
		Author:   *req.Author,
		Text:     *req.Text,
		ImageURL: req.ImageURL,
	}, middleware.GetUserIDPtr(r))
	if err != nil {
		handleServiceError(w, err, "testimonial")
		return
	}
	WriteCreated(w, testimonialResponse(item))
}

// UpdateTestimonial handles PUT /testimonials/{id}.
func (h *Handler) UpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid testimonial ID", nil)
		return
	}

	var req TestimonialRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if req.Author != nil && *req.Author == "" {
		WriteValidationError(w, map[string]string{"author": "Author cannot be empty"})
		return
	}
	if req.Text != nil && *req.Text == "" {
		WriteValidationError(w, map[string]string{"text": "Text cannot be empty"})
		return
	}

	item, err := h.content.UpdateTestimonial(r.Context(), id, service.TestimonialPatch{
		Author:   req.Author,
		Text:     req.Text,
		ImageURL: req.ImageURL,
	}, middleware.GetUserIDPtr(r))
	if err != nil {
		handleServiceError(w, err, "testimonial")
		return
	}
	WriteSuccess(w, testimonialResponse(item), nil)
}

// DeleteTestimonial handles DELETE /testimonials/{id}.
func (h *Handler) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid testimonial ID", nil)
		return
	}
	if err := h.content.DeleteTestimonial(r.Context(), id, middleware.GetUserIDPtr(r)); err != nil {
		handleServiceError(w, err, "testimonial")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
