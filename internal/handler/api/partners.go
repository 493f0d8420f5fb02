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

// PartnerResponse represents a partner organization in API responses.
type PartnerResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Department  string    `json:"department"`
	City        string    `json:"city"`
	LogoURL     *string   `json:"logo_url,omitempty"`
	Website     *string   `json:"website,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func partnerResponse(p model.Partner) PartnerResponse {
	return PartnerResponse{
		ID:          p.ID,
		Name:        p.Name,
		Department:  p.Department,
		City:        p.City,
		LogoURL:     util.PtrFromNullString(p.LogoURL),
		Website:     util.PtrFromNullString(p.Website),
		Phone:       util.PtrFromNullString(p.Phone),
		Description: util.PtrFromNullString(p.Description),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func partnerResponses(items []model.Partner) []PartnerResponse {
	out := make([]PartnerResponse, len(items))
	for i, p := range items {
		out[i] = partnerResponse(p)
	}
	return out
}

// ListPartners handles GET /partners.
func (h *Handler) ListPartners(w http.ResponseWriter, r *http.Request) {
	page, err := h.content.ListPartners(r.Context(), pagination.ParsePageParam(r), pagination.ParsePerPageParam(r), r.URL.Query().Get("q"))
	if err != nil {
		handleServiceError(w, err, "partners")
		return
	}
	WriteSuccess(w, partnerResponses(page.Items), listMeta(page.Meta))
}

// GetPartner handles GET /partners/{id}.
func (h *Handler) GetPartner(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid partner ID", nil)
		return
	}
	item, err := h.content.GetPartner(r.Context(), id)
	if err != nil {
		handleServiceError(w, err, "partner")
		return
	}
	WriteSuccess(w, partnerResponse(item), nil)
}

// PartnerRequest is the request body for creating or updating a partner.
type PartnerRequest struct {
	Name        *string `json:"name"`
	Department  *string `json:"department"`
	City        *string `json:"city"`
	LogoURL     *string `json:"logo_url"`
	Website     *string `json:"website"`
	Phone       *string `json:"phone"`
	Description *string `json:"description"`
}

func (req *PartnerRequest) validateCreate() map[string]string {
	fieldErrors := map[string]string{}
	if req.Name == nil || *req.Name == "" {
		fieldErrors["name"] = "Name is required"
	}
	if req.Department == nil || *req.Department == "" {
		fieldErrors["department"] = "Department is required"
	}
	if req.City == nil || *req.City == "" {
		fieldErrors["city"] = "City is required"
	}
	if req.LogoURL == nil || *req.LogoURL == "" {
		fieldErrors["logo_url"] = "Logo URL is required"
	}
	return fieldErrors
}

func (req *PartnerRequest) validateUpdate() map[string]string {
	fieldErrors := map[string]string{}
	if req.Name != nil && *req.Name == "" {
		fieldErrors["name"] = "Name cannot be empty"
	}
	if req.Department != nil && *req.Department == "" {
		fieldErrors["department"] = "Department cannot be empty"
	}
	if req.City != nil && *req.City == "" {
		fieldErrors["city"] = "City cannot be empty"
	}
	if req.LogoURL != nil && *req.LogoURL == "" {
		fieldErrors["logo_url"] = "Logo URL cannot be empty"
	}
	return fieldErrors
}

// CreatePartner handles POST /partners.
func (h *Handler) CreatePartner(w http.ResponseWriter, r *http.Request) {
	var req PartnerRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if fieldErrors := req.validateCreate(); len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	item, err := h.content.CreatePartner(r.Context(), service.CreatePartnerParams{
		Name:        *req.Name,
		Department:  *req.Department,
		City:        *req.City,
		LogoURL:     req.LogoURL,
		Website:     req.Website,
		Phone:       req.Phone,
		Description: req.Description,
	}, middleware.GetUserIDPtr(r))
	if err != nil {
		handleServiceError(w, err, "partner")
		return
	}
	WriteCreated(w, partnerResponse(item))
}

// UpdatePartner handles PUT /partners/{id}.
func (h *Handler) UpdatePartner(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid partner ID", nil)
		return
	}

	var req PartnerRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if fieldErrors := req.validateUpdate(); len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	item, err := h.content.UpdatePartner(r.Context(), id, service.PartnerPatch{
		Name:        req.Name,
		Department:  req.Department,
		City:        req.City,
		LogoURL:     req.LogoURL,
		Website:     req.Website,
		Phone:       req.Phone,
		Description: req.Description,
	}, middleware.GetUserIDPtr(r))
	if err != nil {
		handleServiceError(w, err, "partner")
		return
	}
	WriteSuccess(w, partnerResponse(item), nil)
}

// DeletePartner handles DELETE /partners/{id}.
func (h *Handler) DeletePartner(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid partner ID", nil)
		return
	}
	if err := h.content.DeletePartner(r.Context(), id, middleware.GetUserIDPtr(r)); err != nil {
		handleServiceError(w, err, "partner")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
