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

// AgreementResponse represents a service agreement in API responses.
type AgreementResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Department  string    `json:"department"`
	City        string    `json:"city"`
	LogoURL     *string   `json:"logo_url,omitempty"`
	Address     *string   `json:"address,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func agreementResponse(a model.Agreement) AgreementResponse {
	return AgreementResponse{
		ID:          a.ID,
		Name:        a.Name,
		Department:  a.Department,
		City:        a.City,
		LogoURL:     util.PtrFromNullString(a.LogoURL),
		Address:     util.PtrFromNullString(a.Address),
		Phone:       util.PtrFromNullString(a.Phone),
		Description: util.PtrFromNullString(a.Description),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func agreementResponses(items []model.Agreement) []AgreementResponse {
	out := make([]AgreementResponse, len(items))
	for i, a := range items {
		out[i] = agreementResponse(a)
	}
	return out
}

// ListAgreements handles GET /agreements.
func (h *Handler) ListAgreements(w http.ResponseWriter, r *http.Request) {
	page, err := h.content.ListAgreements(r.Context(), pagination.ParsePageParam(r), pagination.ParsePerPageParam(r), r.URL.Query().Get("q"))
	if err != nil {
		handleServiceError(w, err, "agreements")
		return
	}
	WriteSuccess(w, agreementResponses(page.Items), listMeta(page.Meta))
}

// GetAgreement handles GET /agreements/{id}.
func (h *Handler) GetAgreement(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid agreement ID", nil)
		return
	}
	item, err := h.content.GetAgreement(r.Context(), id)
	if err != nil {
		handleServiceError(w, err, "agreement")
		return
	}
	WriteSuccess(w, agreementResponse(item), nil)
}

// AgreementRequest is the request body for creating or updating an agreement.
type AgreementRequest struct {
	Name        *string `json:"name"`
	Department  *string `json:"department"`
	City        *string `json:"city"`
	LogoURL     *string `json:"logo_url"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone"`
	Description *string `json:"description"`
}

func (req *AgreementRequest) validateCreate() map[string]string {
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

func (req *AgreementRequest) validateUpdate() map[string]string {
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

// CreateAgreement handles POST /agreements.
func (h *Handler) CreateAgreement(w http.ResponseWriter, r *http.Request) {
	var req AgreementRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if fieldErrors := req.validateCreate(); len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	item, err := h.content.CreateAgreement(r.Context(), service.CreateAgreementParams{
		Name:        *req.Name,
		Department:  *req.Department,
		City:        *req.City,
		LogoURL:     req.LogoURL,
		Address:     req.Address,
		Phone:       req.Phone,
		Description: req.Description,
	}, middleware.GetUserIDPtr(r))
	if err != nil {
		handleServiceError(w, err, "agreement")
		return
	}
	WriteCreated(w, agreementResponse(item))
}

// UpdateAgreement handles PUT /agreements/{id}.
func (h *Handler) UpdateAgreement(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid agreement ID", nil)
		return
	}

	var req AgreementRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if fieldErrors := req.validateUpdate(); len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	item, err := h.content.UpdateAgreement(r.Context(), id, service.AgreementPatch{
		Name:        req.Name,
		Department:  req.Department,
		City:        req.City,
		LogoURL:     req.LogoURL,
		Address:     req.Address,
		Phone:       req.Phone,
		Description: req.Description,
	}, middleware.GetUserIDPtr(r))
	if err != nil {
		handleServiceError(w, err, "agreement")
		return
	}
	WriteSuccess(w, agreementResponse(item), nil)
}

// DeleteAgreement handles DELETE /agreements/{id}.
func (h *Handler) DeleteAgreement(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid agreement ID", nil)
		return
	}
	if err := h.content.DeleteAgreement(r.Context(), id, middleware.GetUserIDPtr(r)); err != nil {
		handleServiceError(w, err, "agreement")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
