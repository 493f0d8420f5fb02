// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON REST handlers for the site backend.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/renacermascotas/renacer-go/internal/analytics"
	"github.com/renacermascotas/renacer-go/internal/middleware"
	"github.com/renacermascotas/renacer-go/internal/pagination"
	"github.com/renacermascotas/renacer-go/internal/service"
	"github.com/renacermascotas/renacer-go/internal/store"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db        *sql.DB
	queries   *store.Queries
	sessions  *scs.SessionManager
	content   *service.ContentService
	media     *service.MediaService
	events    *service.EventService
	analytics *analytics.Service
	tracker   *analytics.Tracker
	loginProt *middleware.LoginProtection
}

// Deps bundles the services the API handlers depend on.
type Deps struct {
	DB        *sql.DB
	Sessions  *scs.SessionManager
	Content   *service.ContentService
	Media     *service.MediaService
	Events    *service.EventService
	Analytics *analytics.Service
	Tracker   *analytics.Tracker
	LoginProt *middleware.LoginProtection
}

// NewHandler creates a new API handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		db:        deps.DB,
		queries:   store.New(deps.DB),
		sessions:  deps.Sessions,
		content:   deps.Content,
		media:     deps.Media,
		events:    deps.Events,
		analytics: deps.Analytics,
		tracker:   deps.Tracker,
		loginProt: deps.LoginProt,
	}
}

// trackReads returns the page-view tracking middleware for public reads,
// or a pass-through when no tracker is configured.
func (h *Handler) trackReads() func(http.Handler) http.Handler {
	if h.tracker == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return h.tracker.ReadTracking()
}

// Routes registers all API routes on the given router. The caller mounts
// the result at /api/v1 behind the session, CORS and rate-limit middleware.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/status", h.Status)

	r.Route("/auth", func(r chi.Router) {
		r.With(h.loginProt.Middleware()).Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.With(middleware.RequireAuth(h.sessions), middleware.LoadUser(h.sessions, h.db)).
			Get("/me", h.Me)
	})

	// Public reads, session-gated writes per collection.
	collections := []struct {
		path  string
		list  http.HandlerFunc
		get   http.HandlerFunc
		post  http.HandlerFunc
		put   http.HandlerFunc
		del   http.HandlerFunc
		extra func(chi.Router)
	}{
		{"/posts", h.ListPosts, h.GetPost, h.CreatePost, h.UpdatePost, h.DeletePost,
			func(r chi.Router) { r.Get("/slug/{slug}", h.GetPostBySlug) }},
		{"/gallery", h.ListGalleryItems, h.GetGalleryItem, h.CreateGalleryItem, h.UpdateGalleryItem, h.DeleteGalleryItem, nil},
		{"/testimonials", h.ListTestimonials, h.GetTestimonial, h.CreateTestimonial, h.UpdateTestimonial, h.DeleteTestimonial, nil},
		{"/partners", h.ListPartners, h.GetPartner, h.CreatePartner, h.UpdatePartner, h.DeletePartner, nil},
		{"/agreements", h.ListAgreements, h.GetAgreement, h.CreateAgreement, h.UpdateAgreement, h.DeleteAgreement, nil},
	}
	for _, c := range collections {
		c := c
		r.Route(c.path, func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(h.trackReads())
				r.Get("/", c.list)
				r.Get("/{id:[0-9]+}", c.get)
				if c.extra != nil {
					c.extra(r)
				}
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(h.sessions), middleware.LoadUser(h.sessions, h.db), middleware.RequireEditor())
				r.Post("/", c.post)
				r.Put("/{id:[0-9]+}", c.put)
				r.Delete("/{id:[0-9]+}", c.del)
			})
		})
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.sessions), middleware.LoadUser(h.sessions, h.db))
		r.With(middleware.RequireEditor(), middleware.UploadRateLimiter()).Post("/upload", h.Upload)
		r.With(middleware.RequireAdmin()).Get("/analytics/summary", h.AnalyticsSummary)

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireAdmin())
			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
			r.Put("/{id:[0-9]+}", h.UpdateUser)
			r.Put("/{id:[0-9]+}/password", h.ResetUserPassword)
		})
	})

	return r
}

// Response is the standard API response wrapper.
type Response struct {
	Data any       `json:"data,omitempty"`
	Meta *ListMeta `json:"meta,omitempty"`
}

// ListMeta carries pagination metadata plus the compact page-link row.
type ListMeta struct {
	pagination.Meta
	Links []pagination.PageLink `json:"links,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *ListMeta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	middleware.WriteAPIError(w, statusCode, code, message, details)
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}

// listMeta builds the response meta for a page of results.
func listMeta(m pagination.Meta) *ListMeta {
	return &ListMeta{Meta: m, Links: m.BuildLinks()}
}

// parseIDParam extracts the numeric {id} URL parameter.
func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// decodeJSON decodes the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// handleServiceError maps a content service failure to the right response.
func handleServiceError(w http.ResponseWriter, err error, entityName string) {
	if errors.Is(err, service.ErrNotFound) {
		WriteNotFound(w, entityName+" not found")
		return
	}
	slog.Error("request failed", "entity", entityName, "error", err)
	WriteInternalError(w, "Failed to process "+entityName)
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Status returns the API status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, StatusResponse{Status: "ok", Version: "v1"}, nil)
}
