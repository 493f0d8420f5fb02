// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/renacermascotas/renacer-go/internal/middleware"
	"github.com/renacermascotas/renacer-go/internal/model"
	"github.com/renacermascotas/renacer-go/internal/pagination"
	"github.com/renacermascotas/renacer-go/internal/service"
	"github.com/renacermascotas/renacer-go/internal/util"
)

// PostResponse represents a post in API responses. ContentHTML is only
// populated when the client asks for rendered markdown.
type PostResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func postResponse(p model.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Content:   p.Content,
		ImageURL:  util.PtrFromNullString(p.ImageURL),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func postResponses(posts []model.Post) []PostResponse {
	out := make([]PostResponse, len(posts))
	for i, p := range posts {
		out[i] = postResponse(p)
	}
	return out
}

// wantsRenderedHTML reports whether the request asked for markdown
// rendered to sanitized HTML.
func wantsRenderedHTML(r *http.Request) bool {
	return r.URL.Query().Get("render") == "html"
}

func renderedPostResponse(p model.Post, render bool) PostResponse {
	resp := postResponse(p)
	if render {
		html, err := service.RenderMarkdown(p.Content)
		if err != nil {
			slog.Warn("markdown render failed", "post_id", p.ID, "error", err)
		} else {
			resp.ContentHTML = html
		}
	}
	return resp
}

// ListPosts handles GET /posts.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, err := h.content.ListPosts(r.Context(), pagination.ParsePageParam(r), pagination.ParsePerPageParam(r), r.URL.Query().Get("q"))
	if err != nil {
		handleServiceError(w, err, "posts")
		return
	}
	WriteSuccess(w, postResponses(page.Items), listMeta(page.Meta))
}

// GetPost handles GET /posts/{id}.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid post ID", nil)
		return
	}
	post, err := h.content.GetPost(r.Context(), id)
	if err != nil {
		handleServiceError(w, err, "post")
		return
	}
	WriteSuccess(w, renderedPostResponse(post, wantsRenderedHTML(r)), nil)
}

// GetPostBySlug handles GET /posts/slug/{slug}.
func (h *Handler) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		WriteBadRequest(w, "Missing post slug", nil)
		return
	}
	// A malformed slug can never match a stored one, so skip the lookup.
	if !util.IsValidSlug(slug) {
		WriteNotFound(w, "Post not found")
		return
	}
	post, err := h.content.GetPostBySlug(r.Context(), slug)
	if err != nil {
		handleServiceError(w, err, "post")
		return
	}
	WriteSuccess(w, renderedPostResponse(post, wantsRenderedHTML(r)), nil)
}

// PostRequest is the request body for creating or updating a post.
type PostRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	ImageURL *string `json:"image_url"`
}

// CreatePost handles POST /posts.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	fieldErrors := map[string]string{}
	if req.Title == nil || *req.Title == "" {
		fieldErrors["title"] = "Title is required"
	}
	if req.Content == nil || *req.Content == "" {
		fieldErrors["content"] = "Content is required"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	post, err := h.content.CreatePost(r.Context(), service.CreatePostParams{
		Title:    *req.Title,
		Content:  *req.Content,
		ImageURL: req.ImageURL,
	}, middleware.GetUserIDPtr(r))
	if err != nil {
		handleServiceError(w, err, "post")
		return
	}
	WriteCreated(w, postResponse(post))
}

// UpdatePost handles PUT /posts/{id}. Absent fields keep their stored value.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid post ID", nil)
		return
	}

	var req PostRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if req.Title != nil && *req.Title == "" {
		WriteValidationError(w, map[string]string{"title": "Title cannot be empty"})
		return
	}
	if req.Content != nil && *req.Content == "" {
		WriteValidationError(w, map[string]string{"content": "Content cannot be empty"})
		return
	}

	post, err := h.content.UpdatePost(r.Context(), id, service.PostPatch{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	}, middleware.GetUserIDPtr(r))
	if err != nil {
		handleServiceError(w, err, "post")
		return
	}
	WriteSuccess(w, postResponse(post), nil)
}

// DeletePost handles DELETE /posts/{id}.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid post ID", nil)
		return
	}
	if err := h.content.DeletePost(r.Context(), id, middleware.GetUserIDPtr(r)); err != nil {
		handleServiceError(w, err, "post")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
