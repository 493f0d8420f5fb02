// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/renacermascotas/renacer-go/internal/middleware"
	"github.com/renacermascotas/renacer-go/internal/model"
	"github.com/renacermascotas/renacer-go/internal/service"
)

// UploadResponse is returned after a successful file upload.
type UploadResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// Upload handles POST /upload. Accepts a single multipart file under the
// "file" field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	// Buffer small files in memory, spill the rest to disk.
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		WriteBadRequest(w, "Invalid multipart form", nil)
		return
	}

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		WriteValidationError(w, map[string]string{"file": "File is required"})
		return
	}
	if len(files) > 1 {
		WriteValidationError(w, map[string]string{"file": "Exactly one file per request"})
		return
	}

	header := files[0]
	file, err := header.Open()
	if err != nil {
		WriteBadRequest(w, "Invalid multipart form", nil)
		return
	}
	defer file.Close()

	media, err := h.media.Upload(r.Context(), file, header, middleware.GetUserIDPtr(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileTooLarge):
			WriteValidationError(w, map[string]string{
				"file": fmt.Sprintf("File exceeds the %d MB limit", model.MaxUploadSize>>20),
			})
		case errors.Is(err, service.ErrTypeNotAllowed):
			WriteValidationError(w, map[string]string{"file": "File type is not allowed"})
		default:
			handleServiceError(w, err, "upload")
		}
		return
	}

	WriteCreated(w, UploadResponse{
		URL:      media.URL,
		Filename: media.Filename,
		Size:     media.Size,
	})
}
