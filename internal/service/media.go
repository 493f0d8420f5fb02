// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/renacermascotas/renacer-go/internal/imaging"
	"github.com/renacermascotas/renacer-go/internal/model"
	"github.com/renacermascotas/renacer-go/internal/store"
	"github.com/renacermascotas/renacer-go/internal/util"
)

// Upload validation errors. Handlers map these to client-facing responses.
var (
	ErrFileTooLarge   = errors.New("file exceeds maximum upload size")
	ErrTypeNotAllowed = errors.New("file type not allowed")
)

// uploadURLPrefix is the public path under which stored files are served.
const uploadURLPrefix = "/uploads/"

// MediaService handles file uploads and the media ledger.
type MediaService struct {
	queries   *store.Queries
	events    *EventService
	processor *imaging.Processor
	uploadDir string
	baseURL   string
}

// NewMediaService creates a new MediaService rooted at uploadDir.
// baseURL is the public origin of the site (may be empty) and is only
// used to recognize absolute URLs that point back at our own uploads.
func NewMediaService(db *sql.DB, events *EventService, uploadDir, baseURL string) (*MediaService, error) {
	if err := os.MkdirAll(filepath.Join(uploadDir, imaging.ThumbsDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &MediaService{
		queries:   store.New(db),
		events:    events,
		processor: imaging.NewProcessor(uploadDir),
		uploadDir: uploadDir,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Upload validates and stores an uploaded file, generates a thumbnail for
// images and records the file in the media ledger. The stored filename is
// prefixed with a UUID so uploads never collide.
func (s *MediaService) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, uploadedBy *int64) (model.Media, error) {
	if header.Size > model.MaxUploadSize {
		return model.Media{}, ErrFileTooLarge
	}

	// Re-check the actual size: the header value comes from the client.
	data, err := io.ReadAll(io.LimitReader(file, model.MaxUploadSize+1))
	if err != nil {
		return model.Media{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > model.MaxUploadSize {
		return model.Media{}, ErrFileTooLarge
	}

	ext := filepath.Ext(header.Filename)
	mimeType := header.Header.Get("Content-Type")
	if !model.IsAllowedUpload(ext, mimeType) {
		// The declared type may be missing or generic. Fall back to
		// content sniffing before rejecting.
		detected := s.processor.DetectMimeType(data)
		if !model.IsAllowedUpload(ext, detected) {
			return model.Media{}, ErrTypeNotAllowed
		}
		mimeType = detected
	}

	id := uuid.New().String()
	storedName := id + "-" + util.CleanFilename(header.Filename)
	destPath := filepath.Join(s.uploadDir, storedName)

	isImage := s.processor.IsImage(mimeType)
	if isImage {
		// Content must actually decode as an image, whatever the headers say.
		result, err := s.processor.Normalize(bytes.NewReader(data))
		if err != nil {
			return model.Media{}, ErrTypeNotAllowed
		}
		data = result.Data
	}

	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return model.Media{}, fmt.Errorf("failed to store file: %w", err)
	}

	if isImage {
		if _, err := s.processor.CreateThumbnail(destPath, storedName); err != nil {
			slog.Warn("thumbnail generation failed", "filename", storedName, "error", err)
		}
	}

	media, err := s.queries.CreateMedia(ctx, store.CreateMediaParams{
		UUID:       id,
		Filename:   storedName,
		MimeType:   mimeType,
		Size:       int64(len(data)),
		URL:        uploadURLPrefix + storedName,
		UploadedBy: util.NullInt64FromPtr(uploadedBy),
		CreatedAt:  time.Now(),
	})
	if err != nil {
		// Do not leave the blob behind if the ledger insert failed.
		_ = os.Remove(destPath)
		_ = s.processor.DeleteThumbnail(storedName)
		return model.Media{}, fmt.Errorf("failed to record upload: %w", err)
	}

	if s.events != nil {
		_ = s.events.LogMediaEvent(ctx, model.EventLevelInfo, "File uploaded: "+storedName, uploadedBy, map[string]any{
			"mime_type": mimeType,
			"size":      media.Size,
		})
	}

	return media, nil
}

// IsManagedURL reports whether a URL points at a file this store owns.
// External URLs are never touched by cleanup.
func (s *MediaService) IsManagedURL(rawURL string) bool {
	if strings.HasPrefix(rawURL, uploadURLPrefix) {
		return true
	}
	return s.baseURL != "" && strings.HasPrefix(rawURL, s.baseURL+uploadURLPrefix)
}

// DeleteByURL removes a managed file, its thumbnail and its ledger row.
// Unmanaged URLs are ignored. Blob removal is best effort: a missing file
// never blocks the ledger cleanup.
func (s *MediaService) DeleteByURL(ctx context.Context, rawURL string) error {
	if !s.IsManagedURL(rawURL) {
		return nil
	}

	// The filename comes from a stored URL, but it still gets the same
	// traversal checks as any external input before touching the disk.
	filename, err := util.SanitizeFilename(path.Base(rawURL))
	if err != nil {
		return nil
	}
	blobPath, err := util.SafeJoinPath(s.uploadDir, filename)
	if err != nil {
		slog.Warn("refusing media cleanup outside upload dir", "url", rawURL)
		return nil
	}

	if err := os.Remove(blobPath); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove media file", "filename", filename, "error", err)
	}
	if err := s.processor.DeleteThumbnail(filename); err != nil {
		slog.Warn("failed to remove thumbnail", "filename", filename, "error", err)
	}

	media, err := s.queries.GetMediaByURL(ctx, uploadURLPrefix+filename)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}
	return s.queries.DeleteMedia(ctx, media.ID)
}

// SweepOrphans removes uploads older than the cutoff that are no longer
// referenced by any content row. Returns the number of files removed.
func (s *MediaService) SweepOrphans(ctx context.Context, olderThan time.Time) (int, error) {
	orphans, err := s.queries.ListOrphanMedia(ctx, olderThan)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, m := range orphans {
		if err := s.DeleteByURL(ctx, m.URL); err != nil {
			slog.Warn("orphan sweep failed for file", "url", m.URL, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 && s.events != nil {
		_ = s.events.LogMediaEvent(ctx, model.EventLevelInfo,
			fmt.Sprintf("Orphan sweep removed %d file(s)", removed), nil, nil)
	}
	return removed, nil
}
