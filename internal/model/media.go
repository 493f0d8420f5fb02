// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"strings"
	"time"
)

// MaxUploadSize is the hard limit on a single uploaded file.
const MaxUploadSize = 50 << 20 // 50 MB

// Supported MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
	MimeTypeMP4  = "video/mp4"
	MimeTypeMOV  = "video/quicktime"
	MimeTypeAVI  = "video/x-msvideo"
	MimeTypePDF  = "application/pdf"
	MimeTypeDOC  = "application/msword"
	MimeTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// AllowedExtensions maps permitted file extensions (lowercase, without dot)
// to the MIME types accepted for them.
var AllowedExtensions = map[string][]string{
	"jpg":  {MimeTypeJPEG},
	"jpeg": {MimeTypeJPEG},
	"png":  {MimeTypePNG},
	"gif":  {MimeTypeGIF},
	"webp": {MimeTypeWebP},
	"mp4":  {MimeTypeMP4},
	"mov":  {MimeTypeMOV},
	"avi":  {MimeTypeAVI},
	"pdf":  {MimeTypePDF},
	"doc":  {MimeTypeDOC},
	"docx": {MimeTypeDOCX},
}

// ThumbnailConfig defines the settings for generated image thumbnails.
type ThumbnailConfig struct {
	Width   int
	Height  int
	Quality int
	Crop    bool // true = crop to exact size, false = fit within bounds
}

// Thumbnail is the single variant generated for uploaded images.
var Thumbnail = ThumbnailConfig{Width: 150, Height: 150, Quality: 80, Crop: true}

// Media represents an uploaded file tracked by the media store.
type Media struct {
	ID         int64
	UUID       string
	Filename   string
	MimeType   string
	Size       int64
	URL        string
	UploadedBy sql.NullInt64
	CreatedAt  time.Time
}

// IsImage returns true if the media type is an image.
func (m *Media) IsImage() bool {
	switch m.MimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	default:
		return false
	}
}

// IsVideo returns true if the media type is a video.
func (m *Media) IsVideo() bool {
	switch m.MimeType {
	case MimeTypeMP4, MimeTypeMOV, MimeTypeAVI:
		return true
	default:
		return false
	}
}

// IsAllowedUpload checks an extension/MIME pair against the upload whitelist.
// Both the extension and the declared MIME type must match.
func IsAllowedUpload(ext, mimeType string) bool {
	mimes, ok := AllowedExtensions[strings.ToLower(strings.TrimPrefix(ext, "."))]
	if !ok {
		return false
	}
	for _, m := range mimes {
		if m == mimeType {
			return true
		}
	}
	return false
}
