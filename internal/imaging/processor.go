// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalizes uploaded images and produces thumbnails.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // decode-only WebP support

	"github.com/renacermascotas/renacer-go/internal/model"
	"github.com/renacermascotas/renacer-go/internal/util"
)

// ThumbsDir is the subdirectory of the uploads dir holding thumbnails.
const ThumbsDir = "thumbs"

const normalizeQuality = 95

// ProcessResult is a normalized image ready to store.
type ProcessResult struct {
	Data   []byte
	Width  int
	Height int
}

// Processor produces stored image variants under the uploads directory.
// All decoding and encoding is pure Go.
type Processor struct {
	uploadDir string
}

func NewProcessor(uploadDir string) *Processor {
	return &Processor{uploadDir: uploadDir}
}

// Normalize decodes an upload, bakes in the EXIF orientation and re-encodes.
// Re-encoding drops all EXIF metadata, including GPS tags, from the stored
// file.
func (p *Processor) Normalize(reader io.Reader) (*ProcessResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	format := detectFormat(data)
	if format == "" {
		return nil, fmt.Errorf("unsupported image format")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = applyOrientation(img, exifOrientation(bytes.NewReader(data)))

	encoded, err := encodeImage(img, format, normalizeQuality)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	bounds := img.Bounds()
	return &ProcessResult{Data: encoded, Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

// CreateThumbnail renders the 150x150 variant of a stored image and writes it
// under thumbs/ with the same filename. Returns the thumbnail path on disk.
func (p *Processor) CreateThumbnail(sourcePath, filename string) (string, error) {
	img, err := imaging.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("opening source image: %w", err)
	}

	cfg := model.Thumbnail
	var resized image.Image
	if cfg.Crop {
		resized = imaging.Fill(img, cfg.Width, cfg.Height, imaging.Center, imaging.Lanczos)
	} else {
		resized = imaging.Fit(img, cfg.Width, cfg.Height, imaging.Lanczos)
	}

	encoded, err := encodeImage(resized, formatFromFilename(filename), cfg.Quality)
	if err != nil {
		return "", fmt.Errorf("encoding thumbnail: %w", err)
	}

	return p.writeVariant(filename, encoded)
}

// DeleteThumbnail removes the thumbnail for a stored filename if present.
func (p *Processor) DeleteThumbnail(filename string) error {
	safe, err := util.SanitizeFilename(filename)
	if err != nil {
		return err
	}
	path := filepath.Join(p.uploadDir, ThumbsDir, safe)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting thumbnail: %w", err)
	}
	return nil
}

// GetImageDimensions reads the dimensions of an image file without decoding
// the pixel data.
func (p *Processor) GetImageDimensions(path string) (width, height int, err error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("opening image: %w", err)
	}
	defer func() { _ = file.Close() }()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, fmt.Errorf("reading image config: %w", err)
	}
	return config.Width, config.Height, nil
}

// IsImage reports whether the MIME type is one the processor can decode.
func (p *Processor) IsImage(mimeType string) bool {
	switch mimeType {
	case model.MimeTypeJPEG, model.MimeTypePNG, model.MimeTypeGIF, model.MimeTypeWebP:
		return true
	}
	return false
}

// DetectMimeType sniffs the MIME type from file content, ignoring any
// charset suffix http.DetectContentType appends.
func (p *Processor) DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// exifOrientation returns the EXIF orientation tag, or 1 (upright) when the
// tag is absent or unreadable.
func exifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation undoes the camera rotation recorded in EXIF values 2-8.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}

// encodeImage renders img in the given format. WebP input falls back to JPEG
// output since pure Go has no WebP encoder.
func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// detectFormat sniffs the format from raw bytes. TIFF is rejected outright
// (CVE-2023-36308 in disintegration/imaging).
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	for _, format := range []string{"jpeg", "png", "gif", "webp"} {
		if strings.Contains(contentType, format) {
			return format
		}
	}
	return ""
}

func formatFromFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "png"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	default:
		return "jpeg"
	}
}

// writeVariant stores encoded image data as thumbs/<filename>, refusing
// filenames that would escape the uploads directory.
func (p *Processor) writeVariant(filename string, data []byte) (string, error) {
	safe, err := util.SanitizeFilename(filename)
	if err != nil {
		return "", err
	}

	dir, err := util.SafeJoinPath(p.uploadDir, ThumbsDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating thumbnail directory: %w", err)
	}

	path := filepath.Join(dir, safe)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("saving thumbnail: %w", err)
	}
	return path, nil
}
