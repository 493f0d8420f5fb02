package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/renacermascotas/renacer-go/internal/imaging"
	"github.com/renacermascotas/renacer-go/internal/model"
)

// uploadFixture builds a multipart file part the way a browser would send it.
func uploadFixture(t *testing.T, filename, contentType string, data []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("writing part: %v", err)
	}
	w.Close()

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	file, header, err := req.FormFile("file")
	if err != nil {
		t.Fatalf("FormFile: %v", err)
	}
	t.Cleanup(func() { file.Close() })
	return file, header
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func testMediaService(t *testing.T) *MediaService {
	t.Helper()
	db := testDB(t)
	svc, err := NewMediaService(db, NewEventService(db), t.TempDir(), "https://renacermascotas.com")
	if err != nil {
		t.Fatalf("NewMediaService: %v", err)
	}
	return svc
}

func TestUpload_Image(t *testing.T) {
	svc := testMediaService(t)
	ctx := context.Background()

	file, header := uploadFixture(t, "Mi Foto Ñandú.png", model.MimeTypePNG, pngBytes(t, 400, 300))
	media, err := svc.Upload(ctx, file, header, nil)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if !strings.HasPrefix(media.URL, "/uploads/") {
		t.Errorf("URL = %q, want /uploads/ prefix", media.URL)
	}
	if !strings.HasSuffix(media.Filename, "Mi-Foto-Nandu.png") {
		t.Errorf("Filename = %q, want sanitized suffix Mi-Foto-Nandu.png", media.Filename)
	}
	if media.MimeType != model.MimeTypePNG {
		t.Errorf("MimeType = %q, want %q", media.MimeType, model.MimeTypePNG)
	}

	storedPath := filepath.Join(svc.uploadDir, media.Filename)
	if _, err := os.Stat(storedPath); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
	thumbPath := filepath.Join(svc.uploadDir, imaging.ThumbsDir, media.Filename)
	if _, err := os.Stat(thumbPath); err != nil {
		t.Errorf("thumbnail missing: %v", err)
	}
}

func TestUpload_UniqueNamesForSameFilename(t *testing.T) {
	svc := testMediaService(t)
	ctx := context.Background()

	data := pngBytes(t, 20, 20)
	file1, header1 := uploadFixture(t, "photo.png", model.MimeTypePNG, data)
	first, err := svc.Upload(ctx, file1, header1, nil)
	if err != nil {
		t.Fatalf("first Upload: %v", err)
	}

	file2, header2 := uploadFixture(t, "photo.png", model.MimeTypePNG, data)
	second, err := svc.Upload(ctx, file2, header2, nil)
	if err != nil {
		t.Fatalf("second Upload: %v", err)
	}

	if first.URL == second.URL {
		t.Errorf("both uploads stored at %q, want distinct URLs", first.URL)
	}
}

func TestUpload_RejectsDisallowedType(t *testing.T) {
	svc := testMediaService(t)
	ctx := context.Background()

	file, header := uploadFixture(t, "script.exe", "application/octet-stream", []byte("MZ\x90\x00"))
	if _, err := svc.Upload(ctx, file, header, nil); !errors.Is(err, ErrTypeNotAllowed) {
		t.Errorf("err = %v, want ErrTypeNotAllowed", err)
	}
}

func TestUpload_RejectsMismatchedExtension(t *testing.T) {
	svc := testMediaService(t)
	ctx := context.Background()

	// PDF bytes behind an image extension must not pass the whitelist.
	file, header := uploadFixture(t, "report.jpg", model.MimeTypePDF, []byte("%PDF-1.4 fake"))
	if _, err := svc.Upload(ctx, file, header, nil); !errors.Is(err, ErrTypeNotAllowed) {
		t.Errorf("err = %v, want ErrTypeNotAllowed", err)
	}
}

func TestUpload_RejectsOversizedFile(t *testing.T) {
	svc := testMediaService(t)
	ctx := context.Background()

	file, header := uploadFixture(t, "big.pdf", model.MimeTypePDF, []byte("%PDF-1.4"))
	header.Size = model.MaxUploadSize + 1
	if _, err := svc.Upload(ctx, file, header, nil); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("err = %v, want ErrFileTooLarge", err)
	}
}

func TestIsManagedURL(t *testing.T) {
	svc := testMediaService(t)

	tests := []struct {
		url  string
		want bool
	}{
		{"/uploads/abc-photo.jpg", true},
		{"https://renacermascotas.com/uploads/abc-photo.jpg", true},
		{"https://cdn.example.com/photo.jpg", false},
		{"https://example.com/uploads/photo.jpg", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := svc.IsManagedURL(tt.url); got != tt.want {
			t.Errorf("IsManagedURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestDeleteByURL(t *testing.T) {
	svc := testMediaService(t)
	ctx := context.Background()

	file, header := uploadFixture(t, "photo.png", model.MimeTypePNG, pngBytes(t, 30, 30))
	media, err := svc.Upload(ctx, file, header, nil)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if err := svc.DeleteByURL(ctx, media.URL); err != nil {
		t.Fatalf("DeleteByURL: %v", err)
	}

	if _, err := os.Stat(filepath.Join(svc.uploadDir, media.Filename)); !os.IsNotExist(err) {
		t.Errorf("stored file still present after delete")
	}
	if _, err := svc.queries.GetMediaByURL(ctx, media.URL); err == nil {
		t.Errorf("ledger row still present after delete")
	}
}

func TestDeleteByURL_IgnoresExternalURL(t *testing.T) {
	svc := testMediaService(t)

	if err := svc.DeleteByURL(context.Background(), "https://cdn.example.com/photo.jpg"); err != nil {
		t.Errorf("DeleteByURL external = %v, want nil", err)
	}
}

func TestSweepOrphans(t *testing.T) {
	svc := testMediaService(t)
	ctx := context.Background()

	file, header := uploadFixture(t, "orphan.png", model.MimeTypePNG, pngBytes(t, 30, 30))
	media, err := svc.Upload(ctx, file, header, nil)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	// Nothing references the upload, so a future cutoff sweeps it.
	removed, err := svc.SweepOrphans(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("SweepOrphans: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(filepath.Join(svc.uploadDir, media.Filename)); !os.IsNotExist(err) {
		t.Errorf("orphan file still present after sweep")
	}
}

func TestSweepOrphans_KeepsReferencedMedia(t *testing.T) {
	db := testDB(t)
	events := NewEventService(db)
	media, err := NewMediaService(db, events, t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewMediaService: %v", err)
	}
	content := NewContentService(db, nil, media, events, 0)
	ctx := context.Background()

	file, header := uploadFixture(t, "referenced.png", model.MimeTypePNG, pngBytes(t, 30, 30))
	up, err := media.Upload(ctx, file, header, nil)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, err := content.CreateGalleryItem(ctx, CreateGalleryItemParams{MediaURL: up.URL}, nil); err != nil {
		t.Fatalf("CreateGalleryItem: %v", err)
	}

	removed, err := media.SweepOrphans(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("SweepOrphans: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0 for referenced media", removed)
	}
}
