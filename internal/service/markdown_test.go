package service

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	html, err := RenderMarkdown("# Título\n\nUn párrafo con **negrita**.")
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "Título") {
		t.Errorf("missing heading in output: %q", html)
	}
	if !strings.Contains(html, "<strong>negrita</strong>") {
		t.Errorf("missing bold in output: %q", html)
	}
}

func TestRenderMarkdown_StripsScript(t *testing.T) {
	html, err := RenderMarkdown("Hola <script>alert('x')</script> mundo")
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if strings.Contains(html, "<script") {
		t.Errorf("script tag survived sanitization: %q", html)
	}
	if !strings.Contains(html, "Hola") || !strings.Contains(html, "mundo") {
		t.Errorf("text content lost: %q", html)
	}
}

func TestSanitizeHTML_RemovesEventHandlers(t *testing.T) {
	out := SanitizeHTML(`<a href="https://example.com" onclick="steal()">link</a>`)
	if strings.Contains(out, "onclick") {
		t.Errorf("onclick survived sanitization: %q", out)
	}
	if !strings.Contains(out, "link") {
		t.Errorf("link text lost: %q", out)
	}
}
