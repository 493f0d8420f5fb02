package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/renacermascotas/renacer-go/internal/service"
)

func seedPosts(t *testing.T, env *testEnv, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		_, err := env.content.CreatePost(context.Background(), service.CreatePostParams{
			Title:   fmt.Sprintf("Noticia %d", i),
			Content: "Contenido de la noticia.",
		}, nil)
		if err != nil {
			t.Fatalf("seeding post %d: %v", i, err)
		}
	}
}

func TestListPosts_EnvelopeAndPagination(t *testing.T) {
	env := newTestEnv(t)
	seedPosts(t, env, 7)

	status, body := env.request(http.MethodGet, "/posts?page=2", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want %d", status, http.StatusOK)
	}

	if got := len(items(t, body)); got != 2 {
		t.Errorf("page 2 items = %d, want 2", got)
	}
	m := meta(t, body)
	if m["page"] != float64(2) {
		t.Errorf("meta.page = %v, want 2", m["page"])
	}
	if m["total_items"] != float64(7) {
		t.Errorf("meta.total_items = %v, want 7", m["total_items"])
	}
	if m["total_pages"] != float64(2) {
		t.Errorf("meta.total_pages = %v, want 2", m["total_pages"])
	}
	if m["has_prev"] != true {
		t.Errorf("meta.has_prev = %v, want true", m["has_prev"])
	}
}

func TestListPosts_OutOfRangePageClamps(t *testing.T) {
	env := newTestEnv(t)
	seedPosts(t, env, 3)

	status, body := env.request(http.MethodGet, "/posts?page=99", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want %d", status, http.StatusOK)
	}
	if meta(t, body)["page"] != float64(1) {
		t.Errorf("meta.page = %v, want 1", meta(t, body)["page"])
	}
	if got := len(items(t, body)); got != 3 {
		t.Errorf("items = %d, want 3", got)
	}
}

func TestListPosts_TitleFilter(t *testing.T) {
	env := newTestEnv(t)
	for _, title := range []string{"Jornada de vacunación", "Campaña de adopción", "Vacunas gratis"} {
		if _, err := env.content.CreatePost(context.Background(), service.CreatePostParams{
			Title: title, Content: "x",
		}, nil); err != nil {
			t.Fatalf("seeding: %v", err)
		}
	}

	status, body := env.request(http.MethodGet, "/posts?q=vacun", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if got := len(items(t, body)); got != 2 {
		t.Errorf("filtered items = %d, want 2", got)
	}
}

func TestCreatePost_RequiresSession(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.request(http.MethodPost, "/posts", map[string]string{
		"title": "Sin sesión", "content": "x",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", status, http.StatusUnauthorized)
	}
	if apiError(t, body)["code"] != "unauthorized" {
		t.Errorf("code = %v, want unauthorized", apiError(t, body)["code"])
	}
}

func TestCreatePost_ValidationAndSlug(t *testing.T) {
	env := newTestEnv(t)
	env.loginAsEditor()

	status, body := env.request(http.MethodPost, "/posts", map[string]string{"title": "Solo título"})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("missing content status = %d, want 422", status)
	}
	details := apiError(t, body)["details"].(map[string]any)
	if _, ok := details["content"]; !ok {
		t.Errorf("details missing content field: %v", details)
	}

	status, body = env.request(http.MethodPost, "/posts", map[string]string{
		"title":   "Jornada de Adopción 2026",
		"content": "# Bienvenidos\n\nAcompáñanos.",
	})
	if status != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", status)
	}
	if got := data(t, body)["slug"]; got != "jornada-de-adopcion-2026" {
		t.Errorf("slug = %v, want jornada-de-adopcion-2026", got)
	}
}

func TestGetPostBySlug_RendersMarkdown(t *testing.T) {
	env := newTestEnv(t)
	post, err := env.content.CreatePost(context.Background(), service.CreatePostParams{
		Title:   "Historia de Luna",
		Content: "# Luna\n\n<script>alert(1)</script>Una **gran** historia.",
	}, nil)
	if err != nil {
		t.Fatalf("seeding: %v", err)
	}

	status, body := env.request(http.MethodGet, "/posts/slug/"+post.Slug, nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if _, ok := data(t, body)["content_html"]; ok {
		t.Error("content_html should be absent without render=html")
	}

	status, body = env.request(http.MethodGet, "/posts/slug/"+post.Slug+"?render=html", nil)
	if status != http.StatusOK {
		t.Fatalf("render status = %d, want 200", status)
	}
	html, _ := data(t, body)["content_html"].(string)
	if !strings.Contains(html, "<strong>gran</strong>") {
		t.Errorf("content_html missing rendered markdown: %q", html)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("content_html contains unsanitized script: %q", html)
	}

	status, _ = env.request(http.MethodGet, "/posts/slug/no-existe", nil)
	if status != http.StatusNotFound {
		t.Errorf("missing slug status = %d, want 404", status)
	}
}

func TestUpdatePost_PartialPatch(t *testing.T) {
	env := newTestEnv(t)
	env.loginAsEditor()

	img := "/uploads/portada.jpg"
	post, err := env.content.CreatePost(context.Background(), service.CreatePostParams{
		Title: "Original", Content: "Contenido", ImageURL: &img,
	}, nil)
	if err != nil {
		t.Fatalf("seeding: %v", err)
	}

	status, body := env.request(http.MethodPut, fmt.Sprintf("/posts/%d", post.ID),
		map[string]string{"content": "Contenido nuevo"})
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	d := data(t, body)
	if d["title"] != "Original" {
		t.Errorf("title = %v, want Original", d["title"])
	}
	if d["content"] != "Contenido nuevo" {
		t.Errorf("content = %v, want Contenido nuevo", d["content"])
	}
	if d["image_url"] != img {
		t.Errorf("image_url = %v, want %s", d["image_url"], img)
	}
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv(t)
	env.loginAsEditor()

	post, err := env.content.CreatePost(context.Background(), service.CreatePostParams{
		Title: "Para borrar", Content: "x",
	}, nil)
	if err != nil {
		t.Fatalf("seeding: %v", err)
	}

	status, _ := env.request(http.MethodDelete, fmt.Sprintf("/posts/%d", post.ID), nil)
	if status != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", status)
	}

	status, _ = env.request(http.MethodGet, fmt.Sprintf("/posts/%d", post.ID), nil)
	if status != http.StatusNotFound {
		t.Errorf("get deleted status = %d, want 404", status)
	}

	status, _ = env.request(http.MethodDelete, fmt.Sprintf("/posts/%d", post.ID), nil)
	if status != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", status)
	}
}
