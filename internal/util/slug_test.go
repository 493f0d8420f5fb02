package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Jornada de Adopción 2026", "jornada-de-adopcion-2026"},
		{"Campaña de Vacunación", "campana-de-vacunacion"},
		{"Nuevos cachorros, ¡en adopción!", "nuevos-cachorros-en-adopcion"},
		{"Café & Mascotas", "cafe-mascotas"},
		{"Esterilización:   antes y después", "esterilizacion-antes-y-despues"},
		{"  noticias  ", "noticias"},
		{"HeLLo WoRLd", "hello-world"},
		{"!@#$%", ""},
		{"日本語", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"jornada-de-adopcion-2026", "noticias", "123", "a-1-b"}
	for _, s := range valid {
		if !IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "Con-Mayusculas", "con espacios", "acentuación", "-leading", "trailing-", "double--dash", "ni!chars"}
	for _, s := range invalid {
		if IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = true, want false", s)
		}
	}
}

func TestSlugifyRoundTripsThroughIsValidSlug(t *testing.T) {
	for _, title := range []string{
		"Peluquería canina a domicilio",
		"Alianza con Veterinaria San Roque",
		"10 consejos para el año nuevo",
	} {
		slug := Slugify(title)
		if !IsValidSlug(slug) {
			t.Errorf("Slugify(%q) produced invalid slug %q", title, slug)
		}
	}
}
