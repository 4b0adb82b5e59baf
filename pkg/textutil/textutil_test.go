package textutil

import (
	"strings"
	"testing"
)

func TestNormalizeApostrophes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"curly right quote", "Concert du 11 d’avril", "Concert du 11 d'avril"},
		{"curly left quote", "d‘avril", "d'avril"},
		{"backtick", "d`avril", "d'avril"},
		{"acute accent", "d´avril", "d'avril"},
		{"already plain", "d'avril", "d'avril"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeApostrophes(tt.input); got != tt.expected {
				t.Errorf("NormalizeApostrophes(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase and fold", "Jacob de Haan", "jacob de haan"},
		{"accents", "Fête  de la   Musique", "fete de la musique"},
		{"oe ligature", "Œuvre", "oeuvre"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeKey(tt.input); got != tt.expected {
				t.Errorf("NormalizeKey(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple title", "Ma région virtuose", "ma-region-virtuose"},
		{"numbered variant", "Ma Région Virtuose 2", "ma-region-virtuose-2"},
		{"punctuation collapses", "Concert du 11 d'avril - Programme musical", "concert-du-11-d-avril-programme-musical"},
		{"leading trailing junk", "  ---Fête!---  ", "fete"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSlugify_CapsLength(t *testing.T) {
	long := strings.Repeat("abcde ", 20)

	slug := Slugify(long)
	if len(slug) > 50 {
		t.Errorf("Slugify length = %d, want <= 50", len(slug))
	}

	if strings.HasSuffix(slug, "-") || strings.HasPrefix(slug, "-") {
		t.Errorf("Slugify produced untrimmed slug %q", slug)
	}
}

func TestSlugify_Deterministic(t *testing.T) {
	title := "Concert du 11 d’avril — édition spéciale"

	first := Slugify(title)
	for i := 0; i < 5; i++ {
		if got := Slugify(title); got != first {
			t.Fatalf("Slugify not deterministic: %q vs %q", got, first)
		}
	}
}
