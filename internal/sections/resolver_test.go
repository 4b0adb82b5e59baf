package sections

import "testing"

func TestResolver_ExactMatch(t *testing.T) {
	r := NewResolver()

	if got := r.Resolve("Ma région virtuose"); got != "ma-region-virtuose" {
		t.Errorf("Resolve = %q, want ma-region-virtuose", got)
	}
}

func TestResolver_ApostropheVariants(t *testing.T) {
	r := NewResolver()

	curly := r.Resolve("Concert du 11 d’avril")
	straight := r.Resolve("Concert du 11 d'avril")

	if curly != straight {
		t.Errorf("apostrophe variants resolved differently: %q vs %q", curly, straight)
	}

	if curly != "concert-avril" {
		t.Errorf("Resolve = %q, want concert-avril", curly)
	}
}

func TestResolver_PatternMatch(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{"concert with extra words", "Grand Concert du 11 avril 2026", "concert-avril"},
		{"financing keyword", "Dossier de financement", "financements"},
		{"fete with year", "Fête de la musique 2027", "fete-musique"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver()

			if got := r.Resolve(tt.title); got != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.title, got, tt.expected)
			}
		})
	}
}

func TestResolver_SlugFallback(t *testing.T) {
	r := NewResolver()

	// Unrecognized variant must not fold into the original section.
	if got := r.Resolve("Ma Région Virtuose 2"); got != "ma-region-virtuose-2" {
		t.Errorf("Resolve = %q, want ma-region-virtuose-2", got)
	}
}

func TestResolver_Totality(t *testing.T) {
	titles := []string{
		"Répertoire inconnu",
		"???",
		"2026",
		"Some English Title",
	}

	r := NewResolver()

	for _, title := range titles {
		if got := r.Resolve(title); got == "" {
			t.Errorf("Resolve(%q) returned empty section id", title)
		}
	}
}

func TestResolver_Deterministic(t *testing.T) {
	r := NewResolver()

	title := "Nouvelle Base Quelconque"

	first := r.Resolve(title)
	for i := 0; i < 5; i++ {
		if got := r.Resolve(title); got != first {
			t.Fatalf("Resolve not stable: %q vs %q", got, first)
		}
	}

	// A fresh resolver must agree with the cached one.
	if got := NewResolver().Resolve(title); got != first {
		t.Errorf("fresh resolver disagrees: %q vs %q", got, first)
	}
}
