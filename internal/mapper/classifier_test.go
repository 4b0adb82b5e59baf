package mapper

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		props    []string
		expected Archetype
	}{
		{
			"pieces database",
			[]string{"Titre", "Compositeur", "Durée", "Lien Audio"},
			ArchetypePieces,
		},
		{
			"concerts database",
			[]string{"Concert", "Lieu", "Heure", "Programme"},
			ArchetypeConcerts,
		},
		{
			"financing database",
			[]string{"Nom", "Montant", "Subvention", "Statut"},
			ArchetypeFinancing,
		},
		{
			"events database",
			[]string{"Agenda", "Période", "Lieu de rendez-vous"},
			ArchetypeEvents,
		},
		{
			"no indicators",
			[]string{"Foo", "Bar", "Baz"},
			ArchetypeUnknown,
		},
		{
			"empty",
			nil,
			ArchetypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.props)
			if got.Archetype != tt.expected {
				t.Errorf("Classify(%v) = %s (score %d), want %s", tt.props, got.Archetype, got.Score, tt.expected)
			}
		})
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	got := Classify([]string{"TITRE", "COMPOSITEUR", "DURÉE"})
	if got.Archetype != ArchetypePieces {
		t.Errorf("Classify = %s, want pieces", got.Archetype)
	}

	if got.Score != 3 {
		t.Errorf("Score = %d, want 3", got.Score)
	}
}

func TestClassify_TieBrokenByDeclarationOrder(t *testing.T) {
	// "Programme" hits concerts, "Titre" hits pieces: one indicator each.
	// Pieces is declared first, so pieces must win the tie.
	got := Classify([]string{"Titre", "Programme"})
	if got.Archetype != ArchetypePieces {
		t.Errorf("Classify = %s, want pieces on tie", got.Archetype)
	}
}

func TestClassification_RecomputeConfidence(t *testing.T) {
	c := Classification{Archetype: ArchetypePieces}

	c.RecomputeConfidence(3, 4)

	if c.Confidence != 75 {
		t.Errorf("Confidence = %.1f, want 75", c.Confidence)
	}

	c.RecomputeConfidence(0, 0)

	if c.Confidence != 0 {
		t.Errorf("Confidence = %.1f, want 0 for empty database", c.Confidence)
	}
}
