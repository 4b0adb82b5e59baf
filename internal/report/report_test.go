package report

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"pmsync/internal/mapper"
)

func TestRenderTable(t *testing.T) {
	rows := [][]string{
		{"Database", "Pieces"},
		{"Fête de la musique", "12"},
		{"Financements", "3"},
	}

	table := RenderTable(rows)

	lines := strings.Split(table, "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4 (header, separator, 2 rows)", len(lines))
	}

	if !strings.Contains(lines[1], "---") {
		t.Errorf("separator missing after header: %q", lines[1])
	}

	// Accented titles must not break column alignment: every line renders at
	// the same display width even though byte lengths differ.
	width := runewidth.StringWidth(lines[0])
	for i, line := range lines {
		if got := runewidth.StringWidth(line); got != width {
			t.Errorf("line %d display width = %d, want %d: %q", i, got, width, line)
		}
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(nil); got != "" {
		t.Errorf("RenderTable(nil) = %q, want empty", got)
	}
}

func TestReport_AddUnmappedDeduplicates(t *testing.T) {
	r := &Report{}

	first := []mapper.UnmappedProperty{
		{Archetype: mapper.ArchetypePieces, Property: "Mystery Prop"},
		{Archetype: mapper.ArchetypePieces, Property: "Autre"},
	}

	// Same page-level unmapped list arrives once per page.
	r.AddUnmapped(first)
	r.AddUnmapped(first)

	if len(r.Unmapped) != 2 {
		t.Errorf("Unmapped = %d, want 2 after dedup", len(r.Unmapped))
	}

	// Same property name under a different archetype is a distinct entry.
	r.AddUnmapped([]mapper.UnmappedProperty{
		{Archetype: mapper.ArchetypeFinancing, Property: "Mystery Prop"},
	})

	if len(r.Unmapped) != 3 {
		t.Errorf("Unmapped = %d, want 3", len(r.Unmapped))
	}
}

func TestReport_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync-report.json")

	original := &Report{
		RunID:    "run-1",
		SyncDate: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Databases: []DatabaseReport{
			{ID: "db-1", Title: "Ma région virtuose", Archetype: "pieces", SectionID: "ma-region-virtuose", Confidence: 87.5, Pages: 10, Pieces: 9},
			{ID: "db-2", Title: "Financements", FetchError: "service unavailable"},
		},
		Unmapped: []mapper.UnmappedProperty{{Archetype: mapper.ArchetypePieces, Property: "Mystery Prop"}},
		Warnings: []string{"database db-2 unreachable"},
	}

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadReport(path)
	if err != nil {
		t.Fatalf("LoadReport failed: %v", err)
	}

	if loaded.RunID != original.RunID {
		t.Errorf("RunID = %q", loaded.RunID)
	}

	if len(loaded.Databases) != 2 || loaded.Databases[1].FetchError != "service unavailable" {
		t.Errorf("Databases did not round-trip: %+v", loaded.Databases)
	}

	if len(loaded.Unmapped) != 1 || loaded.Unmapped[0].Property != "Mystery Prop" {
		t.Errorf("Unmapped did not round-trip: %+v", loaded.Unmapped)
	}
}

func TestLoadReport_MissingFile(t *testing.T) {
	if _, err := LoadReport(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("LoadReport should fail for a missing file")
	}
}

func TestReport_DatabaseTable(t *testing.T) {
	r := &Report{
		Databases: []DatabaseReport{
			{Title: "Ma région virtuose", Archetype: "pieces", SectionID: "ma-region-virtuose", Confidence: 90, Pages: 10, Pieces: 9},
			{Title: "Financements", Archetype: "financing", SectionID: "financements", FetchError: "timeout"},
		},
	}

	table := r.DatabaseTable()

	if !strings.Contains(table, "90%") {
		t.Errorf("table missing confidence column:\n%s", table)
	}

	// Failed databases show a dash instead of a bogus confidence.
	if !strings.Contains(table, " - ") {
		t.Errorf("table missing dash for failed fetch:\n%s", table)
	}
}

func TestReport_String(t *testing.T) {
	r := &Report{
		Databases: []DatabaseReport{{Pieces: 4}, {Pieces: 2}},
		Warnings:  []string{"w"},
	}

	got := r.String()
	want := "Report{Databases: 2, Pieces: 6, Unmapped: 0, Warnings: 1}"

	if got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}
