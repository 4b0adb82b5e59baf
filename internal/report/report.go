// Package report collects sync diagnostics: per-database classification
// results, unmapped properties and dropped duplicates.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"pmsync/internal/mapper"
)

// DatabaseReport summarizes one synchronized database.
type DatabaseReport struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Archetype  string  `json:"archetype"`
	SectionID  string  `json:"sectionId"`
	Confidence float64 `json:"confidence"`
	Pages      int     `json:"pages"`
	Pieces     int     `json:"pieces"`
	FetchError string  `json:"fetchError,omitempty"`
}

// Report is the diagnostics artifact of one sync run, consumed by the
// suggest tool.
type Report struct {
	RunID     string                    `json:"runId"`
	SyncDate  time.Time                 `json:"syncDate"`
	Databases []DatabaseReport          `json:"databases"`
	Unmapped  []mapper.UnmappedProperty `json:"unmapped,omitempty"`
	Warnings  []string                  `json:"warnings,omitempty"`
}

// AddWarning records a recoverable problem.
func (r *Report) AddWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// AddUnmapped merges unmapped properties, skipping pairs already recorded so
// a database with many pages reports each property once.
func (r *Report) AddUnmapped(entries []mapper.UnmappedProperty) {
	for _, entry := range entries {
		if !r.hasUnmapped(entry) {
			r.Unmapped = append(r.Unmapped, entry)
		}
	}
}

func (r *Report) hasUnmapped(entry mapper.UnmappedProperty) bool {
	for _, existing := range r.Unmapped {
		if existing == entry {
			return true
		}
	}

	return false
}

// Save writes the report to a JSON file.
func (r *Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// LoadReport reads a report from a JSON file.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report JSON: %w", err)
	}

	return &report, nil
}

// DatabaseTable renders the per-database summary as an aligned text table.
func (r *Report) DatabaseTable() string {
	rows := [][]string{{"Database", "Archetype", "Section", "Confidence", "Pages", "Pieces"}}

	for _, db := range r.Databases {
		confidence := fmt.Sprintf("%.0f%%", db.Confidence)
		if db.FetchError != "" {
			confidence = "-"
		}

		rows = append(rows, []string{
			db.Title,
			db.Archetype,
			db.SectionID,
			confidence,
			fmt.Sprintf("%d", db.Pages),
			fmt.Sprintf("%d", db.Pieces),
		})
	}

	return RenderTable(rows)
}

// String returns a one-line summary of the report.
func (r *Report) String() string {
	pieces := 0
	for _, db := range r.Databases {
		pieces += db.Pieces
	}

	return fmt.Sprintf("Report{Databases: %d, Pieces: %d, Unmapped: %d, Warnings: %d}",
		len(r.Databases), pieces, len(r.Unmapped), len(r.Warnings))
}

// PrintWarnings writes warnings and unmapped properties to stdout.
func (r *Report) PrintWarnings() {
	for _, warning := range r.Warnings {
		fmt.Printf("⚠️  %s\n", warning)
	}

	if len(r.Unmapped) > 0 {
		fmt.Printf("⚠️  %d unmapped properties (run the suggest tool for mapping proposals):\n", len(r.Unmapped))

		for _, entry := range r.Unmapped {
			fmt.Printf("  - [%s] %s\n", entry.Archetype, entry.Property)
		}
	}
}

// sectionIDsLine joins distinct section ids for display.
func sectionIDsLine(dbs []DatabaseReport) string {
	var (
		ids  []string
		seen = map[string]bool{}
	)

	for _, db := range dbs {
		if db.SectionID != "" && !seen[db.SectionID] {
			seen[db.SectionID] = true

			ids = append(ids, db.SectionID)
		}
	}

	return strings.Join(ids, ", ")
}

// PrintSummary writes the full report to stdout.
func (r *Report) PrintSummary() {
	fmt.Println(r.DatabaseTable())

	if line := sectionIDsLine(r.Databases); line != "" {
		fmt.Printf("Sections: %s\n", line)
	}

	r.PrintWarnings()
}
