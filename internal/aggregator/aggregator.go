// Package aggregator groups mapped pieces into section buckets, deduplicates
// them and applies the per-section ordering rules.
package aggregator

import (
	"fmt"
	"sort"

	"pmsync/internal/logger"
	"pmsync/internal/models"
	"pmsync/internal/sections"
	"pmsync/pkg/textutil"
)

// Aggregator assembles section buckets from a flat piece list.
type Aggregator struct {
	resolver *sections.Resolver
	log      *logger.Logger
}

// NewAggregator creates a new aggregator instance.
func NewAggregator(resolver *sections.Resolver, log *logger.Logger) *Aggregator {
	return &Aggregator{resolver: resolver, log: log}
}

// Result carries the aggregated sections plus dedup diagnostics.
type Result struct {
	// Sections keyed by section id.
	Sections map[string]*models.Section
	// SectionIDs in first-seen order, for callers that need every bucket.
	SectionIDs []string
	// Duplicates lists the dropped (title, composer) keys, for the report.
	Duplicates []string
}

// Aggregate groups pieces by their resolved section, drops duplicates by
// normalized (title, composer) key — first occurrence wins — and sorts each
// bucket. The same musical piece can arrive once from the primary sync and
// again from a legacy data file, so duplicates are expected, not errors.
func (a *Aggregator) Aggregate(pieces []models.Piece) *Result {
	result := &Result{Sections: map[string]*models.Section{}}

	seen := map[string]bool{}

	for _, piece := range pieces {
		key := dedupKey(piece)
		if seen[key] {
			result.Duplicates = append(result.Duplicates, key)

			a.log.Warn("dropping duplicate piece", "title", piece.Title, "composer", piece.Composer)

			continue
		}

		seen[key] = true

		sectionID := a.resolver.Resolve(piece.Source.Database)

		section, ok := result.Sections[sectionID]
		if !ok {
			section = &models.Section{ID: sectionID, Title: piece.Source.Database}
			result.Sections[sectionID] = section
			result.SectionIDs = append(result.SectionIDs, sectionID)
		}

		section.Pieces = append(section.Pieces, piece)
	}

	for _, section := range result.Sections {
		sortPieces(section.Pieces)
	}

	return result
}

// dedupKey builds the normalized (title, composer) deduplication key.
func dedupKey(piece models.Piece) string {
	return fmt.Sprintf("%s|%s",
		textutil.NormalizeKey(piece.Title),
		textutil.NormalizeKey(piece.Composer),
	)
}

// sortPieces orders a section bucket: explicitly ordered pieces first by
// ascending order value, then unordered pieces by last-modified timestamp
// with page id as tie-break. The sort is stable, so equal pieces keep their
// insertion order.
func sortPieces(pieces []models.Piece) {
	sort.SliceStable(pieces, func(i, j int) bool {
		a, b := pieces[i], pieces[j]

		switch {
		case a.HasOrder() && b.HasOrder():
			return *a.Source.Order < *b.Source.Order
		case a.HasOrder():
			return true
		case b.HasOrder():
			return false
		default:
			if !a.Source.LastModified.Equal(b.Source.LastModified) {
				return a.Source.LastModified.Before(b.Source.LastModified)
			}

			return a.Source.PageID < b.Source.PageID
		}
	})
}
