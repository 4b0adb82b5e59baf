// Package pipeline wires the sync and inject stages together: Notion fan-out,
// classification, field mapping, aggregation, rendering and injection.
package pipeline

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jomei/notionapi"
	"golang.org/x/sync/errgroup"

	"pmsync/internal/config"
	"pmsync/internal/logger"
	"pmsync/internal/mapper"
	"pmsync/internal/models"
	"pmsync/internal/notion"
	"pmsync/internal/report"
	"pmsync/internal/sections"
)

// maxConcurrentFetches caps the Notion fan-out.
const maxConcurrentFetches = 4

// Syncer runs the Notion-to-artifact half of the pipeline.
type Syncer struct {
	fetcher  *notion.Fetcher
	mapper   *mapper.FieldMapper
	resolver *sections.Resolver
	cfg      *config.Config
	log      *logger.Logger
}

// NewSyncer creates a syncer with its own per-run section resolver.
func NewSyncer(fetcher *notion.Fetcher, cfg *config.Config, log *logger.Logger) *Syncer {
	extractor := notion.NewExtractor(log)

	return &Syncer{
		fetcher:  fetcher,
		mapper:   mapper.NewFieldMapper(extractor),
		resolver: sections.NewResolver(),
		cfg:      cfg,
		log:      log,
	}
}

// fetchResult pairs one configured database with its fetch outcome. Results
// are collected by database position so concurrency never affects ordering.
type fetchResult struct {
	db   config.DatabaseConfig
	data *notion.DatabaseData
	err  error
}

// Sync fetches every enabled database concurrently, then processes the
// results in configuration order in a single deterministic pass. A failed
// fetch degrades to an empty database so partial Notion outages don't abort
// the whole run.
func (s *Syncer) Sync(ctx context.Context) (*models.Artifact, *report.Report, error) {
	databases := s.cfg.EnabledDatabases()

	results := make([]fetchResult, len(databases))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentFetches)

	for i, db := range databases {
		i, db := i, db
		group.Go(func() error {
			data, err := s.fetcher.FetchDatabase(groupCtx, db.ID)

			// Degrade, never fail the group: the error is surfaced in the
			// report and the database contributes zero pages.
			results[i] = fetchResult{db: db, data: data, err: err}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	runID := uuid.NewString()
	syncReport := &report.Report{RunID: runID, SyncDate: time.Now().UTC()}

	var pieces []models.Piece

	for _, result := range results {
		dbReport := report.DatabaseReport{ID: result.db.ID, Title: result.db.Name}

		if result.err != nil {
			s.log.Warn("database fetch failed, continuing without it",
				"database", result.db.ID, "error", result.err)

			dbReport.FetchError = result.err.Error()
			syncReport.AddWarning("fetch failed for database %s: %v", result.db.ID, result.err)
			syncReport.Databases = append(syncReport.Databases, dbReport)

			continue
		}

		dbPieces := s.processDatabase(result.data, &dbReport, syncReport)
		pieces = append(pieces, dbPieces...)

		syncReport.Databases = append(syncReport.Databases, dbReport)
	}

	artifact, err := models.NewArtifact(pieces, runID, len(databases), syncReport.SyncDate)
	if err != nil {
		return nil, nil, err
	}

	return artifact, syncReport, nil
}

// processDatabase classifies one fetched database and maps its pages to pieces.
func (s *Syncer) processDatabase(data *notion.DatabaseData, dbReport *report.DatabaseReport, syncReport *report.Report) []models.Piece {
	descriptor := data.Descriptor
	if descriptor.Title != "" {
		dbReport.Title = descriptor.Title
	}

	classification := mapper.Classify(descriptor.PropertyNames)
	if classification.Archetype == mapper.ArchetypeUnknown {
		s.log.Warn("database did not match any archetype, mapping best-effort",
			"database", descriptor.ID, "title", descriptor.Title)

		syncReport.AddWarning("database %q matched no archetype", descriptor.Title)
	}

	dbReport.Archetype = string(classification.Archetype)
	dbReport.SectionID = s.resolver.Resolve(descriptor.Title)
	dbReport.Pages = len(data.Pages)

	mappedFields, totalFields := 0, 0

	var pieces []models.Piece

	for i := range data.Pages {
		page := &data.Pages[i]

		result := s.mapper.MapPage(page, classification.Archetype)
		mappedFields += result.Mapped
		totalFields += result.Total

		syncReport.AddUnmapped(result.Unmapped)

		piece, ok := s.buildPiece(result.Record, page, descriptor.Title)
		if !ok {
			s.log.Debug("dropping page without title", "page", string(page.ID))

			continue
		}

		pieces = append(pieces, piece)
	}

	classification.RecomputeConfidence(mappedFields, totalFields)

	dbReport.Confidence = classification.Confidence
	dbReport.Pieces = len(pieces)

	return pieces
}

// buildPiece converts a mapped record into a Piece. A record without a
// non-empty title is dropped.
func (s *Syncer) buildPiece(record map[string]any, page *notionapi.Page, databaseTitle string) (models.Piece, bool) {
	title := stringField(record, "title")
	if title == "" {
		return models.Piece{}, false
	}

	piece := models.Piece{
		Title:    title,
		Composer: stringField(record, "composer"),
		Duration: stringField(record, "duration"),
		Info:     stringField(record, "info"),
		Source: models.Source{
			Database:     databaseTitle,
			PageID:       string(page.ID),
			LastModified: page.LastEditedTime,
		},
	}

	if links, ok := record["links"].(map[string]any); ok {
		piece.Links = models.Links{
			Audio:    stringField(links, "audio"),
			Original: stringField(links, "original"),
			Purchase: stringField(links, "purchase"),
		}
	}

	// Notion decodes a blank number cell as zero, and order columns are
	// 1-based, so a zero order means the cell was empty: the piece sorts
	// after all explicitly ordered pieces.
	if order, ok := numberField(record, "order"); ok && order != 0 {
		piece.Source.Order = &order
	} else if order, ok := orderFromProperties(page); ok {
		piece.Source.Order = &order
	}

	return piece, true
}

// orderFromProperties scans the raw page for a numeric property whose name
// contains "ordre" or "order", covering databases whose order column escaped
// the mapping table. Zero values are skipped, since a blank cell decodes as
// zero.
func orderFromProperties(page *notionapi.Page) (float64, bool) {
	names := make([]string, 0, len(page.Properties))
	for name := range page.Properties {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		lower := strings.ToLower(name)
		if !strings.Contains(lower, "ordre") && !strings.Contains(lower, "order") {
			continue
		}

		if number, ok := page.Properties[name].(*notionapi.NumberProperty); ok && number.Number != 0 {
			return number.Number, true
		}
	}

	return 0, false
}

func stringField(record map[string]any, field string) string {
	switch v := record[field].(type) {
	case string:
		return strings.TrimSpace(v)
	case []string:
		return strings.TrimSpace(strings.Join(v, ", "))
	default:
		return ""
	}
}

func numberField(record map[string]any, field string) (float64, bool) {
	v, ok := record[field].(float64)

	return v, ok
}
