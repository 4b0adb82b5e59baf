package pipeline

import (
	"fmt"
	"os"
	"sort"

	"pmsync/internal/aggregator"
	"pmsync/internal/config"
	"pmsync/internal/injector"
	"pmsync/internal/logger"
	"pmsync/internal/models"
	"pmsync/internal/renderer"
	"pmsync/internal/sections"
)

// Publisher runs the artifact-to-HTML half of the pipeline: aggregate,
// render, inject, write.
type Publisher struct {
	aggregator *aggregator.Aggregator
	renderer   *renderer.Renderer
	injector   *injector.Injector
	cfg        *config.Config
	log        *logger.Logger
}

// NewPublisher creates a publisher for the configured site.
func NewPublisher(cfg *config.Config, log *logger.Logger) (*Publisher, error) {
	rend, err := renderer.NewRenderer()
	if err != nil {
		return nil, err
	}

	opts := injector.Options{
		AnchorID:         cfg.Site.AnchorID,
		FallbackSelector: ".tab-content",
		MarkerClass:      cfg.Site.MarkerClass,
		MarkerThreshold:  cfg.Site.MarkerThreshold,
	}

	return &Publisher{
		aggregator: aggregator.NewAggregator(sections.NewResolver(), log),
		renderer:   rend,
		injector:   injector.NewInjector(opts, log),
		cfg:        cfg,
		log:        log,
	}, nil
}

// PublishResult reports what one publish pass did.
type PublishResult struct {
	Sections   int
	Pieces     int
	Duplicates int
	Stats      injector.Stats
}

// Publish aggregates the artifact's pieces, renders one fragment per
// non-empty section in the configured fixed order, and injects them into the
// HTML document at htmlPath, writing the result to outputPath.
func (p *Publisher) Publish(artifact *models.Artifact, htmlPath, outputPath string) (*PublishResult, error) {
	document, err := os.ReadFile(htmlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read HTML document: %w", err)
	}

	result := p.aggregator.Aggregate(artifact.Pieces)

	ordered := orderSections(result, p.cfg.Site.SectionOrder)

	var (
		fragments []string
		pieces    int
	)

	for _, section := range ordered {
		if len(section.Pieces) == 0 {
			continue
		}

		section.Title = p.cfg.SectionTitle(section.ID, section.Title)

		fragment, err := p.renderer.RenderSection(section)
		if err != nil {
			return nil, err
		}

		fragments = append(fragments, fragment)
		pieces += len(section.Pieces)
	}

	updated, stats, err := p.injector.Inject(string(document), fragments)
	if err != nil {
		return nil, err
	}

	p.injector.CheckMarkerCount(stats, pieces)

	// The backup is a copy, not a rename: if the write below fails, the
	// original document is still in place.
	if p.cfg.Site.CreateBackup && outputPath == htmlPath {
		if backupErr := os.WriteFile(htmlPath+".bak", document, 0644); backupErr != nil {
			p.log.Warn("could not create backup", "error", backupErr)
		}
	}

	if err := os.WriteFile(outputPath, []byte(updated), 0644); err != nil {
		return nil, fmt.Errorf("failed to write HTML document: %w", err)
	}

	return &PublishResult{
		Sections:   len(fragments),
		Pieces:     pieces,
		Duplicates: len(result.Duplicates),
		Stats:      stats,
	}, nil
}

// orderSections returns the aggregated sections in the configured fixed
// order. Sections absent from the configuration are appended in slug order so
// freshly-minted databases are never silently dropped.
func orderSections(result *aggregator.Result, sectionOrder []string) []*models.Section {
	var ordered []*models.Section

	placed := map[string]bool{}

	for _, id := range sectionOrder {
		if section, ok := result.Sections[id]; ok {
			ordered = append(ordered, section)
			placed[id] = true
		}
	}

	var extra []string

	for id := range result.Sections {
		if !placed[id] {
			extra = append(extra, id)
		}
	}

	sort.Strings(extra)

	for _, id := range extra {
		ordered = append(ordered, result.Sections[id])
	}

	return ordered
}
