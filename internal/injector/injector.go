// Package injector replaces the inner content of a designated anchor element
// in the site's HTML document, leaving the rest of the document untouched.
package injector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pmsync/internal/logger"
)

// Injection errors. A missing anchor is a configuration error and fails
// loudly; everything else is recovered in place.
var (
	ErrAnchorMissing = errors.New("injection anchor not found and no fallback container exists")
	ErrEmptyDocument = errors.New("target document is empty")
)

// Options configures the injector for one document.
type Options struct {
	// AnchorID is the id of the element whose inner content is owned by the
	// injector.
	AnchorID string
	// FallbackSelector locates the broader container used when the anchor is
	// missing; a fresh anchor is created inside it.
	FallbackSelector string
	// MarkerClass is the per-piece marker counted by the corruption guard.
	MarkerClass string
	// MarkerThreshold is the marker count above which the document is treated
	// as corrupted by a prior buggy run and the anchor is fully cleared.
	MarkerThreshold int
}

// DefaultOptions match the site markup produced by the renderer.
func DefaultOptions() Options {
	return Options{
		AnchorID:         "notion-sections",
		FallbackSelector: ".tab-content",
		MarkerClass:      "piece-card",
		MarkerThreshold:  20,
	}
}

// Stats reports what one injection pass did.
type Stats struct {
	// Healed is true when the corruption guard cleared accumulated content.
	Healed bool
	// MarkersBefore and MarkersAfter count piece markers in the document.
	MarkersBefore int
	MarkersAfter  int
	// CreatedAnchor is true when the fallback path minted a fresh anchor.
	CreatedAnchor bool
}

// Injector performs targeted subtree replacement on a parsed document.
type Injector struct {
	opts Options
	log  *logger.Logger
}

// NewInjector creates a new injector instance.
func NewInjector(opts Options, log *logger.Logger) *Injector {
	return &Injector{opts: opts, log: log}
}

// Inject replaces the anchor's inner content with the fragments concatenated
// in the caller's fixed section order, and returns the serialized document.
// Fragment order is the caller's responsibility: it must not depend on Notion
// arrival order, so repeated runs produce a stable layout.
func (inj *Injector) Inject(document string, fragments []string) (string, Stats, error) {
	var stats Stats

	if strings.TrimSpace(document) == "" {
		return "", stats, ErrEmptyDocument
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return "", stats, fmt.Errorf("failed to parse document: %w", err)
	}

	markerSelector := "." + inj.opts.MarkerClass
	stats.MarkersBefore = doc.Find(markerSelector).Length()

	anchor := doc.Find("#" + inj.opts.AnchorID)

	// Corruption guard: a prior buggy run appended instead of replacing, so
	// more than one full sync's worth of markers means the anchor content
	// cannot be trusted. Clear it entirely before injecting.
	if stats.MarkersBefore > inj.opts.MarkerThreshold && anchor.Length() > 0 {
		inj.log.Warn("corrupted anchor content detected, clearing before injection",
			"markers", stats.MarkersBefore, "threshold", inj.opts.MarkerThreshold)

		anchor.Empty()

		stats.Healed = true
	}

	content := strings.Join(fragments, "\n")

	switch {
	case anchor.Length() > 0:
		anchor.SetHtml(content)
	default:
		fallback := doc.Find(inj.opts.FallbackSelector).First()
		if fallback.Length() == 0 {
			return "", stats, fmt.Errorf("%w: anchor #%s, fallback %q",
				ErrAnchorMissing, inj.opts.AnchorID, inj.opts.FallbackSelector)
		}

		inj.log.Warn("anchor missing, creating it inside fallback container",
			"anchor", inj.opts.AnchorID, "fallback", inj.opts.FallbackSelector)

		fallback.AppendHtml(fmt.Sprintf(`<div id="%s">%s</div>`, inj.opts.AnchorID, content))

		stats.CreatedAnchor = true
	}

	stats.MarkersAfter = doc.Find(markerSelector).Length()

	html, err := doc.Html()
	if err != nil {
		return "", stats, fmt.Errorf("failed to serialize document: %w", err)
	}

	return html, stats, nil
}

// CheckMarkerCount verifies the post-condition that the document carries
// exactly one marker per piece. Violations are logged, not fatal.
func (inj *Injector) CheckMarkerCount(stats Stats, expected int) bool {
	if stats.MarkersAfter == expected {
		return true
	}

	inj.log.Warn("piece marker count mismatch after injection",
		"expected", expected, "actual", stats.MarkersAfter)

	return false
}
