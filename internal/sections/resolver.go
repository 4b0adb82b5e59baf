// Package sections resolves Notion database titles to fixed site section ids.
package sections

import (
	"regexp"
	"strings"

	"pmsync/pkg/textutil"
)

// knownTitles maps normalized database titles to their section ids.
// Keys use the ASCII apostrophe; lookups normalize apostrophe variants first.
var knownTitles = map[string]string{
	"Ma région virtuose":                        "ma-region-virtuose",
	"Ma Région Virtuose":                        "ma-region-virtuose",
	"Concert du 11 d'avril":                     "concert-avril",
	"Concert du 11 d'avril - Programme musical": "concert-avril",
	"Fête de la musique":                        "fete-musique",
	"Fête de la musique 2026":                   "fete-musique",
	"Financements":                              "financements",
	"Financement du programme":                  "financements",
}

// titlePatterns is scanned in order against the lowercased normalized title;
// the first match wins. Patterns tolerate minor title edits in Notion.
var titlePatterns = []struct {
	re *regexp.Regexp
	id string
}{
	// Anchored so variants like "Ma Région Virtuose 2" fall through to the
	// slug fallback instead of folding into the original section.
	{regexp.MustCompile(`^ma r[ée]gion virtuose$`), "ma-region-virtuose"},
	{regexp.MustCompile(`concert.*avril`), "concert-avril"},
	{regexp.MustCompile(`^f[êe]te de la musique( \d{4})?$`), "fete-musique"},
	{regexp.MustCompile(`financ`), "financements"},
}

// Resolver maps database titles to section ids. Matches found via the pattern
// table are cached for the remainder of the run, so repeated titles resolve
// without re-scanning. Resolution is deterministic for a given title.
type Resolver struct {
	cache map[string]string
}

// NewResolver creates a resolver seeded with the known title table.
func NewResolver() *Resolver {
	cache := make(map[string]string, len(knownTitles))
	for title, id := range knownTitles {
		cache[title] = id
	}

	return &Resolver{cache: cache}
}

// Resolve returns the section id for a database title. Resolution order:
// exact lookup on the apostrophe-normalized title, pattern table scan, slug
// fallback. Every non-empty title yields a non-empty stable id.
func (r *Resolver) Resolve(title string) string {
	normalized := strings.TrimSpace(textutil.NormalizeApostrophes(title))

	if id, ok := r.cache[normalized]; ok {
		return id
	}

	lower := strings.ToLower(normalized)

	for _, entry := range titlePatterns {
		if entry.re.MatchString(lower) {
			r.cache[normalized] = entry.id

			return entry.id
		}
	}

	slug := textutil.Slugify(normalized)
	if slug == "" {
		slug = "section"
	}

	r.cache[normalized] = slug

	return slug
}
