package mapper

import (
	"sort"
	"strings"

	"github.com/jomei/notionapi"

	"pmsync/internal/notion"
	"pmsync/pkg/textutil"
)

// fieldAlias binds a canonical destination field to the source property names
// that may carry it. Canonical fields support dotted paths (links.audio) which
// expand into nested maps.
type fieldAlias struct {
	field   string
	aliases []string
}

// fieldTables lists the per-archetype mapping tables, in resolution order.
var fieldTables = map[Archetype][]fieldAlias{
	ArchetypePieces: {
		{"title", []string{"titre", "title", "nom", "name", "oeuvre", "œuvre", "morceau"}},
		{"composer", []string{"compositeur", "composer", "auteur"}},
		{"duration", []string{"durée", "duree", "duration", "temps"}},
		{"info", []string{"info", "infos", "informations", "description", "commentaire", "notes", "remarques"}},
		{"links.audio", []string{"lien audio", "audio", "écoute", "ecoute", "enregistrement", "youtube"}},
		{"links.original", []string{"lien original", "original", "version originale", "oeuvre originale"}},
		{"links.purchase", []string{"lien achat", "achat", "acheter", "partition", "boutique", "purchase"}},
		{"order", []string{"ordre", "order", "position"}},
	},
	ArchetypeConcerts: {
		{"title", []string{"titre", "title", "nom", "name", "concert"}},
		{"date", []string{"date"}},
		{"venue", []string{"lieu", "salle", "adresse"}},
		{"time", []string{"heure", "horaire"}},
		{"program", []string{"programme", "program"}},
		{"info", []string{"info", "description", "commentaire", "notes"}},
		{"order", []string{"ordre", "order", "position"}},
	},
	ArchetypeFinancing: {
		{"title", []string{"titre", "title", "nom", "name", "financement"}},
		{"amount", []string{"montant", "budget", "somme"}},
		{"funder", []string{"financeur", "source", "organisme", "partenaire"}},
		{"status", []string{"statut", "status", "état", "etat"}},
		{"date", []string{"date", "échéance", "echeance"}},
		{"info", []string{"info", "description", "commentaire", "notes"}},
	},
	ArchetypeEvents: {
		{"title", []string{"titre", "title", "nom", "name", "événement", "evenement"}},
		{"date", []string{"date", "période", "periode"}},
		{"venue", []string{"lieu", "salle"}},
		{"info", []string{"info", "description", "commentaire", "notes"}},
		{"order", []string{"ordre", "order", "position"}},
	},
}

// UnmappedProperty records a property the mapper could not resolve, for the
// diagnostics report. The mapper never fuzzy-guesses at map time; suggestions
// are offered separately by the suggest tool.
type UnmappedProperty struct {
	Archetype Archetype `json:"archetype"`
	Property  string    `json:"property"`
}

// MapResult is the outcome of mapping one page.
type MapResult struct {
	Record   map[string]any
	Mapped   int
	Total    int
	Unmapped []UnmappedProperty
}

// FieldMapper maps page properties onto canonical fields.
type FieldMapper struct {
	extractor *notion.Extractor
}

// NewFieldMapper creates a new field mapper using the given extractor.
func NewFieldMapper(extractor *notion.Extractor) *FieldMapper {
	return &FieldMapper{extractor: extractor}
}

// MapPage resolves every property of the page against the archetype's mapping
// table. Resolution order per property: exact match, case-insensitive match,
// substring match in either direction. Properties that stay unresolved are
// recorded for diagnostics; fields whose extracted value is empty are omitted.
func (m *FieldMapper) MapPage(page *notionapi.Page, archetype Archetype) MapResult {
	table := fieldTables[archetype]

	result := MapResult{Record: map[string]any{}}

	// Property names sorted for deterministic mapping and diagnostics order.
	names := make([]string, 0, len(page.Properties))
	for name := range page.Properties {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		result.Total++

		field, ok := resolveField(name, table)
		if !ok {
			result.Unmapped = append(result.Unmapped, UnmappedProperty{
				Archetype: archetype,
				Property:  name,
			})

			continue
		}

		value := m.extractor.Extract(page.Properties[name])
		if notion.IsEmpty(value) {
			result.Mapped++

			continue
		}

		setField(result.Record, field, value)

		result.Mapped++
	}

	return result
}

// resolveField finds the canonical field for a property name, trying the
// three resolution passes over the whole table before giving up.
func resolveField(name string, table []fieldAlias) (string, bool) {
	// Pass 1: exact match.
	for _, entry := range table {
		for _, alias := range entry.aliases {
			if name == alias {
				return entry.field, true
			}
		}
	}

	key := textutil.NormalizeKey(name)

	// Pass 2: case-insensitive (accent-folded) match.
	for _, entry := range table {
		for _, alias := range entry.aliases {
			if key == textutil.NormalizeKey(alias) {
				return entry.field, true
			}
		}
	}

	// Pass 3: substring match in either direction.
	for _, entry := range table {
		for _, alias := range entry.aliases {
			aliasKey := textutil.NormalizeKey(alias)
			if strings.Contains(key, aliasKey) || strings.Contains(aliasKey, key) {
				return entry.field, true
			}
		}
	}

	return "", false
}

// setField stores a value under a dotted canonical path, expanding
// intermediate segments into nested maps.
func setField(record map[string]any, path string, value any) {
	segments := strings.Split(path, ".")

	current := record
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[segment] = next
		}

		current = next
	}

	current[segments[len(segments)-1]] = value
}

// CanonicalFields returns the archetype's destination fields in table order,
// for the suggestion tool.
func CanonicalFields(archetype Archetype) []string {
	table := fieldTables[archetype]

	fields := make([]string, 0, len(table))
	for _, entry := range table {
		fields = append(fields, entry.field)
	}

	return fields
}
