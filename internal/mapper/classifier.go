// Package mapper classifies Notion databases against content archetypes and
// maps their property names onto canonical site fields.
package mapper

import "strings"

// Archetype identifies one of the expected content shapes.
type Archetype string

// Known archetypes. ArchetypeUnknown is returned when no indicator matches.
const (
	ArchetypePieces    Archetype = "pieces"
	ArchetypeConcerts  Archetype = "concerts"
	ArchetypeFinancing Archetype = "financing"
	ArchetypeEvents    Archetype = "events"
	ArchetypeUnknown   Archetype = "unknown"
)

// archetypeIndicators lists, in declaration order, the keywords whose presence
// in a property name counts toward an archetype. Ties between archetypes are
// broken by this order.
var archetypeIndicators = []struct {
	archetype Archetype
	keywords  []string
}{
	{ArchetypePieces, []string{
		"titre", "compositeur", "durée", "duree", "œuvre", "oeuvre",
		"morceau", "arrangeur", "audio", "partition",
	}},
	{ArchetypeConcerts, []string{
		"concert", "programme", "lieu", "salle", "heure", "répétition", "repetition",
	}},
	{ArchetypeFinancing, []string{
		"financement", "montant", "budget", "subvention", "coût", "cout", "financeur",
	}},
	{ArchetypeEvents, []string{
		"événement", "evenement", "agenda", "période", "periode", "date",
	}},
}

// Classification is the result of scoring a database's property names.
type Classification struct {
	Archetype  Archetype
	Score      int
	Confidence float64
}

// Classify scores the given property names against every archetype and
// returns the best match. Score is the count of property names containing any
// indicator keyword (case-insensitive substring). All-zero scores yield
// ArchetypeUnknown. Confidence is filled in later by RecomputeConfidence once
// the field mapper has run.
func Classify(propertyNames []string) Classification {
	best := Classification{Archetype: ArchetypeUnknown}

	for _, entry := range archetypeIndicators {
		score := 0

		for _, name := range propertyNames {
			lower := strings.ToLower(name)

			for _, keyword := range entry.keywords {
				if strings.Contains(lower, keyword) {
					score++

					break
				}
			}
		}

		// Strictly greater keeps declaration order as the tie-break.
		if score > best.Score {
			best = Classification{Archetype: entry.archetype, Score: score}
		}
	}

	return best
}

// RecomputeConfidence updates the confidence as the percentage of properties
// the field mapper managed to map.
func (c *Classification) RecomputeConfidence(mapped, total int) {
	if total == 0 {
		c.Confidence = 0

		return
	}

	c.Confidence = float64(mapped) / float64(total) * 100
}
