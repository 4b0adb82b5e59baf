package mapper

import (
	"sort"

	"pmsync/pkg/textutil"
)

// Suggestion proposes a canonical field for an unmapped property. Suggestions
// are presented to a human; they are never applied automatically.
type Suggestion struct {
	Property string  `json:"property"`
	Field    string  `json:"field"`
	Score    float64 `json:"score"`
}

// Distance computes the Levenshtein edit distance between two strings.
func Distance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}

	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i

		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			deletion := prev[j] + 1
			insertion := curr[j-1] + 1
			substitution := prev[j-1] + cost

			curr[j] = minInt(deletion, minInt(insertion, substitution))
		}

		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// Similarity scores two strings in [0, 1] from their normalized edit distance.
// Inputs are lowercased and accent-folded before comparison.
func Similarity(a, b string) float64 {
	na := textutil.NormalizeKey(a)
	nb := textutil.NormalizeKey(b)

	if na == nb {
		return 1
	}

	longest := len(na)
	if len(nb) > longest {
		longest = len(nb)
	}

	if longest == 0 {
		return 0
	}

	return 1 - float64(Distance(na, nb))/float64(longest)
}

// Suggest proposes canonical fields for an unmapped property, scoring the
// property name against every alias of the archetype's table and keeping the
// best score per field. Results at or above the threshold are returned sorted
// by descending score, then field name for stable output.
func Suggest(property string, archetype Archetype, threshold float64) []Suggestion {
	best := map[string]float64{}

	for _, entry := range fieldTables[archetype] {
		for _, alias := range entry.aliases {
			score := Similarity(property, alias)
			if score > best[entry.field] {
				best[entry.field] = score
			}
		}
	}

	var suggestions []Suggestion

	for field, score := range best {
		if score >= threshold {
			suggestions = append(suggestions, Suggestion{
				Property: property,
				Field:    field,
				Score:    score,
			})
		}
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}

		return suggestions[i].Field < suggestions[j].Field
	})

	return suggestions
}

func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}
