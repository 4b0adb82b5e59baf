// Package textutil provides string normalization helpers shared by the
// section resolver, the field mapper and the aggregator.
package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// apostropheReplacer folds the apostrophe variants Notion editors produce
// (curly quotes, backtick, acute accent) to the plain ASCII apostrophe.
var apostropheReplacer = strings.NewReplacer(
	"’", "'", // right single quotation mark
	"‘", "'", // left single quotation mark
	"`", "'",
	"´", "'", // acute accent
)

// accentReplacer folds the accented Latin characters appearing in French
// titles and property names to their ASCII equivalents.
var accentReplacer = strings.NewReplacer(
	"à", "a", "â", "a", "ä", "a", "á", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"î", "i", "ï", "i", "í", "i",
	"ô", "o", "ö", "o", "ó", "o",
	"ù", "u", "û", "u", "ü", "u", "ú", "u",
	"ç", "c", "ñ", "n",
	"œ", "oe", "æ", "ae",
	"À", "a", "Â", "a", "Ä", "a",
	"É", "e", "È", "e", "Ê", "e", "Ë", "e",
	"Î", "i", "Ï", "i",
	"Ô", "o", "Ö", "o",
	"Ù", "u", "Û", "u", "Ü", "u",
	"Ç", "c", "Œ", "oe", "Æ", "ae",
)

// NormalizeApostrophes replaces apostrophe variants with the ASCII apostrophe.
func NormalizeApostrophes(s string) string {
	return apostropheReplacer.Replace(s)
}

// FoldAccents replaces accented characters with their ASCII equivalents.
func FoldAccents(s string) string {
	return accentReplacer.Replace(s)
}

// NormalizeKey lowercases, strips accents and collapses whitespace, producing
// a comparison key for deduplication and matching.
func NormalizeKey(s string) string {
	s = strings.ToLower(FoldAccents(NormalizeApostrophes(s)))

	return strings.Join(strings.Fields(s), " ")
}

// maxSlugLength caps generated slugs so novel database titles stay usable as ids.
const maxSlugLength = 50

// Slugify derives a URL-safe id from a human-readable title: lowercase,
// accents stripped, non-alphanumerics collapsed to single hyphens.
func Slugify(title string) string {
	folded := strings.ToLower(FoldAccents(NormalizeApostrophes(title)))

	var sb strings.Builder

	lastHyphen := true // suppress leading hyphen

	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)

			lastHyphen = false
		default:
			if !lastHyphen {
				sb.WriteByte('-')

				lastHyphen = true
			}
		}
	}

	slug := strings.Trim(sb.String(), "-")
	if len(slug) > maxSlugLength {
		cut := maxSlugLength
		for cut > 0 && !utf8.RuneStart(slug[cut]) {
			cut--
		}

		slug = strings.Trim(slug[:cut], "-")
	}

	return slug
}
