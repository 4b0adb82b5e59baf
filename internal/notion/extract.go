// Package notion fetches pages from the Notion API and extracts plain values
// from their typed properties.
package notion

import (
	"strings"
	"time"

	"github.com/jomei/notionapi"

	"pmsync/internal/logger"
)

// Extractor converts typed Notion property payloads into plain values.
type Extractor struct {
	log *logger.Logger
}

// NewExtractor creates a new extractor instance.
func NewExtractor(log *logger.Logger) *Extractor {
	return &Extractor{log: log}
}

// Extract returns the plain value of a property, dispatching on its concrete
// type. Composite types (rollup, formula) recurse into the nested payload.
// Unknown types yield nil plus a logged warning, never an error.
func (e *Extractor) Extract(prop notionapi.Property) any {
	switch p := prop.(type) {
	case *notionapi.TitleProperty:
		return richTextValue(p.Title)
	case *notionapi.RichTextProperty:
		return richTextValue(p.RichText)
	case *notionapi.NumberProperty:
		return p.Number
	case *notionapi.SelectProperty:
		if p.Select.Name == "" {
			return nil
		}

		return p.Select.Name
	case *notionapi.MultiSelectProperty:
		return optionNames(p.MultiSelect)
	case *notionapi.DateProperty:
		return dateValue(p.Date)
	case *notionapi.CheckboxProperty:
		return p.Checkbox
	case *notionapi.URLProperty:
		return stringValue(p.URL)
	case *notionapi.EmailProperty:
		return stringValue(p.Email)
	case *notionapi.PhoneNumberProperty:
		return stringValue(p.PhoneNumber)
	case *notionapi.RelationProperty:
		return relationIDs(p.Relation)
	case *notionapi.RollupProperty:
		return e.extractRollup(p.Rollup)
	case *notionapi.FormulaProperty:
		return e.extractFormula(p.Formula)
	default:
		if prop != nil {
			e.log.Warn("unsupported property type", "type", string(prop.GetType()))
		}

		return nil
	}
}

// extractRollup recurses into the rollup's nested typed payload.
func (e *Extractor) extractRollup(rollup notionapi.Rollup) any {
	switch rollup.Type {
	case "number":
		return rollup.Number
	case "date":
		return dateValue(rollup.Date)
	case "array":
		var values []any

		for _, item := range rollup.Array {
			if v := e.Extract(item); v != nil {
				values = append(values, v)
			}
		}

		if len(values) == 0 {
			return nil
		}

		return values
	default:
		e.log.Warn("unsupported rollup type", "type", string(rollup.Type))

		return nil
	}
}

// extractFormula recurses into the formula's computed result.
func (e *Extractor) extractFormula(formula notionapi.Formula) any {
	switch formula.Type {
	case "string":
		return stringValue(formula.String)
	case "number":
		return formula.Number
	case "boolean":
		return formula.Boolean
	case "date":
		return dateValue(formula.Date)
	default:
		e.log.Warn("unsupported formula type", "type", string(formula.Type))

		return nil
	}
}

// IsEmpty reports whether an extracted value carries no content. Empty values
// are omitted from mapped records.
func IsEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []string:
		return len(val) == 0
	case []any:
		return len(val) == 0
	default:
		return false
	}
}

func richTextValue(parts []notionapi.RichText) any {
	var sb strings.Builder

	for _, part := range parts {
		sb.WriteString(part.PlainText)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return nil
	}

	return text
}

func optionNames(options []notionapi.Option) any {
	var names []string

	for _, opt := range options {
		if opt.Name != "" {
			names = append(names, opt.Name)
		}
	}

	if len(names) == 0 {
		return nil
	}

	return names
}

func relationIDs(relations []notionapi.Relation) any {
	var ids []string

	for _, rel := range relations {
		ids = append(ids, string(rel.ID))
	}

	if len(ids) == 0 {
		return nil
	}

	return ids
}

func dateValue(date *notionapi.DateObject) any {
	if date == nil || date.Start == nil {
		return nil
	}

	value := time.Time(*date.Start).Format(time.RFC3339)
	if date.End != nil {
		value += " / " + time.Time(*date.End).Format(time.RFC3339)
	}

	return value
}

func stringValue(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	return s
}
