package notion

import (
	"reflect"
	"testing"
	"time"

	"github.com/jomei/notionapi"

	"pmsync/internal/logger"
)

func newTestExtractor() *Extractor {
	return NewExtractor(logger.NewNopLogger())
}

func richText(parts ...string) []notionapi.RichText {
	var rt []notionapi.RichText
	for _, p := range parts {
		rt = append(rt, notionapi.RichText{PlainText: p})
	}

	return rt
}

func TestExtractor_Extract(t *testing.T) {
	date := notionapi.Date(time.Date(2026, 4, 11, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name     string
		property notionapi.Property
		expected any
	}{
		{
			"title",
			&notionapi.TitleProperty{Title: richText("Ammerland")},
			"Ammerland",
		},
		{
			"title joins fragments",
			&notionapi.TitleProperty{Title: richText("Ammer", "land")},
			"Ammerland",
		},
		{
			"rich text",
			&notionapi.RichTextProperty{RichText: richText("Jacob de Haan")},
			"Jacob de Haan",
		},
		{
			"empty rich text",
			&notionapi.RichTextProperty{RichText: richText("  ")},
			nil,
		},
		{
			"number",
			&notionapi.NumberProperty{Number: 3},
			float64(3),
		},
		{
			"select",
			&notionapi.SelectProperty{Select: notionapi.Option{Name: "Validé"}},
			"Validé",
		},
		{
			"empty select",
			&notionapi.SelectProperty{},
			nil,
		},
		{
			"multi select",
			&notionapi.MultiSelectProperty{MultiSelect: []notionapi.Option{{Name: "Cuivres"}, {Name: "Bois"}}},
			[]string{"Cuivres", "Bois"},
		},
		{
			"checkbox",
			&notionapi.CheckboxProperty{Checkbox: true},
			true,
		},
		{
			"url",
			&notionapi.URLProperty{URL: "https://example.org/audio"},
			"https://example.org/audio",
		},
		{
			"empty url",
			&notionapi.URLProperty{},
			nil,
		},
		{
			"email",
			&notionapi.EmailProperty{Email: "contact@example.org"},
			"contact@example.org",
		},
		{
			"phone",
			&notionapi.PhoneNumberProperty{PhoneNumber: "+33 1 23 45 67 89"},
			"+33 1 23 45 67 89",
		},
		{
			"date",
			&notionapi.DateProperty{Date: &notionapi.DateObject{Start: &date}},
			"2026-04-11T00:00:00Z",
		},
		{
			"nil date",
			&notionapi.DateProperty{},
			nil,
		},
		{
			"relation",
			&notionapi.RelationProperty{Relation: []notionapi.Relation{{ID: "page-1"}, {ID: "page-2"}}},
			[]string{"page-1", "page-2"},
		},
		{
			"rollup number",
			&notionapi.RollupProperty{Rollup: notionapi.Rollup{Type: "number", Number: 12}},
			float64(12),
		},
		{
			"rollup array recurses",
			&notionapi.RollupProperty{Rollup: notionapi.Rollup{
				Type:  "array",
				Array: notionapi.PropertyArray{&notionapi.NumberProperty{Number: 7}},
			}},
			[]any{float64(7)},
		},
		{
			"formula string",
			&notionapi.FormulaProperty{Formula: notionapi.Formula{Type: "string", String: "3:10"}},
			"3:10",
		},
		{
			"formula number",
			&notionapi.FormulaProperty{Formula: notionapi.Formula{Type: "number", Number: 4.5}},
			4.5,
		},
		{
			"formula boolean",
			&notionapi.FormulaProperty{Formula: notionapi.Formula{Type: "boolean", Boolean: true}},
			true,
		},
	}

	e := newTestExtractor()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.property)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Extract = %#v, want %#v", got, tt.expected)
			}
		})
	}
}

func TestExtractor_Extract_UnknownType(t *testing.T) {
	e := newTestExtractor()

	// People properties are outside the supported union; must yield nil, not panic.
	if got := e.Extract(&notionapi.PeopleProperty{}); got != nil {
		t.Errorf("Extract(PeopleProperty) = %#v, want nil", got)
	}

	if got := e.Extract(nil); got != nil {
		t.Errorf("Extract(nil) = %#v, want nil", got)
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected bool
	}{
		{"nil", nil, true},
		{"blank string", "   ", true},
		{"string", "Ammerland", false},
		{"empty slice", []string{}, true},
		{"slice", []string{"a"}, false},
		{"zero number", float64(0), false},
		{"false checkbox", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEmpty(tt.value); got != tt.expected {
				t.Errorf("IsEmpty(%#v) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}
