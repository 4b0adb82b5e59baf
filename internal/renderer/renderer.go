// Package renderer turns ordered sections into HTML fragments for injection.
package renderer

import (
	"fmt"
	"html/template"
	"strings"

	"pmsync/internal/models"
)

// pieceCardClass is the marker class counted by the injector's corruption
// guard and post-condition check.
const pieceCardClass = "piece-card"

const fragmentTemplates = `
{{- define "piece" -}}
<div class="piece-card">
<h4 class="piece-title">{{.Title}}</h4>
{{- if .Composer}}
<p class="piece-composer">{{.Composer}}</p>
{{- end}}
{{- if .Duration}}
<p class="piece-duration">{{.Duration}}</p>
{{- end}}
{{- if .Info}}
<p class="piece-info">{{.Info}}</p>
{{- end}}
{{- if .Links}}
<div class="piece-links">
{{- range .Links}}
<a class="piece-link piece-link-{{.Kind}}" href="{{.URL}}" target="_blank" rel="noopener">{{.Label}}</a>
{{- end}}
</div>
{{- end}}
</div>
{{- end -}}

{{- define "section" -}}
<section class="program-section" id="section-{{.ID}}">
<div class="section-header">
<h3 class="section-title">{{.Title}}</h3>
{{- if .TotalDuration}}
<span class="section-duration">{{.TotalDuration}}</span>
{{- end}}
</div>
<div class="pieces-grid">
{{- range .Pieces}}
{{template "piece" .}}
{{- end}}
</div>
</section>
{{- end -}}
`

// linkView is one rendered link button.
type linkView struct {
	Kind  string
	Label string
	URL   string
}

// pieceView is the template model for one piece card.
type pieceView struct {
	Title    string
	Composer string
	Duration string
	Info     string
	Links    []linkView
}

// sectionView is the template model for one section fragment.
type sectionView struct {
	ID            string
	Title         string
	TotalDuration string
	Pieces        []pieceView
}

// Renderer renders section fragments through a single template per entity.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the fragment templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("fragments").Parse(fragmentTemplates)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fragment templates: %w", err)
	}

	return &Renderer{tmpl: tmpl}, nil
}

// RenderSection renders one ordered section into an HTML fragment. The piece
// title is mandatory; composer, duration, info and link buttons appear only
// when present.
func (r *Renderer) RenderSection(section *models.Section) (string, error) {
	view := sectionView{
		ID:    section.ID,
		Title: section.Title,
	}

	durations := make([]string, 0, len(section.Pieces))

	for _, piece := range section.Pieces {
		durations = append(durations, piece.Duration)
		view.Pieces = append(view.Pieces, newPieceView(piece))
	}

	view.TotalDuration = FormatTotalDuration(TotalDurationSeconds(durations))

	var sb strings.Builder
	if err := r.tmpl.ExecuteTemplate(&sb, "section", view); err != nil {
		return "", fmt.Errorf("failed to render section %s: %w", section.ID, err)
	}

	return sb.String(), nil
}

func newPieceView(piece models.Piece) pieceView {
	view := pieceView{
		Title:    piece.Title,
		Composer: piece.Composer,
		Duration: piece.Duration,
		Info:     piece.Info,
	}

	if piece.Links.Audio != "" {
		view.Links = append(view.Links, linkView{Kind: "audio", Label: "🎧 Écouter", URL: piece.Links.Audio})
	}

	if piece.Links.Original != "" {
		view.Links = append(view.Links, linkView{Kind: "original", Label: "🎼 Œuvre originale", URL: piece.Links.Original})
	}

	if piece.Links.Purchase != "" {
		view.Links = append(view.Links, linkView{Kind: "purchase", Label: "🛒 Acheter", URL: piece.Links.Purchase})
	}

	return view
}

// MarkerClass returns the piece marker class shared with the injector.
func MarkerClass() string {
	return pieceCardClass
}
