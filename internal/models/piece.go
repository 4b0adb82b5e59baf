// Package models defines data structures shared by the sync and inject stages.
package models

import "time"

// Links holds the optional external links of a piece.
type Links struct {
	Audio    string `json:"audio,omitempty"`
	Original string `json:"original,omitempty"`
	Purchase string `json:"purchase,omitempty"`
}

// Source records where a piece came from. Section membership is derived from
// Database via the section resolver on every run, never stored.
type Source struct {
	Database     string    `json:"database"`
	PageID       string    `json:"pageId"`
	LastModified time.Time `json:"lastModified"`
	Order        *float64  `json:"order,omitempty"`
}

// Piece represents one musical piece mapped from a Notion page.
// Title is required; a piece with an empty title is dropped during sync.
type Piece struct {
	Title    string `json:"title"`
	Composer string `json:"composer,omitempty"`
	Duration string `json:"duration,omitempty"`
	Info     string `json:"info,omitempty"`
	Links    Links  `json:"links"`
	Source   Source `json:"source"`
}

// HasOrder reports whether the piece carries an explicit sort order.
func (p *Piece) HasOrder() bool {
	return p.Source.Order != nil
}

// Section is a transient aggregate of ordered pieces, rebuilt fully on every run.
type Section struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Pieces []Piece `json:"pieces"`
}

// DatabaseDescriptor carries the classification inputs of one Notion database.
// Ephemeral, recomputed on each run.
type DatabaseDescriptor struct {
	ID            string
	Title         string
	PropertyNames []string
}
