package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Artifact is the hand-off contract between the sync stage and the
// render/inject stage. It is rebuilt from scratch on every sync run.
type Artifact struct {
	Pieces   []Piece          `json:"pieces"`
	Metadata ArtifactMetadata `json:"metadata"`
}

// ArtifactMetadata describes one sync run.
type ArtifactMetadata struct {
	SyncDate    time.Time `json:"syncDate"`
	RunID       string    `json:"runId"`
	TotalPieces int       `json:"totalPieces"`
	Databases   int       `json:"databases"`
	ContentHash string    `json:"contentHash"`
}

// ContentHash computes the SHA-256 hash of the canonical pieces JSON.
// Two artifacts with the same hash carry identical content regardless of
// sync date or run id, which lets consecutive runs be diffed cheaply.
func ContentHash(pieces []Piece) (string, error) {
	data, err := json.Marshal(pieces)
	if err != nil {
		return "", fmt.Errorf("failed to marshal pieces: %w", err)
	}

	hash := sha256.Sum256(data)

	return hex.EncodeToString(hash[:]), nil
}

// NewArtifact assembles an artifact with computed metadata.
func NewArtifact(pieces []Piece, runID string, databases int, syncDate time.Time) (*Artifact, error) {
	hash, err := ContentHash(pieces)
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Pieces: pieces,
		Metadata: ArtifactMetadata{
			SyncDate:    syncDate,
			RunID:       runID,
			TotalPieces: len(pieces),
			Databases:   databases,
			ContentHash: hash,
		},
	}, nil
}

// Save writes the artifact to a JSON file.
func (a *Artifact) Save(path string, prettyPrint bool) error {
	var (
		data []byte
		err  error
	)

	if prettyPrint {
		data, err = json.MarshalIndent(a, "", "  ")
	} else {
		data, err = json.Marshal(a)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}

	return nil
}

// LoadArtifact reads an artifact from a JSON file.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse artifact JSON: %w", err)
	}

	return &artifact, nil
}
