package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// FileName is the manifest file written next to the generated book.
const FileName = "build-manifest.json"

// BuildManifest records a build's inputs and outputs so a finished output
// directory can be traced back to the wiki state it was generated from.
type BuildManifest struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Inputs    Inputs    `json:"inputs"`
	Outputs   Outputs   `json:"outputs"`
	Status    string    `json:"status"`
	Duration  int64     `json:"duration_ms"`
}

// Inputs captures where the book content came from.
type Inputs struct {
	WikiURL     string `json:"wiki_url"`
	ExportRoot  string `json:"export_root"`
	TocPage     string `json:"toc_page"`
	ConfigHash  string `json:"config_hash"`
	ExportBytes int64  `json:"export_bytes,omitempty"`
}

// Outputs captures what the build produced.
type Outputs struct {
	Chapters     int    `json:"chapters"`
	Skipped      int    `json:"skipped"`
	MissingPages int    `json:"missing_pages"`
	MainFile     string `json:"main_file"`
	PDFRendered  bool   `json:"pdf_rendered"`
}

// New creates a manifest with a fresh id and the current timestamp.
func New() *BuildManifest {
	return &BuildManifest{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Status:    "running",
	}
}

// Finish marks the manifest complete and records the total build duration.
func (m *BuildManifest) Finish(status string, started time.Time) {
	m.Status = status
	m.Duration = time.Since(started).Milliseconds()
}

// ToJSON serializes the manifest to indented JSON.
func (m *BuildManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*BuildManifest, error) {
	var m BuildManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Write persists the manifest to the given path.
func (m *BuildManifest) Write(path string) error {
	data, err := m.ToJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// HashConfig computes a deterministic hash of an arbitrary configuration
// value for change detection between builds.
func HashConfig(cfg any) (string, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}
