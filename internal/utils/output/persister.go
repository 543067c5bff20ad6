package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/law-makers/modeldocs/pkg/models"
	"github.com/rs/zerolog/log"
)

// Kind selects which of the two artifacts a filename refers to
type Kind string

const (
	KindContext Kind = "context.md"
	KindData    Kind = "data.json"
	KindRaw     Kind = "raw.html"
)

// RawDir is the hidden subdirectory that receives raw page dumps
const RawDir = ".temp"

var nameReplacer = strings.NewReplacer("/", "-", "\\", "-", "..", "_", " ", "_")

// ArtifactName returns "{provider}_{model}_{kind}" with path separators
// removed from provider and model
func ArtifactName(provider, model string, kind Kind) string {
	return fmt.Sprintf("%s_%s_%s", nameReplacer.Replace(provider), nameReplacer.Replace(model), kind)
}

// Persister writes artifacts into a single output directory.
// Writes are not atomic; a crash mid-write can leave a truncated file.
type Persister struct {
	dir string
}

// NewPersister creates a Persister for dir. The directory must already exist.
func NewPersister(dir string) *Persister {
	return &Persister{dir: dir}
}

// Dir returns the output directory
func (p *Persister) Dir() string {
	return p.dir
}

// Path returns the full path for name inside the output directory
func (p *Persister) Path(name string) string {
	return filepath.Join(p.dir, name)
}

// SaveMarkdown writes content to name and returns the written path
func (p *Persister) SaveMarkdown(name, content string) (string, error) {
	path := p.Path(name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		log.Error().Err(err).Str("file", name).Msg("Failed to save Markdown")
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	log.Info().Str("file", name).Msg("Saved Markdown")
	return path, nil
}

// SaveJSON writes record as 2-space indented JSON and returns the written path
func (p *Persister) SaveJSON(name string, record *models.ScrapedRecord) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}

	path := p.Path(name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		log.Error().Err(err).Str("file", name).Msg("Failed to save JSON")
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	log.Info().Str("file", name).Msg("Saved JSON")
	return path, nil
}

// SaveRawHTML writes the unprocessed page to RawDir/name for debugging,
// creating the directory when needed
func (p *Persister) SaveRawHTML(name, html string) (string, error) {
	dir := filepath.Join(p.dir, RawDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	log.Debug().Str("file", path).Msg("Saved raw HTML")
	return path, nil
}

// LoadJSON reads a previously saved record
func (p *Persister) LoadJSON(name string) (*models.ScrapedRecord, error) {
	raw, err := os.ReadFile(p.Path(name))
	if err != nil {
		return nil, err
	}
	var record models.ScrapedRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return &record, nil
}
