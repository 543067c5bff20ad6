// Package artifact assembles scraped pages into records and renders them.
package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
	"unicode/utf8"

	"github.com/law-makers/modeldocs/internal/extract"
	"github.com/law-makers/modeldocs/pkg/models"
	"github.com/rs/zerolog/log"
)

// BuildInput is everything needed to turn one fetched page into a record
type BuildInput struct {
	Provider  string
	Model     string
	SourceURL string
	HTML      string
	Selector  string
}

// Builder turns raw HTML into a ScrapedRecord
type Builder struct {
	validator Validator
	now       func() time.Time
}

// NewBuilder creates a Builder using v for content validation
func NewBuilder(v Validator) *Builder {
	return &Builder{validator: v, now: time.Now}
}

// WithClock replaces the time source used for ScrapedAt
func (b *Builder) WithClock(now func() time.Time) *Builder {
	if now != nil {
		b.now = now
	}
	return b
}

// Build extracts text, validates it and then extracts code and tables.
// A page whose text fails validation yields a *ValidationError and no record.
func (b *Builder) Build(in BuildInput) (*models.ScrapedRecord, error) {
	content := extract.ExtractText(in.HTML, in.Selector)

	if err := b.validator.Check(content); err != nil {
		return nil, err
	}

	code := extract.ExtractCodeBlocks(in.HTML)
	tables := extract.ExtractTables(in.HTML)
	info := extract.ExtractModelInfo(in.HTML, in.Selector)

	record := &models.ScrapedRecord{
		Provider:     in.Provider,
		Model:        in.Model,
		SourceURL:    in.SourceURL,
		ScrapedAt:    b.now().UTC().Truncate(time.Microsecond),
		Content:      content,
		CodeExamples: code,
		Tables:       tables,
		ContentHash:  ContentHash(content),
	}
	if !info.IsEmpty() {
		record.Info = info
	}

	log.Debug().
		Str("provider", in.Provider).
		Str("model", in.Model).
		Int("content_chars", utf8.RuneCountInString(content)).
		Int("code_examples", len(code)).
		Int("tables", len(tables)).
		Msg("Built record")

	return record, nil
}

// ContentHash returns the lowercase hex SHA-256 of content
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
