package models

import "time"

// ListingModel is the model slot used for provider listing pages
const ListingModel = "models"

// ScrapeRequest identifies one documentation target
type ScrapeRequest struct {
	Provider string
	Model    string
}

// HasModel reports whether the request targets a single model page
func (r ScrapeRequest) HasModel() bool {
	return r.Model != ""
}

// FetchResult is the raw outcome of a successful fetch
type FetchResult struct {
	URL        string
	HTML       string
	StatusCode int
	Attempts   int
	FetchedAt  time.Time
	FromCache  bool
}

// CodeBlock is a code sample found in a documentation page
type CodeBlock struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// TableBlock is a table found in a documentation page.
// Headers holds the first extracted row and Rows the remainder.
type TableBlock struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// ScrapedRecord is the canonical result of one successful scrape
type ScrapedRecord struct {
	Provider     string       `json:"provider"`
	Model        string       `json:"model"`
	SourceURL    string       `json:"source_url"`
	ScrapedAt    time.Time    `json:"scraped_at"`
	Content      string       `json:"content"`
	CodeExamples []CodeBlock  `json:"code_examples"`
	Tables       []TableBlock `json:"tables"`
	ContentHash  string       `json:"content_hash"`

	// Info is rendered into the Markdown artifact only; the JSON schema is fixed.
	Info *ModelInfo `json:"-"`
}

// APIParameters are request parameter names mentioned on a page
type APIParameters struct {
	Required []string
	Optional []string
}

// ModelInfo is the model overview found on a documentation page
type ModelInfo struct {
	Description  string
	Capabilities []string
	Endpoints    []string
	ModelIDs     []string
	Parameters   APIParameters
}

// IsEmpty reports whether nothing was found
func (m *ModelInfo) IsEmpty() bool {
	return m == nil || (m.Description == "" &&
		len(m.Capabilities) == 0 &&
		len(m.Endpoints) == 0 &&
		len(m.ModelIDs) == 0 &&
		len(m.Parameters.Required) == 0 &&
		len(m.Parameters.Optional) == 0)
}
