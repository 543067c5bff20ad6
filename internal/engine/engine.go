package engine

import (
	"context"

	"github.com/law-makers/modeldocs/pkg/models"
)

// PageFetcher retrieves raw HTML for a URL
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*models.FetchResult, error)
}

// WrittenFile is one artifact written during this process
type WrittenFile struct {
	Name string
	Path string
	Size int64
}

// Summary reports what a run produced
type Summary struct {
	OutputDir  string
	Files      []WrittenFile
	TotalBytes int64
}
