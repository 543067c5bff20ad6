package reqctx

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type key int

const scrapeKey key = 0

// ScrapeContext identifies one scrape request as it flows through the pipeline
type ScrapeContext struct {
	ScrapeID  string
	Provider  string
	Model     string
	StartTime time.Time
}

// Elapsed returns the time since the scrape started
func (sc *ScrapeContext) Elapsed() time.Duration {
	return time.Since(sc.StartTime)
}

// WithScrape attaches a new ScrapeContext with a fresh ID to ctx
func WithScrape(ctx context.Context, provider, model string) context.Context {
	return context.WithValue(ctx, scrapeKey, &ScrapeContext{
		ScrapeID:  uuid.NewString(),
		Provider:  provider,
		Model:     model,
		StartTime: time.Now(),
	})
}

// FromContext returns the ScrapeContext stored in ctx, if any
func FromContext(ctx context.Context) (*ScrapeContext, bool) {
	if ctx == nil {
		return nil, false
	}
	sc, ok := ctx.Value(scrapeKey).(*ScrapeContext)
	return sc, ok
}

// ScrapeIDFromContext returns the scrape ID or "unknown"
func ScrapeIDFromContext(ctx context.Context) string {
	if sc, ok := FromContext(ctx); ok {
		return sc.ScrapeID
	}
	return "unknown"
}
