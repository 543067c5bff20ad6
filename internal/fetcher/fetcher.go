// internal/fetcher/fetcher.go
package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/law-makers/modeldocs/internal/cache"
	"github.com/law-makers/modeldocs/internal/ratelimit"
	"github.com/law-makers/modeldocs/internal/reqctx"
	"github.com/law-makers/modeldocs/internal/retry"
	"github.com/law-makers/modeldocs/internal/utils/headers"
	urlutil "github.com/law-makers/modeldocs/internal/utils/url"
	"github.com/law-makers/modeldocs/pkg/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
)

// DefaultUserAgent identifies the scraper to documentation sites
const DefaultUserAgent = "Mozilla/5.0 (Linux; Android 10) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Mobile Safari/537.36"

// maxBodySize caps how much of a response body is read
const maxBodySize = 10 << 20

// FetchError is returned when a page could not be retrieved
type FetchError struct {
	URL      string
	Attempts int
	Cause    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempt(s): %v", e.URL, e.Attempts, e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// BodyTooLargeError is returned when a response body exceeds the read limit.
// A partial page is never returned.
type BodyTooLargeError struct {
	Limit int64
}

func (e *BodyTooLargeError) Error() string {
	return fmt.Sprintf("response body exceeds %d bytes", e.Limit)
}

// Options configures a Fetcher
type Options struct {
	Client    *http.Client
	Limiter   ratelimit.RateLimiter
	Retry     retry.Config
	Cache     cache.Cache
	CacheTTL  time.Duration // 0 disables caching
	UserAgent string
	Headers   map[string]string
}

// Fetcher performs rate-limited, retried HTTP GETs for documentation pages
type Fetcher struct {
	client    *http.Client
	limiter   ratelimit.RateLimiter
	retry     retry.Config
	cache     cache.Cache
	cacheTTL  time.Duration
	userAgent string
	headers   map[string]string
	now       func() time.Time
}

// New creates a Fetcher from opts
func New(opts Options) *Fetcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	return &Fetcher{
		client:    client,
		limiter:   opts.Limiter,
		retry:     opts.Retry,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		userAgent: ua,
		headers:   opts.Headers,
		now:       time.Now,
	}
}

// Fetch retrieves url and returns its body decoded to UTF-8.
// Every attempt waits on the rate limiter first; transport errors and non-2xx
// responses are retried according to the retry configuration.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*models.FetchResult, error) {
	if err := urlutil.ValidateURL(url); err != nil {
		return nil, &FetchError{URL: url, Attempts: 0, Cause: err}
	}

	if cached, ok := f.lookupCache(url); ok {
		return cached, nil
	}

	logger := log.With().
		Str("url", url).
		Str("scrape_id", reqctx.ScrapeIDFromContext(ctx)).
		Logger()

	var (
		result   *models.FetchResult
		attempts int
	)

	err := retry.WithRetry(ctx, f.retry, func(attempt int) error {
		attempts = attempt
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				return retry.Permanent(err)
			}
		}

		logger.Debug().Int("attempt", attempt).Msg("Fetching page")

		res, err := f.get(ctx, url)
		if err != nil {
			return err
		}
		res.Attempts = attempt
		result = res
		return nil
	})
	if err != nil {
		cause := err
		var exhausted *retry.ExhaustedError
		if errors.As(err, &exhausted) {
			cause = exhausted.Last
		}
		logger.Error().
			Int("attempts", attempts).
			Err(cause).
			Msg("Fetch failed")
		return nil, &FetchError{URL: url, Attempts: attempts, Cause: cause}
	}

	logger.Debug().
		Int("status", result.StatusCode).
		Int("attempts", result.Attempts).
		Int("bytes", len(result.HTML)).
		Msg("Fetch completed")

	if f.cache != nil && f.cacheTTL > 0 {
		if err := f.cache.Set(url, result, f.cacheTTL); err != nil {
			logger.Warn().Err(err).Msg("Failed to cache page")
		}
	}

	return result, nil
}

func (f *Fetcher) lookupCache(url string) (*models.FetchResult, bool) {
	if f.cache == nil || f.cacheTTL <= 0 {
		return nil, false
	}
	cached, ok := f.cache.Get(url)
	if !ok {
		return nil, false
	}
	hit := *cached
	hit.FromCache = true
	return &hit, true
}

func (f *Fetcher) get(ctx context.Context, url string) (*models.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	headers.Apply(req.Header, f.headers)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, retry.NewHTTPError(resp.StatusCode, resp.Status, "")
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(raw) > maxBodySize {
		return nil, retry.Permanent(&BodyTooLargeError{Limit: maxBodySize})
	}

	return &models.FetchResult{
		URL:        url,
		HTML:       decodeBody(raw, resp.Header.Get("Content-Type")),
		StatusCode: resp.StatusCode,
		FetchedAt:  f.now(),
	}, nil
}

// decodeBody converts raw to UTF-8 using the Content-Type charset or the
// document's meta declaration. Undecodable input is returned as-is.
func decodeBody(raw []byte, contentType string) string {
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return string(raw)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
