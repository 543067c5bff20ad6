package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/law-makers/modeldocs/internal/cache"
	"github.com/law-makers/modeldocs/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder stands in for both the rate limiter and the retry sleep so the
// order of waits can be asserted without real delays.
type recorder struct {
	events []string
	sleeps []time.Duration
}

func (r *recorder) Wait(context.Context) error {
	r.events = append(r.events, "wait")
	return nil
}

func (r *recorder) Sleep(_ context.Context, d time.Duration) error {
	r.events = append(r.events, "sleep")
	r.sleeps = append(r.sleeps, d)
	return nil
}

func newTestFetcher(client *http.Client, rec *recorder) *Fetcher {
	return New(Options{
		Client:  client,
		Limiter: rec,
		Retry: retry.Config{
			MaxAttempts: 3,
			Backoff:     retry.Flat(2 * time.Second),
			Sleep:       rec.Sleep,
		},
	})
}

func TestFetch_FailsTwiceThenSucceeds(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	rec := &recorder{}
	f := newTestFetcher(server.Client(), rec)

	res, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "<html><body>ok</body></html>", res.HTML)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.False(t, res.FromCache)

	assert.Equal(t, []string{"wait", "sleep", "wait", "sleep", "wait"}, rec.events)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, rec.sleeps)
}

func TestFetch_SendsHeaders(t *testing.T) {
	var gotUA, gotCustom string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCustom = r.Header.Get("X-Docs")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	f := New(Options{
		Client:    server.Client(),
		Retry:     retry.Config{MaxAttempts: 1},
		UserAgent: "modeldocs-test",
		Headers:   map[string]string{"X-Docs": "1"},
	})

	_, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "modeldocs-test", gotUA)
	assert.Equal(t, "1", gotCustom)
}

func TestFetch_ExhaustsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	rec := &recorder{}
	f := newTestFetcher(server.Client(), rec)

	res, err := f.Fetch(context.Background(), server.URL+"/missing")
	assert.Nil(t, res)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 3, fetchErr.Attempts)
	assert.Equal(t, server.URL+"/missing", fetchErr.URL)

	var httpErr retry.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Len(t, rec.sleeps, 2)
}

func TestFetch_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	rec := &recorder{}
	f := newTestFetcher(&http.Client{Timeout: time.Second}, rec)

	_, err := f.Fetch(context.Background(), url)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 3, fetchErr.Attempts)
	assert.Equal(t, 3, countEvents(rec.events, "wait"))
}

func TestFetch_InvalidURL(t *testing.T) {
	rec := &recorder{}
	f := newTestFetcher(http.DefaultClient, rec)

	_, err := f.Fetch(context.Background(), "not a url")

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 0, fetchErr.Attempts)
	assert.Empty(t, rec.events)
}

func TestFetch_DecodesCharset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		// "café" in Latin-1
		_, _ = w.Write([]byte{'<', 'p', '>', 'c', 'a', 'f', 0xe9, '<', '/', 'p', '>'})
	}))
	defer server.Close()

	f := New(Options{Client: server.Client(), Retry: retry.Config{MaxAttempts: 1}})

	res, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "<p>café</p>", res.HTML)
}

func TestFetch_CacheHitSkipsNetwork(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("cached body"))
	}))
	defer server.Close()

	mc := cache.NewMemoryCache(0)
	defer mc.Close()

	rec := &recorder{}
	f := New(Options{
		Client:   server.Client(),
		Limiter:  rec,
		Retry:    retry.Config{MaxAttempts: 1},
		Cache:    mc,
		CacheTTL: time.Minute,
	})

	first, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, "cached body", second.HTML)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, 1, countEvents(rec.events, "wait"))
}

func countEvents(events []string, name string) int {
	n := 0
	for _, e := range events {
		if e == name {
			n++
		}
	}
	return n
}

func TestFetch_BodyOverLimitFails(t *testing.T) {
	page := "<html><body>" + strings.Repeat("x", maxBodySize) + "<p>TAIL</p></body></html>"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	rec := &recorder{}
	f := newTestFetcher(server.Client(), rec)

	res, err := f.Fetch(context.Background(), server.URL)
	assert.Nil(t, res)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 1, fetchErr.Attempts, "oversized bodies are not retried")

	var tooLarge *BodyTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, int64(maxBodySize), tooLarge.Limit)
	assert.Equal(t, []string{"wait"}, rec.events)
}

func TestFetch_BodyAtLimitSucceeds(t *testing.T) {
	page := strings.Repeat("a", maxBodySize)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	res, err := newTestFetcher(server.Client(), &recorder{}).Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Len(t, res.HTML, maxBodySize)
}
