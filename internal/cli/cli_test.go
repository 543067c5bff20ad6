package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `<html><head><title>Docs Page</title></head><body>
<nav>menu</nav>
<main>
<h1>Overview</h1>
<p>Main content paragraph.</p>
<h2>Usage</h2>
<pre><code class="language-python">print("hi")</code></pre>
</main>
</body></html>`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "-q", "--request-delay", "0s", "--retry-delay", "0s"))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGet_Text(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, testPage)
	}))
	defer srv.Close()

	out, err := run(t, "get", srv.URL, "--selector", "main", "--output-dir", t.TempDir())
	require.NoError(t, err)

	assert.Contains(t, out, "Docs Page")
	assert.Contains(t, out, "- Overview")
	assert.Contains(t, out, "  - Usage")
	assert.Contains(t, out, "Main content paragraph.")
	assert.NotContains(t, out, "menu")
}

func TestGet_Markdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testPage)
	}))
	defer srv.Close()

	out, err := run(t, "get", srv.URL, "--markdown", "--output-dir", t.TempDir())
	require.NoError(t, err)

	assert.Contains(t, out, "# Overview")
	assert.Contains(t, out, "```python")
	assert.NotContains(t, out, "menu")
}

func TestGet_FetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := run(t, "get", srv.URL, "--max-retries", "1", "--output-dir", t.TempDir())
	assert.ErrorContains(t, err, "failed to fetch URL")
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "openai_gpt-4o_context.md"), []byte("# hi"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "openai_gpt-4o_data.json"), []byte("{}"), 0644))

	out, err := run(t, "list", "--output-dir", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "openai_gpt-4o_context.md")
	assert.Contains(t, out, "openai_gpt-4o_data.json")
	assert.Contains(t, out, "2 files")
}

func TestList_Empty(t *testing.T) {
	out, err := run(t, "list", "--output-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No artifacts")
}

func TestProviders(t *testing.T) {
	out, err := run(t, "providers", "--output-dir", t.TempDir())
	require.NoError(t, err)

	for _, want := range []string{"aimlapi", "openai", "anthropic", "gpt-", "claude-", "mistral-ai"} {
		assert.Contains(t, out, want)
	}
}

func TestScrape_FlagValidation(t *testing.T) {
	_, err := run(t, "scrape", "--output-dir", t.TempDir())
	assert.ErrorContains(t, err, "--provider or --model")

	_, err = run(t, "scrape", "--source", "openai", "--output-dir", t.TempDir())
	assert.ErrorContains(t, err, "--source requires --model")
}

func TestScrape_UnknownPrefix(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "scrape", "--model", "unknown-model", "--output-dir", dir)
	require.Error(t, err)
	assert.Contains(t, out, "resolve failed")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExecute_FailureReportedOnce(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := execute(context.Background(), cmd, []string{"scrape", "--model", "unknown-model", "-q", "--output-dir", t.TempDir()})
	require.Error(t, err)

	assert.Equal(t, 1, strings.Count(out.String(), "resolve failed"))
	assert.NotContains(t, errOut.String(), "Error:")
	assert.NotContains(t, errOut.String(), "unknown-model")
}

func TestExecute_PrintsUnreportedErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := execute(context.Background(), cmd, []string{"scrape", "-q", "--output-dir", t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "Error:")
	assert.Contains(t, errOut.String(), "--provider or --model")
}

func TestBatch_AllFail(t *testing.T) {
	out, err := run(t, "batch", "nope-1", "nope-2", "nope-1", "--output-dir", t.TempDir())
	assert.ErrorContains(t, err, "all 2 models failed")
	assert.Contains(t, out, "0/2 models scraped")
	assert.Contains(t, out, "nope-1, nope-2")
}

func TestHelp(t *testing.T) {
	out, err := run(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Commands")
	assert.Contains(t, out, "scrape")
	assert.Contains(t, out, "batch")
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, dedupe([]string{"a", " ", "b", "a "}))
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four\n\nfive", 9)
	assert.Equal(t, "one two\nthree\nfour\n\nfive", got)
	assert.False(t, strings.HasSuffix(got, "\n"))
}
