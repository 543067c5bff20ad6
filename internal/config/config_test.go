package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRootCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "modeldocs"}
	RegisterFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newRootCmd(t, "--output-dir", t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
	assert.Equal(t, time.Second, cfg.RequestDelay)
	assert.Equal(t, 100, cfg.MinContentLength)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, time.Duration(0), cfg.CacheTTL)
	assert.Equal(t, int64(DefaultCacheMaxSizeBytes), cfg.CacheMaxSizeBytes)
	assert.Empty(t, cfg.Headers)
	assert.False(t, cfg.VerboseHTML)
	assert.False(t, cfg.SaveRawHTML)
}

func TestLoad_FlagsOverride(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(newRootCmd(t,
		"--output-dir", dir,
		"--max-retries", "5",
		"--retry-delay", "500ms",
		"--request-delay", "0s",
		"--min-content-length", "20",
		"--timeout", "10s",
		"--user-agent", "bot/1.0",
		"-H", "X-Api: 1",
		"-H", "Accept-Language: de",
		"--verbose-html",
		"-v",
	))
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.OutputDir)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, time.Duration(0), cfg.RequestDelay)
	assert.Equal(t, 20, cfg.MinContentLength)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "bot/1.0", cfg.UserAgent)
	assert.Equal(t, map[string]string{"X-Api": "1", "Accept-Language": "de"}, cfg.Headers)
	assert.True(t, cfg.VerboseHTML)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("MODELDOCS_REQUEST_DELAY", "3s")
	t.Setenv("MODELDOCS_MIN_CONTENT_LENGTH", "42")
	t.Setenv("MODELDOCS_OUTPUT_DIR", t.TempDir())

	cfg, err := Load(newRootCmd(t, "--min-content-length", "7"))
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.RequestDelay)
	assert.Equal(t, 7, cfg.MinContentLength, "flags win over environment")
}

func TestLoad_BareNumbersAreSeconds(t *testing.T) {
	t.Setenv("MODELDOCS_TIMEOUT", "30")
	t.Setenv("MODELDOCS_RETRY_DELAY", "0.5")
	t.Setenv("MODELDOCS_OUTPUT_DIR", t.TempDir())

	cfg, err := Load(newRootCmd(t))
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryDelay)
}

func TestLoad_BareNumbersInConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "modeldocs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout: 45\ncache_ttl: 60\noutput_dir: "+dir+"\n"), 0644))

	cfg, err := Load(newRootCmd(t, "--config", path))
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("MODELDOCS_REQUEST_DELAY", "soon")
	_, err := Load(newRootCmd(t, "--output-dir", t.TempDir()))
	assert.ErrorContains(t, err, "request_delay")
}

func TestLoad_SaveRawHTML(t *testing.T) {
	cfg, err := Load(newRootCmd(t, "--output-dir", t.TempDir(), "--save-raw-html"))
	require.NoError(t, err)
	assert.True(t, cfg.SaveRawHTML)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "modeldocs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_retries: 4\nretry_delay: 1s\noutput_dir: "+dir+"\nlog_level: WARN\n"), 0644))

	cfg, err := Load(newRootCmd(t, "--config", path))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.Equal(t, dir, cfg.OutputDir)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(newRootCmd(t, "--config", filepath.Join(t.TempDir(), "nope.yaml")))
	assert.Error(t, err)
}

func TestLoad_Quiet(t *testing.T) {
	cfg, err := Load(newRootCmd(t, "-q", "--output-dir", t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(newRootCmd(t, "--max-retries", "0", "--output-dir", t.TempDir()))
	assert.ErrorContains(t, err, "max retries")

	_, err = Load(newRootCmd(t, "--timeout", "0s", "--output-dir", t.TempDir()))
	assert.ErrorContains(t, err, "timeout")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := Default()
		c.OutputDir = "/tmp/out"
		return c
	}

	require.NoError(t, validate(base()))

	cases := map[string]func(*Config){
		"empty output":   func(c *Config) { c.OutputDir = "" },
		"negative delay": func(c *Config) { c.RequestDelay = -time.Second },
		"negative retry": func(c *Config) { c.RetryDelay = -time.Second },
		"negative min":   func(c *Config) { c.MinContentLength = -1 },
		"negative ttl":   func(c *Config) { c.CacheTTL = -time.Second },
		"zero cache":     func(c *Config) { c.CacheMaxSizeBytes = 0 },
		"tiny timeout":   func(c *Config) { c.HTTPTimeout = 30 * time.Nanosecond },
		"bad level":      func(c *Config) { c.LogLevel = "loud" },
	}
	for name, mutate := range cases {
		c := base()
		mutate(c)
		assert.Error(t, validate(c), name)
	}
}

func TestDefaultOutputDir(t *testing.T) {
	sdcard := t.TempDir()
	home := t.TempDir()

	assert.Equal(t, filepath.Join(sdcard, "AIML_API_Docs"), defaultOutputDir(sdcard, home))
	assert.Equal(t, filepath.Join(home, "aiml-scraper", "scraped_docs"),
		defaultOutputDir(filepath.Join(sdcard, "missing"), home))

	entries, err := os.ReadDir(sdcard)
	require.NoError(t, err)
	assert.Empty(t, entries, "write check file is removed")
}
