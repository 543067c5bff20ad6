package config

import "github.com/spf13/cobra"

// flagKeys maps persistent flag names to configuration keys
var flagKeys = map[string]string{
	"output-dir":         "output_dir",
	"timeout":            "timeout",
	"max-retries":        "max_retries",
	"retry-delay":        "retry_delay",
	"request-delay":      "request_delay",
	"min-content-length": "min_content_length",
	"user-agent":         "user_agent",
	"proxy":              "proxy",
	"json":               "json",
	"log-file":           "log_file",
	"cache-ttl":          "cache_ttl",
	"verbose-html":       "verbose_html",
	"save-raw-html":      "save_raw_html",
}

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	pf := cmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.BoolP("quiet", "q", false, "Suppress all output except errors")
	pf.Bool("json", false, "Emit logs as JSON lines")
	pf.String("config", "", "Path to configuration file (optional)")
	pf.StringP("output-dir", "o", "", "Directory for scraped artifacts (default: /sdcard/AIML_API_Docs or ~/aiml-scraper/scraped_docs)")
	pf.Duration("timeout", DefaultHTTPTimeout, "HTTP request timeout")
	pf.Int("max-retries", DefaultMaxRetries, "Total fetch attempts per page")
	pf.Duration("retry-delay", DefaultRetryDelay, "Delay between fetch attempts")
	pf.Duration("request-delay", DefaultRequestDelay, "Minimum delay between requests")
	pf.Int("min-content-length", DefaultMinContentLength, "Minimum extracted characters for a page to be saved")
	pf.String("user-agent", "", "Custom user agent string")
	pf.String("proxy", "", "HTTP proxy URL (e.g., http://localhost:8080)")
	pf.StringArrayP("header", "H", nil, "Extra request header (\"Key: Value\"), repeatable")
	pf.String("log-file", "", "Also write logs to this file (rotated)")
	pf.Duration("cache-ttl", DefaultCacheTTL, "Reuse fetched pages for this long within one run (0 disables)")
	pf.Bool("verbose-html", false, "Log the start of pages rejected as too short")
	pf.Bool("save-raw-html", false, "Keep each fetched page under <output-dir>/.temp for debugging")
}
