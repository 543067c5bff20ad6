package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateURL checks that urlStr is a non-empty absolute http(s) URL
func ValidateURL(urlStr string) error {
	if strings.TrimSpace(urlStr) == "" {
		return fmt.Errorf("invalid URL: empty")
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: must be http or https, got %q", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}

	return nil
}

// ResolveURL makes href absolute against base. Unparseable input and
// already absolute links are returned unchanged.
func ResolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return href
	}
	resolved, err := b.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return resolved.String()
}

// ExpandTemplate substitutes each {key} placeholder in tmpl with the
// path-escaped value from vars. Unknown placeholders are left untouched.
func ExpandTemplate(tmpl string, vars map[string]string) string {
	out := tmpl
	for key, value := range vars {
		out = strings.ReplaceAll(out, "{"+key+"}", url.PathEscape(value))
	}
	return out
}
