package headers

import (
	"net/http"
	"strings"
)

// ParseHeaders converts "Key: Value" strings into a map.
// Malformed entries and entries with an empty key are skipped.
func ParseHeaders(h []string) map[string]string {
	m := make(map[string]string)
	for _, hdr := range h {
		parts := strings.SplitN(hdr, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		if key == "" {
			continue
		}
		m[http.CanonicalHeaderKey(key)] = strings.TrimSpace(parts[1])
	}
	return m
}

// Apply sets every header in m on h, replacing existing values
func Apply(h http.Header, m map[string]string) {
	for key, value := range m {
		h.Set(key, value)
	}
}
