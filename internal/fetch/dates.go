package fetch

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// NormalizeDate parses a free-form date string ("8 January 2024", ISO
// variants) into an RFC 3339 UTC timestamp. Missing or unparseable input
// falls back to the current time.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now().UTC().Format(time.RFC3339)
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Now().UTC().Format(time.RFC3339)
	}
	return t.UTC().Format(time.RFC3339)
}
