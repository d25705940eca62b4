// Package slug derives URL-safe identifiers for public resume links.
package slug

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const maxLen = 60

var (
	invalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace   = regexp.MustCompile(`\s+`)
	hyphenRuns   = regexp.MustCompile(`-+`)
)

// Generate builds a slug from the candidate's full name and first job
// title. Both inputs are optional, when everything filters out the slug
// falls back to a timestamped placeholder so it is never empty.
func Generate(fullName, jobTitle string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{fullName, jobTitle} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}

	s := strings.ToLower(strings.Join(parts, " "))
	s = invalidChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(strings.TrimSpace(s), "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > maxLen {
		s = strings.Trim(s[:maxLen], "-")
	}

	if s == "" {
		return fmt.Sprintf("resume-%d", time.Now().UnixMilli())
	}

	return s
}

// WithSuffix appends a collision counter to a base slug, keeping the
// result within the length limit.
func WithSuffix(base string, n int) string {
	if n == 0 {
		return base
	}

	suffix := fmt.Sprintf("-%d", n)
	if len(base)+len(suffix) > maxLen {
		base = strings.Trim(base[:maxLen-len(suffix)], "-")
	}

	return base + suffix
}
