package academy

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	slugStrip      = regexp.MustCompile(`[^\w\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugHyphens    = regexp.MustCompile(`-{2,}`)
)

// Slugify derives a URL-safe identifier from free text: lowercase, strip
// punctuation, collapse whitespace runs to single hyphens, collapse repeated
// hyphens, trim leading and trailing hyphens.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SlugWithSuffix appends a time-derived base-36 suffix to disambiguate a
// colliding slug. Best-effort: concurrent identical submissions are caught
// by the unique constraint and retried by the caller.
func SlugWithSuffix(base string) string {
	return base + "-" + strconv.FormatInt(time.Now().UTC().UnixNano(), 36)
}
