package library

import (
	"regexp"
	"strings"
)

var (
	slugSpaces = regexp.MustCompile(`\s+`)
	slugStrip  = regexp.MustCompile(`[^a-z0-9-]`)
)

// ShareSlug derives the deep-link identifier for a track title or album
// name: lowercased, whitespace runs collapsed to hyphens, everything outside
// [a-z0-9-] stripped. The derivation is idempotent. Two names may reduce to
// the same slug; lookups resolve that with first match wins.
func ShareSlug(name string) string {
	s := strings.ToLower(name)
	s = slugSpaces.ReplaceAllString(s, "-")
	return slugStrip.ReplaceAllString(s, "")
}
