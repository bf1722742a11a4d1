package config

import (
	"regexp"
	"strings"
)

// whitespaceRun matches one or more consecutive whitespace characters.
var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeSlug turns a human-supplied tenant name into a resource-safe
// identifier: lowercased, with every whitespace run collapsed to a single
// hyphen. The result feeds into every derived resource name, so the
// function is deterministic and idempotent: NormalizeSlug(NormalizeSlug(x))
// equals NormalizeSlug(x).
func NormalizeSlug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	return whitespaceRun.ReplaceAllString(s, "-")
}
