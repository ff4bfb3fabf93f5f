package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9-]{3,80}$`)

// Route prefixes that custom page slugs would shadow.
var reservedSlugs = map[string]struct{}{
	"admin":      {},
	"api":        {},
	"auth":       {},
	"categories": {},
	"comments":   {},
	"compose":    {},
	"login":      {},
	"media":      {},
	"metrics":    {},
	"pages":      {},
	"posts":      {},
	"preview":    {},
	"search":     {},
	"settings":   {},
	"signup":     {},
	"swagger":    {},
	"tags":       {},
	"users":      {},
	"ws":         {},
}

// ValidateSlug validates slug format and reserved names.
func ValidateSlug(slug string) error {
	if !slugRegex.MatchString(slug) {
		return fmt.Errorf("slug must be 3-80 characters and contain only lowercase letters, numbers, and hyphens")
	}

	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return fmt.Errorf("slug cannot start or end with a hyphen")
	}

	if _, exists := reservedSlugs[slug]; exists {
		return fmt.Errorf("slug is reserved")
	}

	return nil
}
