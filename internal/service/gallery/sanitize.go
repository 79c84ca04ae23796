package gallery

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// titlePolicy strips every tag; titles are rendered by the gallery widget
// and must stay plain text. Safe for concurrent use.
var titlePolicy = bluemonday.StrictPolicy()

// sanitizeTitle removes markup from a title and returns its plain text.
// Entities escaped by the policy are decoded back so "Tom & Jerry" survives.
func sanitizeTitle(title string) string {
	return strings.TrimSpace(html.UnescapeString(titlePolicy.Sanitize(title)))
}
