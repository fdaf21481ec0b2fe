package registry

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// maxSlugLength caps the derived channel id length.
	maxSlugLength = 60

	// fallbackSlug is used when a name yields no usable characters at all.
	fallbackSlug = "room"
)

// stripDiacritics decomposes the input and drops combining marks, so
// "Café" becomes "Cafe". Transform errors fall back to the raw input.
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives a channel id from a display name: diacritics stripped,
// lowercased, runs of non-alphanumeric characters collapsed to single hyphens,
// leading/trailing hyphens trimmed, truncated to 60 characters. A name with no
// usable characters yields "room".
func Slugify(name string) string {
	stripped, _, err := transform.String(stripDiacritics, name)
	if err != nil {
		stripped = name
	}

	stripped = strings.ToLower(stripped)

	var b strings.Builder
	lastHyphen := false
	for _, r := range stripped {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")

	if len(slug) > maxSlugLength {
		slug = strings.Trim(slug[:maxSlugLength], "-")
	}

	if slug == "" {
		return fallbackSlug
	}

	return slug
}

// titleCaser title-cases synthesized category names without any
// language-specific rules.
var titleCaser = cases.Title(language.Und)

// TitleFromID turns a category id into a presentable display name
// ("ops" -> "Ops").
func TitleFromID(id string) string {
	return titleCaser.String(id)
}
