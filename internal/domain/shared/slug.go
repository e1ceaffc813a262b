package shared

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var slugStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts free text into a URL-safe slug: diacritics removed,
// lowercased, non-alphanumeric runs collapsed to single hyphens.
func Slugify(s string) string {
	stripped, _, err := transform.String(slugStripper, s)
	if err != nil {
		stripped = s
	}

	var b strings.Builder
	b.Grow(len(stripped))
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(stripped) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// SlugExistsFunc reports whether a candidate slug is already taken.
type SlugExistsFunc func(slug string) (bool, error)

// UniqueSlug returns Slugify(base), appending -2, -3, ... until the
// candidate is free according to exists.
func UniqueSlug(base string, exists SlugExistsFunc) (string, error) {
	slug := Slugify(base)
	if slug == "" {
		slug = "item"
	}

	candidate := slug
	for i := 2; ; i++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", slug, i)
	}
}
