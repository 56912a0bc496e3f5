// Package textutil provides pure text helpers used across the
// extraction pipeline: whitespace normalization, tag stripping,
// diacritic folding, and canonical-URL computation.
package textutil

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	spaceRun   = regexp.MustCompile(`\s+`)
	tagPattern = regexp.MustCompile(`(?s)<[^>]*>`)

	diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// NormalizeSpace collapses internal whitespace runs to single spaces and
// trims leading/trailing whitespace.
func NormalizeSpace(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// StripTags removes HTML tags, leaving only the visible text. The result
// is whitespace-normalized.
func StripTags(markup string) string {
	return NormalizeSpace(tagPattern.ReplaceAllString(markup, " "))
}

// Fold lowercases the input and removes diacritical marks, so that
// "Seleção" and "SELECAO" compare equal. Marker keyword matching is
// case- and diacritic-insensitive.
func Fold(s string) string {
	folded, _, err := transform.String(diacriticFolder, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(folded)
}

// ContainsFold reports whether haystack contains needle under Fold.
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}

// CanonicalURL standardizes a URL for deduplication: lowercase scheme
// and host, default ports removed, query string and fragment dropped.
// An empty input canonicalizes to the empty string.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Scheme == "http" {
		u.Host = strings.TrimSuffix(u.Host, ":80")
	}
	if u.Scheme == "https" {
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// ResolveURL resolves href against base, returning an absolute URL or
// the empty string when either side is unparseable.
func ResolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return b.ResolveReference(ref).String()
}

// Truncate shortens s to at most n runes, appending an ellipsis when
// anything was cut.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return fmt.Sprintf("%s…", strings.TrimSpace(string(r[:n])))
}
