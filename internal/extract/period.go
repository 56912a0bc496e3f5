// Package extract pulls structured fields out of free-form announcement
// text using ordered, locale-specific patterns. A pattern miss is a
// normal outcome, never an error.
package extract

import (
	"regexp"

	"github.com/editalradar/editalradar/internal/opportunity"
)

// Numeric dates mix 2-digit and 4-digit years across sources; matches
// are kept as raw substrings, normalization belongs to the report layer.
const numericDate = `\d{1,2}/\d{1,2}/\d{2,4}`

const longFormDate = `\d{1,2}º?\s+de\s+[\p{L}]+\s+(?:de\s+|do\s+|del\s+)?\d{4}`

var (
	numericRange = regexp.MustCompile(`(?i)(` + numericDate + `)\s*(?:até|a|à|[-–—])\s*(` + numericDate + `)`)

	keywordSingle = regexp.MustCompile(`(?i)(?:prazo|inscri[çc][õo]es|inscri[çc][ãa]o|submiss[ãa]o|data\s+limite)\D{0,60}?(` + numericDate + `)`)

	bareSingle = regexp.MustCompile(numericDate)

	longFormRange = regexp.MustCompile(`(?i)(` + longFormDate + `)\s*(?:até|a|à|[-–—])\s*(` + longFormDate + `)`)
)

// Period finds the application window in free text. Patterns are tried
// in priority order and the first match wins: explicit numeric range,
// keyword-scoped single date, bare single date, then long-form ranges
// when no numeric form is present. Returns nil when nothing matches.
func Period(text string) *opportunity.Period {
	if m := numericRange.FindStringSubmatch(text); m != nil {
		return &opportunity.Period{Start: m[1], End: m[2]}
	}
	if m := keywordSingle.FindStringSubmatch(text); m != nil {
		return &opportunity.Period{Start: m[1]}
	}
	if m := bareSingle.FindString(text); m != "" {
		return &opportunity.Period{Start: m}
	}
	if m := longFormRange.FindStringSubmatch(text); m != nil {
		return &opportunity.Period{Start: m[1], End: m[2]}
	}
	return nil
}
