package extract

import (
	"fmt"
	"regexp"
)

// Default identifier shapes, most specific first. The loose fallback
// intentionally risks false positives; the relevance scorer is the
// compensating control downstream.
var defaultIdentifierPatterns = []string{
	`\b(\d{1,4}/\d{4})\b`,
	`(?i)\bn[º°o]?\.?\s*(\d{1,4})\b`,
}

// IdentifierExtractor finds call/announcement numbers in free text.
// Sources differ in identifier shape, so the pattern list can be
// overridden per source profile.
type IdentifierExtractor struct {
	patterns []*regexp.Regexp
}

// NewIdentifierExtractor compiles the given patterns in order. With no
// patterns the default announcement-number shapes are used.
func NewIdentifierExtractor(patterns ...string) (*IdentifierExtractor, error) {
	if len(patterns) == 0 {
		patterns = defaultIdentifierPatterns
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile identifier pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &IdentifierExtractor{patterns: compiled}, nil
}

// Extract returns the first identifier match in pattern priority order,
// or the empty string when no pattern matches.
func (e *IdentifierExtractor) Extract(text string) string {
	for _, re := range e.patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if len(m) > 1 && m[1] != "" {
			return m[1]
		}
		return m[0]
	}
	return ""
}
