// Package score separates genuine announcements from incidental keyword
// matches. Scoring is additive presence/absence, no weighting; the
// threshold is configuration, not a constant.
package score

import (
	"strings"

	"github.com/editalradar/editalradar/internal/textutil"
)

// Default policy values, overridable globally and per source.
const (
	DefaultMinScore       = 2
	DefaultHighConfidence = 3
)

// Input carries the signals available for one candidate. Only Title is
// guaranteed non-empty.
type Input struct {
	Title     string
	URL       string
	Excerpt   string
	HasPeriod bool
}

// Scorer assigns relevance scores from marker keywords.
type Scorer struct {
	markers []string
}

// New builds a Scorer over the folded marker set.
func New(markers []string) *Scorer {
	folded := make([]string, 0, len(markers))
	for _, m := range markers {
		m = textutil.Fold(strings.TrimSpace(m))
		if m != "" {
			folded = append(folded, m)
		}
	}
	return &Scorer{markers: folded}
}

// Score computes the additive relevance score: one point per marker
// keyword present in the title, one if the URL carries any marker, one
// if a period was extracted, one if the context excerpt carries any
// marker.
func (s *Scorer) Score(in Input) int {
	total := 0

	title := textutil.Fold(in.Title)
	for _, m := range s.markers {
		if strings.Contains(title, m) {
			total++
		}
	}
	if s.anyMarker(in.URL) {
		total++
	}
	if in.HasPeriod {
		total++
	}
	if s.anyMarker(in.Excerpt) {
		total++
	}
	return total
}

func (s *Scorer) anyMarker(text string) bool {
	if text == "" {
		return false
	}
	folded := textutil.Fold(text)
	for _, m := range s.markers {
		if strings.Contains(folded, m) {
			return true
		}
	}
	return false
}
