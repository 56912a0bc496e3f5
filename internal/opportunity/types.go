// Package opportunity defines core types shared across subsystems.
package opportunity

import (
	"net/http"
	"time"
)

// Period holds the raw matched text of an application window. Source
// sites mix 2-digit and 4-digit years and long-form month names, so the
// values are kept as matched substrings rather than parsed dates.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// Opportunity is one discovered funding announcement, normalized from a
// single page of one source. Records are not mutated after emission.
type Opportunity struct {
	Title           string    `json:"title"`
	Source          string    `json:"source"`
	Period          *Period   `json:"period,omitempty"`
	Identifier      string    `json:"identifier,omitempty"`
	DetailURL       string    `json:"detail_url,omitempty"`
	AttachmentLinks []string  `json:"attachment_links,omitempty"`
	ContextExcerpt  string    `json:"context_excerpt,omitempty"`
	RelevanceScore  int       `json:"relevance_score"`
	HighConfidence  bool      `json:"high_confidence"`
	CanonicalKey    string    `json:"canonical_key"`
	DiscoveredAt    time.Time `json:"discovered_at"`
}

// Link pairs an absolute URL with its anchor text.
type Link struct {
	URL  string `json:"url"`
	Text string `json:"text,omitempty"`
}

// Candidate is a page content block suspected of describing one
// announcement, prior to scoring and deduplication.
type Candidate struct {
	// Title is the normalized visible text of the matched block.
	Title string
	// Text is the visible text of the closest meaningful container.
	Text string
	// Links are the container's anchors, resolved to absolute URLs.
	Links []Link
	// NextText is the visible text of the immediately following block,
	// for layouts that separate a title block from its metadata block.
	NextText string
	// Strategy names the locator strategy that produced the candidate.
	Strategy string
}

// DetailURL returns the first candidate link, the usual detail page.
func (c Candidate) DetailURL() string {
	if len(c.Links) == 0 {
		return ""
	}
	return c.Links[0].URL
}

// SourceProfile configures extraction for one originating institution.
// Page structure and pattern shapes differ per source, so each profile
// may override the global marker keywords, identifier patterns, and
// relevance threshold.
type SourceProfile struct {
	Name               string   `json:"name" mapstructure:"name"`
	URL                string   `json:"url" mapstructure:"url"`
	Markers            []string `json:"markers,omitempty" mapstructure:"markers"`
	IdentifierPatterns []string `json:"identifier_patterns,omitempty" mapstructure:"identifier_patterns"`
	MinScore           int      `json:"min_score,omitempty" mapstructure:"min_score"`
	Headless           bool     `json:"headless" mapstructure:"headless"`
}

// SourceResult is the ordered per-source output of one scan run.
type SourceResult struct {
	Source        string        `json:"source"`
	Opportunities []Opportunity `json:"opportunities"`
	FetchError    string        `json:"fetch_error,omitempty"`
}

// ScanResult is the full output of one aggregator run.
type ScanResult struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Sources    []SourceResult `json:"sources"`
	// AdmittedKeys lists the canonical keys newly admitted by the
	// deduplicator during this run, in emission order. Callers persist
	// them to carry deduplication across runs.
	AdmittedKeys []string `json:"admitted_keys,omitempty"`
}

// Total returns the number of opportunities across all sources.
func (r ScanResult) Total() int {
	n := 0
	for _, s := range r.Sources {
		n += len(s.Opportunities)
	}
	return n
}

// FetchRequest captures everything needed to fetch one source page.
type FetchRequest struct {
	Source      string
	URL         string
	UseHeadless bool
	Headers     http.Header
}

// FetchResponse is the result returned by a Fetcher implementation.
type FetchResponse struct {
	URL          string
	StatusCode   int
	Headers      http.Header
	Body         []byte
	Duration     time.Duration
	UsedHeadless bool
}
