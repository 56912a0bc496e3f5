// Package detect decides whether a fetched page needs headless rendering.
package detect

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/editalradar/editalradar/internal/opportunity"
)

// DefaultKeywords are body fragments that mark shell pages rendered
// entirely by client-side JavaScript.
var DefaultKeywords = []string{
	"enable javascript",
	"habilite o javascript",
	"loading...",
	"carregando...",
}

// HeuristicDetector implements opportunity.HeadlessDetector using simple
// HTML signals: body size, shell-page keywords, and required selectors.
type HeuristicDetector struct {
	minHTMLBytes int
	selectors    []string
	keywords     [][]byte
}

// NewHeuristicDetector constructs a detector with the configured thresholds.
func NewHeuristicDetector(minBytes int, selectors, keywords []string) *HeuristicDetector {
	lowerKeywords := make([][]byte, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		lowerKeywords = append(lowerKeywords, bytes.ToLower([]byte(kw)))
	}
	return &HeuristicDetector{
		minHTMLBytes: minBytes,
		selectors:    selectors,
		keywords:     lowerKeywords,
	}
}

// ShouldPromote reports whether the plain fetch response looks like an
// unrendered shell that a headless browser pass could complete.
func (d *HeuristicDetector) ShouldPromote(resp opportunity.FetchResponse) bool {
	if d == nil || resp.UsedHeadless {
		return false
	}
	switch {
	case d.bodyBelowThreshold(resp.Body):
		return true
	case d.containsKeywords(resp.Body):
		return true
	default:
		return d.missingSelectors(resp.Body)
	}
}

func (d *HeuristicDetector) bodyBelowThreshold(body []byte) bool {
	return d.minHTMLBytes > 0 && len(body) < d.minHTMLBytes
}

func (d *HeuristicDetector) containsKeywords(body []byte) bool {
	if len(body) == 0 || len(d.keywords) == 0 {
		return false
	}
	lowerBody := bytes.ToLower(body)
	for _, kw := range d.keywords {
		if bytes.Contains(lowerBody, kw) {
			return true
		}
	}
	return false
}

func (d *HeuristicDetector) missingSelectors(body []byte) bool {
	if len(d.selectors) == 0 || len(body) == 0 {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return true
	}
	for _, sel := range d.selectors {
		if sel == "" {
			continue
		}
		if doc.Find(sel).Length() == 0 {
			return true
		}
	}
	return false
}
