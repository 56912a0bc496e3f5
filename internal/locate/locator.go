// Package locate finds announcement candidate blocks in raw markup.
// Page structure is unknown and varies over time, so location runs a
// layered strategy chain: specific selectors, generic selectors,
// free-text keyword search, and link-URL keyword search as last resort.
// The first strategy producing any surviving candidate wins; results
// are never merged across strategies.
package locate

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/editalradar/editalradar/internal/opportunity"
	"github.com/editalradar/editalradar/internal/textutil"
)

// Strategy names reported on candidates and in metrics.
const (
	StrategySpecific = "specific-selector"
	StrategyGeneric  = "generic-selector"
	StrategyFreeText = "free-text"
	StrategyLinkURL  = "link-url"
)

const (
	defaultMinTitleLength = 10
	// Free-text matches above this length are whole-page containers,
	// not titles.
	maxFreeTextLength = 300
)

// Config controls candidate location for one page.
type Config struct {
	// Markers are the low-precision keywords ("chamada", "edital", …)
	// matched case- and diacritic-insensitively.
	Markers []string
	// MinTitleLength discards noise blocks with very short visible text.
	MinTitleLength int
}

// Locator maps raw markup to an ordered list of candidate blocks.
type Locator struct {
	markers []string
	minLen  int
}

// New builds a Locator. Markers are stored folded.
func New(cfg Config) *Locator {
	minLen := cfg.MinTitleLength
	if minLen <= 0 {
		minLen = defaultMinTitleLength
	}
	markers := make([]string, 0, len(cfg.Markers))
	for _, m := range cfg.Markers {
		m = textutil.Fold(strings.TrimSpace(m))
		if m != "" {
			markers = append(markers, m)
		}
	}
	return &Locator{markers: markers, minLen: minLen}
}

type strategyFunc func(doc *goquery.Document) []*goquery.Selection

// Locate parses the markup and runs the strategy chain. Malformed
// markup degrades to an empty list, never an error. Links inside each
// candidate are resolved absolute against baseURL.
func (l *Locator) Locate(markup, baseURL string) []opportunity.Candidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil
	}

	chain := []struct {
		name string
		fn   strategyFunc
	}{
		{name: StrategySpecific, fn: l.specificSelectors},
		{name: StrategyGeneric, fn: l.genericSelectors},
		{name: StrategyFreeText, fn: l.freeText},
		{name: StrategyLinkURL, fn: l.linkURLs},
	}

	for _, s := range chain {
		candidates := l.collect(s.fn(doc), s.name, baseURL)
		if len(candidates) > 0 {
			return candidates
		}
	}
	return nil
}

// specificSelectors matches heading elements whose text carries a
// marker word, and container elements whose class attribute does.
func (l *Locator) specificSelectors(doc *goquery.Document) []*goquery.Selection {
	var out []*goquery.Selection
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, sel *goquery.Selection) {
		if l.hasMarker(sel.Text()) {
			out = append(out, sel)
		}
	})
	doc.Find("div[class], section[class], article[class], li[class], td[class], span[class]").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		if l.hasMarker(class) {
			out = append(out, sel)
		}
	})
	return out
}

// genericSelectors matches any heading-level or title-like element,
// keyword or not.
func (l *Locator) genericSelectors(doc *goquery.Document) []*goquery.Selection {
	var out []*goquery.Selection
	doc.Find(`h1, h2, h3, h4, h5, h6, [role="heading"], [class*="title"], [class*="header"]`).Each(func(_ int, sel *goquery.Selection) {
		out = append(out, sel)
	})
	return out
}

// freeText matches leaf-ish elements whose visible text carries a
// marker word. Oversized blocks are whole-page containers and skipped.
func (l *Locator) freeText(doc *goquery.Document) []*goquery.Selection {
	var out []*goquery.Selection
	doc.Find("p, li, td, span, a, strong, b").Each(func(_ int, sel *goquery.Selection) {
		text := textutil.NormalizeSpace(sel.Text())
		if len([]rune(text)) > maxFreeTextLength {
			return
		}
		if l.hasMarker(text) {
			out = append(out, sel)
		}
	})
	return innermost(out)
}

// innermost drops matches that contain another match. A list item
// wrapping a matched anchor is a grouping block, not a title.
func innermost(matches []*goquery.Selection) []*goquery.Selection {
	if len(matches) < 2 {
		return matches
	}
	matched := make(map[*html.Node]struct{}, len(matches))
	for _, sel := range matches {
		for _, n := range sel.Nodes {
			matched[n] = struct{}{}
		}
	}
	wrappers := make(map[*html.Node]struct{})
	for _, sel := range matches {
		for _, n := range sel.Nodes {
			for p := n.Parent; p != nil; p = p.Parent {
				if _, ok := matched[p]; ok {
					wrappers[p] = struct{}{}
				}
			}
		}
	}
	var out []*goquery.Selection
	for _, sel := range matches {
		if len(sel.Nodes) == 1 {
			if _, wrapped := wrappers[sel.Nodes[0]]; wrapped {
				continue
			}
		}
		out = append(out, sel)
	}
	return out
}

// linkURLs matches anchors whose target URL carries a marker word.
func (l *Locator) linkURLs(doc *goquery.Document) []*goquery.Selection {
	var out []*goquery.Selection
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if l.hasMarker(href) {
			out = append(out, sel)
		}
	})
	return out
}

// collect maps raw matches to candidates: closest meaningful container,
// minimum title length filter, exact-duplicate collapse.
func (l *Locator) collect(matches []*goquery.Selection, strategy, baseURL string) []opportunity.Candidate {
	seen := make(map[string]struct{}, len(matches))
	var out []opportunity.Candidate
	for _, sel := range matches {
		title := textutil.NormalizeSpace(sel.Text())
		if title == "" || len([]rune(title)) < l.minLen {
			continue
		}
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}

		container := closestContainer(sel)
		c := opportunity.Candidate{
			Title:    title,
			Text:     textutil.NormalizeSpace(container.Text()),
			Links:    containerLinks(sel, container, baseURL),
			NextText: textutil.NormalizeSpace(container.Next().Text()),
			Strategy: strategy,
		}
		out = append(out, c)
	}
	return out
}

func (l *Locator) hasMarker(s string) bool {
	if s == "" {
		return false
	}
	folded := textutil.Fold(s)
	for _, m := range l.markers {
		if strings.Contains(folded, m) {
			return true
		}
	}
	return false
}

var containerTags = map[string]struct{}{
	"li": {}, "tr": {}, "td": {}, "article": {}, "section": {}, "div": {},
}

// closestContainer walks up from the match to the nearest block that
// groups a title with its metadata. An anchor or heading alone rarely
// carries the period text.
func closestContainer(sel *goquery.Selection) *goquery.Selection {
	for p := sel.Parent(); p.Length() > 0; p = p.Parent() {
		name := goquery.NodeName(p)
		if _, ok := containerTags[name]; ok {
			return p
		}
		if name == "body" || name == "html" {
			break
		}
	}
	return sel
}

// containerLinks gathers the match's own href (when it is an anchor)
// followed by the container's anchors, absolute and deduplicated.
func containerLinks(sel, container *goquery.Selection, baseURL string) []opportunity.Link {
	var out []opportunity.Link
	seen := make(map[string]struct{})

	add := func(s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		abs := textutil.ResolveURL(baseURL, href)
		if abs == "" {
			abs = strings.TrimSpace(href)
		}
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		out = append(out, opportunity.Link{URL: abs, Text: textutil.NormalizeSpace(s.Text())})
	}

	if goquery.NodeName(sel) == "a" {
		add(sel)
	}
	sel.Find("a[href]").Each(func(_ int, s *goquery.Selection) { add(s) })
	container.Find("a[href]").Each(func(_ int, s *goquery.Selection) { add(s) })
	return out
}
