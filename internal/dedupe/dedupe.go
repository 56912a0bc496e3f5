// Package dedupe rejects repeated announcements within a run and across
// accumulated history. Identity is the canonical key: a digest of the
// normalized title joined with the canonical URL, so the same
// announcement rediscovered by a different locator strategy, source
// page, or query-string variant collapses to one record.
package dedupe

import (
	"strings"

	"github.com/editalradar/editalradar/internal/opportunity"
	"github.com/editalradar/editalradar/internal/textutil"
)

// Deduper tracks seen canonical keys. The seen set is explicit state
// owned by the caller's run, not a hidden global.
type Deduper struct {
	hasher   opportunity.Hasher
	seen     map[string]struct{}
	admitted []string
}

// New builds a Deduper seeded with prior-run keys. Prior keys are
// read-only input; they suppress re-emission but are not reported as
// admitted by this run.
func New(hasher opportunity.Hasher, priorKeys []string) *Deduper {
	seen := make(map[string]struct{}, len(priorKeys))
	for _, k := range priorKeys {
		if k != "" {
			seen[k] = struct{}{}
		}
	}
	return &Deduper{hasher: hasher, seen: seen}
}

// Key computes the canonical key for a title/URL pair: the digest of
// the normalized title (lowercased, whitespace collapsed) concatenated
// with the canonical URL. An absent URL contributes an empty component,
// so two URL-less candidates with the same normalized title are still
// duplicates.
func (d *Deduper) Key(title, detailURL string) (string, error) {
	normalized := strings.ToLower(textutil.NormalizeSpace(title))
	digest, err := d.hasher.Hash([]byte(normalized))
	if err != nil {
		return "", err
	}
	return digest + "|" + textutil.CanonicalURL(detailURL), nil
}

// Admit records the key and reports whether it was first seen now.
func (d *Deduper) Admit(key string) bool {
	if _, dup := d.seen[key]; dup {
		return false
	}
	d.seen[key] = struct{}{}
	d.admitted = append(d.admitted, key)
	return true
}

// Filter returns the order-preserving subsequence of opportunities with
// duplicates removed, first occurrence wins. Records with an empty
// canonical key are keyed on the spot.
func (d *Deduper) Filter(records []opportunity.Opportunity) ([]opportunity.Opportunity, error) {
	out := make([]opportunity.Opportunity, 0, len(records))
	for _, rec := range records {
		key := rec.CanonicalKey
		if key == "" {
			var err error
			key, err = d.Key(rec.Title, rec.DetailURL)
			if err != nil {
				return nil, err
			}
			rec.CanonicalKey = key
		}
		if !d.Admit(key) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// AdmittedKeys returns the keys newly admitted by this Deduper, in
// admission order, for the caller to persist as history.
func (d *Deduper) AdmittedKeys() []string {
	out := make([]string, len(d.admitted))
	copy(out, d.admitted)
	return out
}

// SplitKey separates a canonical key into digest and canonical URL
// components. Useful for storage layers that index on the URL part.
func SplitKey(key string) (digest, canonicalURL string) {
	digest, canonicalURL, _ = strings.Cut(key, "|")
	return digest, canonicalURL
}
