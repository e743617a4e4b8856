// Package match resolves free-text user input to candidate catalog titles,
// exact matches first, then approximate string similarity.
package match

import (
	"sort"
	"strings"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/catalog"
)

// Matcher finds candidate titles for user input against one catalog.
type Matcher struct {
	catalog       *catalog.Catalog
	maxCandidates int
	minSimilarity float64
}

// New creates a matcher. maxCandidates caps fuzzy results (exact matches are
// never capped); minSimilarity is the ratio cutoff in [0,1].
func New(c *catalog.Catalog, maxCandidates int, minSimilarity float64) *Matcher {
	return &Matcher{
		catalog:       c,
		maxCandidates: maxCandidates,
		minSimilarity: minSimilarity,
	}
}

// Match returns candidate titles for userText, de-duplicated, cased as
// stored. Case-insensitive exact matches short-circuit in catalog order;
// otherwise fuzzy candidates with similarity >= the cutoff are returned
// highest first, ties in catalog order, at most maxCandidates. An empty
// result is the normal no-match outcome, not an error.
func (m *Matcher) Match(userText string) []string {
	if strings.TrimSpace(userText) == "" {
		return nil
	}

	if exact := m.catalog.LookupExact(userText); len(exact) > 0 {
		return exact
	}

	input := strings.ToLower(userText)

	type candidate struct {
		lower string
		order int // first occurrence in catalog order, for tie-breaking
		score float64
	}
	var candidates []candidate
	seen := make(map[string]bool)
	for i, title := range m.catalog.AllTitles() {
		lower := strings.ToLower(title)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		if UpperBound(input, lower) < m.minSimilarity {
			continue
		}
		if score := Ratio(input, lower); score >= m.minSimilarity {
			candidates = append(candidates, candidate{lower: lower, order: i, score: score})
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})
	if len(candidates) > m.maxCandidates {
		candidates = candidates[:m.maxCandidates]
	}

	// Map each lowercase match back to its first original-cased occurrence.
	out := make([]string, 0, len(candidates))
	returned := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		originals := m.catalog.LookupExact(c.lower)
		if len(originals) == 0 {
			continue
		}
		title := originals[0]
		if !returned[title] {
			returned[title] = true
			out = append(out, title)
		}
	}
	return out
}
