// Package catalog holds the flat movie table and its lookup indexes. A
// Catalog is built once from a bundle and is read-only afterwards, so
// concurrent request handling needs no locking.
package catalog

import (
	"sort"
	"strings"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/bundle"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/models"
)

// Catalog is the union of all movie records with fast title lookup and
// per-language membership.
type Catalog struct {
	records []models.MovieRecord
	// byLower maps lowercased title to global record positions in catalog order.
	byLower map[string][]int
	// members maps language to global record positions in catalog order; the
	// index into this slice is the record's position within its partition.
	members map[string][]int
}

// New builds a catalog from the bundle's record table. Records with empty
// titles stay in the table (they keep partition positions aligned with the
// vectors) but are excluded from title lookups.
func New(b *bundle.Bundle) *Catalog {
	c := &Catalog{
		records: b.Records,
		byLower: make(map[string][]int),
		members: make(map[string][]int),
	}
	for i, rec := range b.Records {
		if rec.Title != "" {
			lower := strings.ToLower(rec.Title)
			c.byLower[lower] = append(c.byLower[lower], i)
		}
		c.members[rec.Language] = append(c.members[rec.Language], i)
	}
	return c
}

// LookupExact returns the distinct original-cased titles matching title
// case-insensitively, in catalog order. Empty result for unknown titles.
func (c *Catalog) LookupExact(title string) []string {
	if title == "" {
		return nil
	}
	positions := c.byLower[strings.ToLower(title)]
	if len(positions) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(positions))
	out := make([]string, 0, len(positions))
	for _, pos := range positions {
		t := c.records[pos].Title
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// AllTitles returns every known title in catalog order, case preserved,
// duplicates included, empty titles excluded.
func (c *Catalog) AllTitles() []string {
	out := make([]string, 0, len(c.records))
	for _, rec := range c.records {
		if rec.Title != "" {
			out = append(out, rec.Title)
		}
	}
	return out
}

// ListByLanguage returns up to limit records whose language field contains
// codeSubstring, case-insensitively, in catalog order. The substring match is
// deliberate looseness: "ma" matches both "Malayalam" and "Marathi".
func (c *Catalog) ListByLanguage(codeSubstring string, limit int) []models.MovieRecord {
	if codeSubstring == "" || limit <= 0 {
		return nil
	}
	sub := strings.ToLower(codeSubstring)
	var out []models.MovieRecord
	for _, rec := range c.records {
		if rec.Title == "" {
			continue
		}
		if strings.Contains(strings.ToLower(rec.Language), sub) {
			out = append(out, rec)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// ResolveFirst returns the first catalog-order record whose title matches
// case-insensitively.
func (c *Catalog) ResolveFirst(title string) (models.MovieRecord, bool) {
	positions := c.byLower[strings.ToLower(title)]
	if len(positions) == 0 {
		return models.MovieRecord{}, false
	}
	return c.records[positions[0]], true
}

// PositionInPartition re-resolves title within one language partition and
// returns its partition position. This mirrors the global-then-partition
// double resolution: a title present globally can still be absent from the
// partition its record claims, which callers treat as a data inconsistency.
func (c *Catalog) PositionInPartition(language, title string) (int, bool) {
	lower := strings.ToLower(title)
	for i, pos := range c.members[language] {
		if strings.ToLower(c.records[pos].Title) == lower {
			return i, true
		}
	}
	return 0, false
}

// RecordAt returns the record at partition position i of language.
func (c *Catalog) RecordAt(language string, i int) (models.MovieRecord, bool) {
	positions := c.members[language]
	if i < 0 || i >= len(positions) {
		return models.MovieRecord{}, false
	}
	return c.records[positions[i]], true
}

// PartitionSize returns the number of records in a language partition.
func (c *Catalog) PartitionSize(language string) int {
	return len(c.members[language])
}

// Languages returns all partition languages, sorted.
func (c *Catalog) Languages() []string {
	out := make([]string, 0, len(c.members))
	for lang := range c.members {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Records returns the full record table in catalog order.
func (c *Catalog) Records() []models.MovieRecord {
	return c.records
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}
