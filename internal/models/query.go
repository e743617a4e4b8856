package models

import "fmt"

// SearchQuery represents a title search request.
type SearchQuery struct {
	Query string `json:"query"`
	// Limit caps the number of keyword hits (not fuzzy title matches, which
	// are bounded by the matcher itself).
	Limit int `json:"limit,omitempty"`
	// KeywordEnabled additionally searches movie descriptive text, so a query
	// can be a plot fragment rather than a title.
	KeywordEnabled bool `json:"keyword_enabled,omitempty"`
	// Enrich attaches provider metadata to each returned title.
	Enrich bool `json:"enrich,omitempty"`
}

// Validate ensures the search query has valid fields and sets defaults.
// Returns an error if the query is empty; otherwise normalizes the limit.
func (q *SearchQuery) Validate() error {
	if q.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Limit > 50 {
		q.Limit = 50
	}
	return nil
}

// RecommendQuery represents a recommendation request for a resolved title.
type RecommendQuery struct {
	Title  string `json:"title"`
	TopN   int    `json:"top_n,omitempty"`
	Enrich bool   `json:"enrich,omitempty"`
}

// Validate ensures the recommend query has valid fields and sets defaults.
func (q *RecommendQuery) Validate() error {
	if q.Title == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if q.TopN <= 0 {
		q.TopN = 5
	}
	if q.TopN > 25 {
		q.TopN = 25
	}
	return nil
}
