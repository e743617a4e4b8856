package models

// MovieHit is a single title in a search or browse response, optionally
// carrying provider metadata. Details stays nil when enrichment is disabled
// or the provider had nothing for the title.
type MovieHit struct {
	Title   string        `json:"title"`
	Details *MovieDetails `json:"details,omitempty"`
}

// KeywordHit is a single keyword-search hit over movie descriptive text.
type KeywordHit struct {
	Title    string        `json:"title"`
	Language string        `json:"language"`
	Score    float64       `json:"score"`
	Details  *MovieDetails `json:"details,omitempty"`
}

// SearchResponse is the response for a title search request.
type SearchResponse struct {
	Query string `json:"query"`
	// Matches are fuzzy title matches, best first. Empty means no title came
	// close enough; that is a normal outcome, not an error.
	Matches []*MovieHit `json:"matches"`
	// KeywordHits are descriptive-text hits, present only when the query
	// enabled keyword search.
	KeywordHits []*KeywordHit `json:"keyword_hits,omitempty"`
	QueryTime   int64         `json:"query_time_ms"`
}

// Recommendation is one ranked neighbor of the source movie.
// Score is 1 - cosine distance between the two feature vectors.
type Recommendation struct {
	Title   string        `json:"title"`
	Score   float64       `json:"score"`
	Details *MovieDetails `json:"details,omitempty"`
}

// RecommendResponse is the response for a recommendation request.
// An empty Recommendations slice means the title could not be resolved or its
// partition holds no other movies.
type RecommendResponse struct {
	Title           string            `json:"title"`
	Recommendations []*Recommendation `json:"recommendations"`
	QueryTime       int64             `json:"query_time_ms"`
}

// BrowseResponse lists popular movies for one language selection.
type BrowseResponse struct {
	Language string      `json:"language"`
	Movies   []*MovieHit `json:"movies"`
}

// LanguageInfo describes one browsable language and its partition size.
type LanguageInfo struct {
	Label  string `json:"label"`
	Code   string `json:"code"`
	Movies int    `json:"movies"`
}
