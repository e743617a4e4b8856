// Package models defines core data structures for movies, queries, and results.
package models

// MovieRecord is one catalog row. Title is the natural key but is not unique;
// records are disambiguated by (title, language). FeatureText is the opaque
// descriptive text the offline vectorizer consumed; at runtime it only feeds
// the keyword index.
type MovieRecord struct {
	Title       string `json:"title"`
	Language    string `json:"language"`
	FeatureText string `json:"feature_text,omitempty"`
}

// MovieDetails is display metadata fetched from the external provider.
type MovieDetails struct {
	PosterURL string `json:"poster_url,omitempty"`
	Title     string `json:"title"`
	Year      string `json:"year,omitempty"`
	Genre     string `json:"genre,omitempty"`
	Rating    string `json:"rating,omitempty"`
	Plot      string `json:"plot,omitempty"`
	IMDbID    string `json:"imdb_id,omitempty"`
}
