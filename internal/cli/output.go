// Package cli provides CLI output formatting for movierec.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/models"
	"github.com/jayveertalekar0/movie-recommendation-system/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteSearchResponse writes a title search response to w in the given format.
func WriteSearchResponse(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	fmt.Fprintf(w, "\nQuery %q: %d title matches in %dms\n\n",
		response.Query, len(response.Matches), response.QueryTime)
	for i, hit := range response.Matches {
		fmt.Fprintf(w, "%2d. %s\n", i+1, hit.Title)
		writeDetails(w, hit.Details)
	}
	if len(response.KeywordHits) > 0 {
		fmt.Fprintf(w, "\n--- Descriptive text matches ---\n")
		for _, hit := range response.KeywordHits {
			fmt.Fprintf(w, "  %s [%s] (%.4f)\n", hit.Title, hit.Language, hit.Score)
		}
	}
	return nil
}

// WriteRecommendResponse writes a recommendation response to w.
func WriteRecommendResponse(w io.Writer, response *models.RecommendResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	if len(response.Recommendations) == 0 {
		fmt.Fprintf(w, "\nNo recommendations for %q\n", response.Title)
		return nil
	}
	fmt.Fprintf(w, "\nBecause you watched %q:\n\n", response.Title)
	for i, rec := range response.Recommendations {
		fmt.Fprintf(w, "%2d. %s (score %.4f)\n", i+1, rec.Title, rec.Score)
		writeDetails(w, rec.Details)
	}
	return nil
}

// WriteBrowseResponse writes a popular/featured listing to w.
func WriteBrowseResponse(w io.Writer, response *models.BrowseResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	fmt.Fprintf(w, "\n%d movies (%s):\n\n", len(response.Movies), response.Language)
	for i, hit := range response.Movies {
		fmt.Fprintf(w, "%2d. %s\n", i+1, hit.Title)
		writeDetails(w, hit.Details)
	}
	return nil
}

// WriteLanguages writes the browsable language list to w.
func WriteLanguages(w io.Writer, languages []models.LanguageInfo, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, languages)
	}
	fmt.Fprintln(w)
	for _, lang := range languages {
		fmt.Fprintf(w, "%-12s %-6s %d movies\n", lang.Label, lang.Code, lang.Movies)
	}
	return nil
}

func writeDetails(w io.Writer, d *models.MovieDetails) {
	if d == nil {
		return
	}
	if d.Year != "" || d.Genre != "" || d.Rating != "" {
		fmt.Fprintf(w, "      %s | %s | IMDb %s\n", d.Year, d.Genre, d.Rating)
	}
	if d.Plot != "" {
		fmt.Fprintf(w, "      %s\n", utils.Truncate(d.Plot, 200))
	}
}

func writeJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
