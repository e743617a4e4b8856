package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/models"
)

// OMDbClient fetches movie metadata from an OMDb-compatible HTTP API.
type OMDbClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewOMDbClient creates a client for baseURL with a per-call timeout.
func NewOMDbClient(baseURL, apiKey string, timeout time.Duration) *OMDbClient {
	return &OMDbClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// omdbResponse mirrors the OMDb JSON payload.
type omdbResponse struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Genre      string `json:"Genre"`
	IMDbRating string `json:"imdbRating"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	IMDbID     string `json:"imdbID"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// Fetch looks up a movie by IMDb id when set, else by title. A miss, and a
// hit without a poster, both report ErrNotFound: entries without posters are
// not worth a card.
func (c *OMDbClient) Fetch(ctx context.Context, ref Ref) (*models.MovieDetails, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	if ref.IMDbID != "" {
		params.Set("i", ref.IMDbID)
	} else {
		params.Set("t", ref.Title)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build metadata request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metadata request for %q: %w", ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata request for %q: unexpected status %d", ref, resp.StatusCode)
	}

	var body omdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode metadata response for %q: %w", ref, err)
	}

	if body.Response != "True" || body.Poster == "N/A" {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, ref.String())
	}

	return &models.MovieDetails{
		PosterURL: body.Poster,
		Title:     body.Title,
		Year:      body.Year,
		Genre:     body.Genre,
		Rating:    nullable(body.IMDbRating),
		Plot:      nullable(body.Plot),
		IMDbID:    body.IMDbID,
	}, nil
}

// nullable maps OMDb's "N/A" placeholder to an empty string.
func nullable(s string) string {
	if s == "N/A" {
		return ""
	}
	return s
}
