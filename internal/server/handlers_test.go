package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/bundle"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/config"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/engine"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/metadata"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/models"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	b := &bundle.Bundle{
		Records: []models.MovieRecord{
			{Title: "The Matrix", Language: "en", FeatureText: "a hacker discovers reality is a simulation"},
			{Title: "Inception", Language: "en", FeatureText: "a thief steals secrets through dream sharing"},
			{Title: "Titanic", Language: "en", FeatureText: "a doomed romance aboard an ocean liner"},
			{Title: "Sholay", Language: "hi", FeatureText: "two criminals hired to capture a bandit"},
			{Title: "Deewaar", Language: "hi", FeatureText: "two brothers on opposite sides of the law"},
		},
		Partitions: []bundle.Partition{
			{Language: "en", Dim: 2, Vectors: [][]float32{{1, 0}, {0.9, 0.1}, {0, 1}}},
			{Language: "hi", Dim: 2, Vectors: [][]float32{{1, 0}, {0, 1}}},
		},
	}
	path := filepath.Join(t.TempDir(), "movies.bundle")
	if err := bundle.Write(path, b); err != nil {
		t.Fatalf("writing test bundle: %v", err)
	}

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Bundle.Path = path
	cfg.Browse.Languages = []config.BrowseLanguage{
		{Label: "English", Code: "en"},
		{Label: "Hindi", Code: "hi"},
	}

	logger := zap.NewNop()
	enricher := metadata.NewEnricher(nil, 1, logger)
	eng, err := engine.New(context.Background(), cfg, enricher, logger)
	if err != nil {
		t.Fatalf("building engine: %v", err)
	}
	t.Cleanup(func() { eng.Close() })
	return NewServer(eng, cfg, logger)
}

func TestHandleSearch(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(models.SearchQuery{Query: "the matrx"})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.handleSearch(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}
	var out models.SearchResponse
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Matches) == 0 || out.Matches[0].Title != "The Matrix" {
		t.Errorf("unexpected matches: %+v", out.Matches)
	}
}

func TestHandleSearch_badRequests(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", "{"},
		{"empty query", `{"query": ""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			srv.handleSearch(w, r)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", w.Code)
			}
		})
	}
}

func TestHandleRecommendations(t *testing.T) {
	srv := newTestServer(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?title=The+Matrix&top_n=2", nil)
	w := httptest.NewRecorder()
	srv.handleRecommendations(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}
	var out models.RecommendResponse
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Recommendations) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(out.Recommendations))
	}
	for _, rec := range out.Recommendations {
		if rec.Title == "The Matrix" {
			t.Error("recommendations include the source title")
		}
	}
}

func TestHandleRecommendations_validation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		url  string
		want int
	}{
		{"missing title", "/api/v1/recommendations", http.StatusBadRequest},
		{"bad top_n", "/api/v1/recommendations?title=x&top_n=abc", http.StatusBadRequest},
		{"unknown title is ok", "/api/v1/recommendations?title=nope", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			srv.handleRecommendations(w, r)
			if w.Code != tt.want {
				t.Errorf("status: got %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestHandlePopular(t *testing.T) {
	srv := newTestServer(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/movies/popular?language=hi", nil)
	w := httptest.NewRecorder()
	srv.handlePopular(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out models.BrowseResponse
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Movies) != 2 {
		t.Errorf("got %d movies, want 2", len(out.Movies))
	}

	r = httptest.NewRequest(http.MethodGet, "/api/v1/movies/popular", nil)
	w = httptest.NewRecorder()
	srv.handlePopular(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing language: got %d, want 400", w.Code)
	}
}

func TestHandleFeatured(t *testing.T) {
	srv := newTestServer(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/movies/featured", nil)
	w := httptest.NewRecorder()
	srv.handleFeatured(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out models.BrowseResponse
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Movies) == 0 {
		t.Error("featured list is empty")
	}
}

func TestHandleDetails_providerNotConfigured(t *testing.T) {
	srv := newTestServer(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/movies/details?title=The+Matrix", nil)
	w := httptest.NewRecorder()
	srv.handleDetails(w, r)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", w.Code)
	}
}

func TestHandleLanguages(t *testing.T) {
	srv := newTestServer(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/languages", nil)
	w := httptest.NewRecorder()
	srv.handleLanguages(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out struct {
		Languages []models.LanguageInfo `json:"languages"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Languages) != 2 {
		t.Errorf("got %d languages, want 2", len(out.Languages))
	}
}

func TestHandleHealthAndStatus(t *testing.T) {
	srv := newTestServer(t)

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.handleHealth(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("health status: got %d", w.Code)
	}

	r = httptest.NewRequest(http.MethodGet, "/status", nil)
	w = httptest.NewRecorder()
	srv.handleStatus(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out["records"].(float64) != 5 {
		t.Errorf("records = %v, want 5", out["records"])
	}
}

func TestRouter_requestIDHeader(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("no X-Request-ID header generated")
	}

	r = httptest.NewRequest(http.MethodGet, "/health", nil)
	r.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want caller-supplied abc-123", got)
	}
}
