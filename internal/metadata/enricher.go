package metadata

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/models"
)

// Enricher attaches provider metadata to lists of titles with bounded
// concurrency. A nil provider disables enrichment entirely; every lookup then
// degrades to a title-only entry.
type Enricher struct {
	provider    Provider
	concurrency int
	logger      *zap.Logger
}

// NewEnricher creates an enricher. provider may be nil (enrichment disabled).
func NewEnricher(provider Provider, concurrency int, logger *zap.Logger) *Enricher {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Enricher{provider: provider, concurrency: concurrency, logger: logger}
}

// Enabled reports whether a provider is configured.
func (e *Enricher) Enabled() bool {
	return e.provider != nil
}

// Lookup fetches metadata for one title. Any failure returns nil: absence of
// metadata never fails the surrounding request.
func (e *Enricher) Lookup(ctx context.Context, title string) *models.MovieDetails {
	if e.provider == nil || title == "" {
		return nil
	}
	details, err := e.provider.Fetch(ctx, Ref{Title: title})
	if err != nil {
		if !isNotFound(err) {
			e.logger.Warn("metadata fetch failed", zap.String("title", title), zap.Error(err))
		}
		return nil
	}
	return details
}

// EnrichAll maps titles to hits with metadata where available, preserving
// order. Titles the provider cannot resolve keep a nil Details.
func (e *Enricher) EnrichAll(ctx context.Context, titles []string) []*models.MovieHit {
	hits := make([]*models.MovieHit, len(titles))
	for i, title := range titles {
		hits[i] = &models.MovieHit{Title: title}
	}
	if e.provider == nil {
		return hits
	}

	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup
	for i := range hits {
		wg.Add(1)
		sem <- struct{}{}
		go func(h *models.MovieHit) {
			defer wg.Done()
			defer func() { <-sem }()
			h.Details = e.Lookup(ctx, h.Title)
		}(hits[i])
	}
	wg.Wait()
	return hits
}

// EnrichFiltered is EnrichAll minus the entries the provider could not
// resolve, matching the browse sections which only show movies with posters.
// With enrichment disabled it falls back to title-only entries so the
// sections stay usable without an API key.
func (e *Enricher) EnrichFiltered(ctx context.Context, titles []string) []*models.MovieHit {
	hits := e.EnrichAll(ctx, titles)
	if e.provider == nil {
		return hits
	}
	out := hits[:0]
	for _, h := range hits {
		if h.Details != nil {
			out = append(out, h)
		}
	}
	return out
}
