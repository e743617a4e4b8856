// Package engine wires the catalog, matcher, similarity indexes, keyword
// index and metadata enricher into the service's query surface.
package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/config"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/metadata"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/models"
)

// Engine answers search, recommendation and browse queries against the
// current catalog snapshot. All methods are safe for concurrent use; Reload
// swaps the snapshot atomically underneath in-flight requests.
type Engine struct {
	cfg      *config.Config
	enricher *metadata.Enricher
	logger   *zap.Logger
	current  atomic.Pointer[Snapshot]
}

// New builds an engine from the configured bundle. The initial snapshot uses
// the configured keyword index path; reloads always rebuild in memory because
// the previous snapshot still holds the on-disk index open.
func New(ctx context.Context, cfg *config.Config, enricher *metadata.Enricher, logger *zap.Logger) (*Engine, error) {
	snap, err := buildSnapshot(ctx, cfg, cfg.Bundle.Path, cfg.Search.KeywordIndexPath, logger)
	if err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg, enricher: enricher, logger: logger}
	e.current.Store(snap)
	return e, nil
}

// Reload rebuilds the snapshot from the configured bundle path and swaps it
// in. On any failure the previous snapshot keeps serving.
func (e *Engine) Reload(ctx context.Context) error {
	snap, err := buildSnapshot(ctx, e.cfg, e.cfg.Bundle.Path, "", e.logger)
	if err != nil {
		return fmt.Errorf("reload failed: %w", err)
	}
	old := e.current.Swap(snap)
	if old != nil {
		if err := old.Keyword.Close(); err != nil {
			e.logger.Warn("failed to close previous keyword index", zap.Error(err))
		}
	}
	e.logger.Info("catalog snapshot reloaded", zap.Int("records", snap.Catalog.Len()))
	return nil
}

// Snapshot returns the current catalog snapshot.
func (e *Engine) Snapshot() *Snapshot {
	return e.current.Load()
}

// Search resolves the query against titles (fuzzy) and, when enabled,
// descriptive text (keyword). The two legs are independent and run
// concurrently.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	startTime := time.Now()
	if err := query.Validate(); err != nil {
		return nil, err
	}
	snap := e.current.Load()

	var (
		titles      []string
		keywordHits []*models.KeywordHit
		errChan     = make(chan error, 1)
		wg          sync.WaitGroup
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		titles = snap.Matcher.Match(query.Query)
	}()

	if query.KeywordEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hits, err := snap.Keyword.Search(ctx, query.Query, query.Limit, e.cfg.Search.KeywordTitleBoost)
			if err != nil {
				errChan <- fmt.Errorf("keyword search failed: %w", err)
				return
			}
			records := snap.Catalog.Records()
			for _, h := range hits {
				// A persisted index can hold documents from an older, larger
				// catalog. Such hits have no record to point at; drop them.
				if h.Position < 0 || h.Position >= len(records) {
					e.logger.Warn("keyword hit outside catalog, skipping",
						zap.Int("position", h.Position),
						zap.Int("records", len(records)))
					continue
				}
				rec := records[h.Position]
				keywordHits = append(keywordHits, &models.KeywordHit{
					Title:    rec.Title,
					Language: rec.Language,
					Score:    h.Score,
				})
			}
		}()
	}

	wg.Wait()
	close(errChan)
	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	var matches []*models.MovieHit
	if query.Enrich {
		matches = e.enricher.EnrichAll(ctx, titles)
	} else {
		matches = make([]*models.MovieHit, len(titles))
		for i, t := range titles {
			matches[i] = &models.MovieHit{Title: t}
		}
	}

	return &models.SearchResponse{
		Query:       query.Query,
		Matches:     matches,
		KeywordHits: keywordHits,
		QueryTime:   time.Since(startTime).Milliseconds(),
	}, nil
}

// Recommend returns ranked neighbors of the query title. An unresolvable
// title yields an empty list, not an error.
func (e *Engine) Recommend(ctx context.Context, query *models.RecommendQuery) (*models.RecommendResponse, error) {
	startTime := time.Now()
	if err := query.Validate(); err != nil {
		return nil, err
	}
	snap := e.current.Load()

	recs := snap.Recommender.Recommend(query.Title, query.TopN)
	if query.Enrich && len(recs) > 0 {
		titles := make([]string, len(recs))
		for i, r := range recs {
			titles[i] = r.Title
		}
		// EnrichAll preserves order, so details zip back by index.
		for i, hit := range e.enricher.EnrichAll(ctx, titles) {
			recs[i].Details = hit.Details
		}
	}
	if recs == nil {
		recs = []*models.Recommendation{}
	}

	return &models.RecommendResponse{
		Title:           query.Title,
		Recommendations: recs,
		QueryTime:       time.Since(startTime).Milliseconds(),
	}, nil
}

// Details fetches provider metadata for one title. Returns nil when
// enrichment is disabled or the provider has nothing.
func (e *Engine) Details(ctx context.Context, title string) *models.MovieDetails {
	return e.enricher.Lookup(ctx, title)
}

// EnrichmentEnabled reports whether a metadata provider is configured.
func (e *Engine) EnrichmentEnabled() bool {
	return e.enricher.Enabled()
}

// Status describes the engine's current snapshot.
type Status struct {
	BundlePath        string    `json:"bundle_path"`
	LoadedAt          time.Time `json:"loaded_at"`
	Records           int       `json:"records"`
	Languages         int       `json:"languages"`
	KeywordDocs       uint64    `json:"keyword_docs"`
	EnrichmentEnabled bool      `json:"enrichment_enabled"`
}

// Status reports snapshot-level counters.
func (e *Engine) Status() *Status {
	snap := e.current.Load()
	docs, err := snap.Keyword.DocCount()
	if err != nil {
		e.logger.Warn("failed to count keyword docs", zap.Error(err))
	}
	return &Status{
		BundlePath:        snap.BundlePath,
		LoadedAt:          snap.LoadedAt,
		Records:           snap.Catalog.Len(),
		Languages:         len(snap.Catalog.Languages()),
		KeywordDocs:       docs,
		EnrichmentEnabled: e.enricher.Enabled(),
	}
}

// Close releases the current snapshot's keyword index.
func (e *Engine) Close() error {
	if snap := e.current.Load(); snap != nil {
		return snap.Keyword.Close()
	}
	return nil
}
