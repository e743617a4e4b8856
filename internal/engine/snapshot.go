package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/bundle"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/catalog"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/config"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/keyword"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/match"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/recommend"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/vector"
	"go.uber.org/zap"
)

// Snapshot is one fully built, immutable view of the catalog: the record
// table, the fuzzy matcher, the per-language similarity indexes and the
// keyword index, all derived from a single bundle read. Requests hold a
// snapshot for their whole lifetime, so a concurrent reload can never show
// them a half-updated catalog.
type Snapshot struct {
	Catalog     *catalog.Catalog
	Matcher     *match.Matcher
	Recommender *recommend.Recommender
	Keyword     *keyword.Index
	BundlePath  string
	LoadedAt    time.Time
}

// buildSnapshot reads and validates the bundle at bundlePath and builds every
// derived structure. keywordPath selects an on-disk Bleve index; empty means
// in-memory.
func buildSnapshot(ctx context.Context, cfg *config.Config, bundlePath, keywordPath string, logger *zap.Logger) (*Snapshot, error) {
	b, err := bundle.Read(bundlePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("bundle failed validation: %w", err)
	}

	cat := catalog.New(b)

	indexes := make(map[string]*vector.PartitionIndex, len(b.Partitions))
	for _, p := range b.Partitions {
		idx, err := vector.NewPartitionIndex(p.Vectors, p.Dim)
		if err != nil {
			return nil, fmt.Errorf("failed to build similarity index for %q: %w", p.Language, err)
		}
		indexes[p.Language] = idx
	}

	kw, err := keyword.New(keywordPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyword index: %w", err)
	}
	if err := kw.IndexAll(ctx, cat.Records()); err != nil {
		kw.Close()
		return nil, fmt.Errorf("failed to index records: %w", err)
	}

	logger.Info("catalog snapshot built",
		zap.String("bundle", bundlePath),
		zap.Int("records", cat.Len()),
		zap.Int("languages", len(b.Partitions)),
	)

	return &Snapshot{
		Catalog:     cat,
		Matcher:     match.New(cat, cfg.Search.MaxCandidates, cfg.Search.MinSimilarity),
		Recommender: recommend.New(cat, indexes, logger),
		Keyword:     kw,
		BundlePath:  bundlePath,
		LoadedAt:    time.Now(),
	}, nil
}
