// Package recommend turns a resolved title into ranked neighbor titles using
// the per-language similarity indexes.
package recommend

import (
	"go.uber.org/zap"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/catalog"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/models"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/vector"
)

// Recommender resolves a title against the catalog and queries its language
// partition's similarity index. It is read-only and safe for concurrent use.
type Recommender struct {
	catalog *catalog.Catalog
	indexes map[string]*vector.PartitionIndex
	logger  *zap.Logger
}

// New creates a recommender over one catalog and its per-language indexes.
func New(c *catalog.Catalog, indexes map[string]*vector.PartitionIndex, logger *zap.Logger) *Recommender {
	return &Recommender{catalog: c, indexes: indexes, logger: logger}
}

// Recommend returns up to topN neighbors of title, descending by score, the
// source movie itself always excluded. Score is 1 - cosine distance between
// feature vectors; scores are not clamped, so values outside [0,1] would
// expose a non-normalized metric rather than hide it. An unresolvable title
// yields an empty slice, never an error.
func (r *Recommender) Recommend(title string, topN int) []*models.Recommendation {
	if topN <= 0 {
		return nil
	}

	rec, ok := r.catalog.ResolveFirst(title)
	if !ok {
		return nil
	}

	idx, ok := r.indexes[rec.Language]
	if !ok {
		// A resolvable record without a partition index means the bundle
		// and snapshot disagree; log it, fail the query closed.
		r.logger.Warn("no similarity index for language",
			zap.String("title", rec.Title),
			zap.String("language", rec.Language),
		)
		return nil
	}

	// Re-resolve inside the partition. Absence here is a data inconsistency:
	// the record claims a language whose partition does not hold it.
	position, ok := r.catalog.PositionInPartition(rec.Language, title)
	if !ok {
		r.logger.Warn("title missing from its language partition",
			zap.String("title", rec.Title),
			zap.String("language", rec.Language),
		)
		return nil
	}

	neighbors, err := idx.KNearestTo(position, topN)
	if err != nil {
		r.logger.Warn("similarity query failed",
			zap.String("title", rec.Title),
			zap.String("language", rec.Language),
			zap.Int("position", position),
			zap.Error(err),
		)
		return nil
	}

	out := make([]*models.Recommendation, 0, len(neighbors))
	for _, n := range neighbors {
		neighborRec, ok := r.catalog.RecordAt(rec.Language, n.Position)
		if !ok {
			continue
		}
		out = append(out, &models.Recommendation{
			Title: neighborRec.Title,
			Score: 1 - n.Distance,
		})
	}
	return out
}
