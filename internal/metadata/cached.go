package metadata

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/models"
)

// CachedProvider consults the cache before the wrapped provider and writes
// fresh answers (including misses) back. Cache failures degrade to direct
// provider calls; they are logged, never surfaced.
type CachedProvider struct {
	inner  Provider
	cache  *Cache
	logger *zap.Logger
}

// NewCachedProvider wraps inner with cache.
func NewCachedProvider(inner Provider, cache *Cache, logger *zap.Logger) *CachedProvider {
	return &CachedProvider{inner: inner, cache: cache, logger: logger}
}

// Fetch returns the cached answer when fresh, else asks the wrapped provider
// and caches the result.
func (p *CachedProvider) Fetch(ctx context.Context, ref Ref) (*models.MovieDetails, error) {
	details, found, err := p.cache.Get(ctx, ref)
	if err != nil {
		p.logger.Warn("metadata cache read failed", zap.String("ref", ref.String()), zap.Error(err))
	} else if found {
		if details == nil {
			return nil, fmt.Errorf("%w: %q (cached)", ErrNotFound, ref.String())
		}
		return details, nil
	}

	details, err = p.inner.Fetch(ctx, ref)
	switch {
	case err == nil:
		if putErr := p.cache.Put(ctx, ref, details); putErr != nil {
			p.logger.Warn("metadata cache write failed", zap.String("ref", ref.String()), zap.Error(putErr))
		}
		return details, nil
	case isNotFound(err):
		if putErr := p.cache.Put(ctx, ref, nil); putErr != nil {
			p.logger.Warn("metadata cache write failed", zap.String("ref", ref.String()), zap.Error(putErr))
		}
		return nil, err
	default:
		// Transport errors are not cached; the next request may succeed.
		return nil, err
	}
}
