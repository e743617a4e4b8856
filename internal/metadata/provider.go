// Package metadata fetches display metadata (poster, plot, rating) for movie
// titles from an external provider, with caching and failure isolation so a
// slow or dead provider never blocks the in-memory recommendation path.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/models"
)

// ErrNotFound reports that the provider has no metadata for the reference.
// Callers degrade to title-only entries; this is never a request failure.
var ErrNotFound = errors.New("movie metadata not found")

// Ref identifies a movie at the provider, by title or by IMDb id.
// IMDbID wins when both are set.
type Ref struct {
	Title  string
	IMDbID string
}

// Key returns a stable cache key for the reference.
func (r Ref) Key() string {
	if r.IMDbID != "" {
		return "i:" + strings.ToLower(r.IMDbID)
	}
	return "t:" + strings.ToLower(r.Title)
}

func (r Ref) String() string {
	if r.IMDbID != "" {
		return r.IMDbID
	}
	return r.Title
}

// Validate reports whether the ref identifies anything at all.
func (r Ref) Validate() error {
	if r.Title == "" && r.IMDbID == "" {
		return fmt.Errorf("metadata ref needs a title or an IMDb id")
	}
	return nil
}

// Provider looks up display metadata for a movie. Implementations return
// ErrNotFound for provider misses and other errors for transport problems.
type Provider interface {
	Fetch(ctx context.Context, ref Ref) (*models.MovieDetails, error)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
