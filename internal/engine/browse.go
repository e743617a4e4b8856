package engine

import (
	"context"
	"math/rand"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/models"
)

// Popular lists up to the configured number of movies whose language contains
// language, case-insensitively. With enrichment enabled, entries the provider
// cannot resolve are dropped so the list only shows movies with posters;
// without it the list degrades to title-only entries.
func (e *Engine) Popular(ctx context.Context, language string) *models.BrowseResponse {
	snap := e.current.Load()
	records := snap.Catalog.ListByLanguage(language, e.cfg.Browse.PopularLimit)
	titles := make([]string, len(records))
	for i, rec := range records {
		titles[i] = rec.Title
	}
	return &models.BrowseResponse{
		Language: language,
		Movies:   e.enricher.EnrichFiltered(ctx, titles),
	}
}

// Featured builds a cross-language sampler: the leading titles of each
// configured language, shuffled together and capped. The per-language picks
// are fixed; only their presentation order varies between calls.
func (e *Engine) Featured(ctx context.Context) *models.BrowseResponse {
	snap := e.current.Load()

	var titles []string
	for _, lang := range e.cfg.Browse.Languages {
		records := snap.Catalog.ListByLanguage(lang.Code, e.cfg.Browse.FeaturedPerLanguage)
		for _, rec := range records {
			titles = append(titles, rec.Title)
		}
	}

	rand.Shuffle(len(titles), func(i, j int) {
		titles[i], titles[j] = titles[j], titles[i]
	})
	if len(titles) > e.cfg.Browse.FeaturedTotal {
		titles = titles[:e.cfg.Browse.FeaturedTotal]
	}

	return &models.BrowseResponse{
		Language: "all",
		Movies:   e.enricher.EnrichFiltered(ctx, titles),
	}
}

// Languages lists the configured browse languages with their catalog counts.
// The count uses the same loose substring match the browse lists use.
func (e *Engine) Languages() []models.LanguageInfo {
	snap := e.current.Load()
	out := make([]models.LanguageInfo, 0, len(e.cfg.Browse.Languages))
	for _, lang := range e.cfg.Browse.Languages {
		out = append(out, models.LanguageInfo{
			Label:  lang.Label,
			Code:   lang.Code,
			Movies: len(snap.Catalog.ListByLanguage(lang.Code, snap.Catalog.Len())),
		})
	}
	return out
}
