// Package keyword provides full-text search over movie titles and
// descriptive text, so a query can be a plot fragment rather than a title.
package keyword

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/models"
)

// Hit is a single keyword search hit. Position is the global catalog position
// of the matched record.
type Hit struct {
	Position int
	Score    float64
}

// Index wraps a Bleve index over the catalog's records.
type Index struct {
	index bleve.Index
}

type movieDoc struct {
	Title       string `json:"title"`
	Language    string `json:"language"`
	FeatureText string `json:"feature_text"`
}

func indexMapping() *mapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so exact words in
	// titles match; stemming mangles proper nouns.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	docMapping.AddFieldMappingsAt("feature_text", textFieldMapping)
	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("language", keywordFieldMapping)
	im.AddDocumentMapping("movie", docMapping)
	im.DefaultType = "movie"
	im.DefaultMapping = docMapping
	return im
}

// New creates a keyword index. With an empty path the index lives in memory
// and is rebuilt from the bundle on every startup; with a path an existing
// on-disk index is reopened, else created.
func New(path string) (*Index, error) {
	im := indexMapping()
	if path == "" {
		index, err := bleve.NewMemOnly(im)
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory Bleve index: %w", err)
		}
		return &Index{index: index}, nil
	}
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &Index{index: index}, nil
	}
	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &Index{index: index}, nil
}

// IndexAll indexes every record, batched. Document IDs are the records'
// global catalog positions. Records with empty titles are skipped.
//
// A reopened on-disk index may hold documents from a previous, larger
// catalog; IndexAll overwrites IDs 0..len(records)-1 and then deletes the
// leftover higher IDs so stale documents cannot surface in results.
func (x *Index) IndexAll(ctx context.Context, records []models.MovieRecord) error {
	prev, err := x.index.DocCount()
	if err != nil {
		return fmt.Errorf("read index doc count: %w", err)
	}
	batch := x.index.NewBatch()
	const flushEvery = 500
	for i, rec := range records {
		if rec.Title == "" {
			continue
		}
		doc := movieDoc{Title: rec.Title, Language: rec.Language, FeatureText: rec.FeatureText}
		if err := batch.Index(strconv.Itoa(i), doc); err != nil {
			return fmt.Errorf("batch index record %d: %w", i, err)
		}
		if batch.Size() >= flushEvery {
			if err := x.index.Batch(batch); err != nil {
				return fmt.Errorf("flush index batch: %w", err)
			}
			batch = x.index.NewBatch()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	if batch.Size() > 0 {
		if err := x.index.Batch(batch); err != nil {
			return fmt.Errorf("flush index batch: %w", err)
		}
	}
	if prev > uint64(len(records)) {
		stale := x.index.NewBatch()
		for i := uint64(len(records)); i < prev; i++ {
			stale.Delete(strconv.FormatUint(i, 10))
		}
		if err := x.index.Batch(stale); err != nil {
			return fmt.Errorf("delete stale index documents: %w", err)
		}
	}
	return nil
}

// Search runs a match query over title and feature text and returns up to
// limit hits, best first. titleBoost > 1 weights title matches above
// descriptive-text matches.
func (x *Index) Search(ctx context.Context, query string, limit int, titleBoost float64) ([]*Hit, error) {
	if limit <= 0 {
		return nil, nil
	}
	var q blevequery.Query
	if titleBoost > 1 {
		tq := bleve.NewMatchQuery(query)
		tq.SetField("title")
		tq.SetBoost(titleBoost)
		fq := bleve.NewMatchQuery(query)
		fq.SetField("feature_text")
		q = bleve.NewDisjunctionQuery(tq, fq)
	} else {
		q = bleve.NewMatchQuery(query)
	}
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	results, err := x.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]*Hit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		pos, err := strconv.Atoi(hit.ID)
		if err != nil {
			continue
		}
		out = append(out, &Hit{Position: pos, Score: hit.Score})
	}
	return out, nil
}

// DocCount returns the number of indexed movies.
func (x *Index) DocCount() (uint64, error) {
	return x.index.DocCount()
}

// Close releases the index.
func (x *Index) Close() error {
	return x.index.Close()
}
