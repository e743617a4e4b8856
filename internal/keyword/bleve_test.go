package keyword

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/models"
)

var testRecords = []models.MovieRecord{
	{Title: "The Matrix", Language: "en", FeatureText: "a hacker discovers reality is a simulation"},
	{Title: "Inception", Language: "en", FeatureText: "a thief steals secrets through dream sharing"},
	{Title: "Drishyam", Language: "ml", FeatureText: "a father covers up a crime to protect his family"},
	{Title: "", Language: "en", FeatureText: "untitled filler row"},
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	if err := idx.IndexAll(context.Background(), testRecords); err != nil {
		t.Fatalf("IndexAll: %v", err)
	}
	return idx
}

func TestSearch_byPlotFragment(t *testing.T) {
	idx := newTestIndex(t)
	hits, err := idx.Search(context.Background(), "dream thief", 10, 1.0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) == 0 {
		t.Fatal("expected hits for plot fragment")
	}
	if hits[0].Position != 1 {
		t.Errorf("top hit position = %d, want 1 (Inception)", hits[0].Position)
	}
}

func TestSearch_titleBoostRanksTitleMatchFirst(t *testing.T) {
	idx := newTestIndex(t)
	// "matrix" appears only in a title; the boost path must still find it.
	hits, err := idx.Search(context.Background(), "matrix", 10, 3.0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) == 0 || hits[0].Position != 0 {
		t.Errorf("hits = %+v, want position 0 first", hits)
	}
}

func TestSearch_noResults(t *testing.T) {
	idx := newTestIndex(t)
	hits, err := idx.Search(context.Background(), "zzzzz", 10, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits, got %+v", hits)
	}
}

func TestIndexAll_skipsEmptyTitles(t *testing.T) {
	idx := newTestIndex(t)
	n, err := idx.DocCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("DocCount = %d, want 3 (empty title skipped)", n)
	}
}

func TestNew_onDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyword.bleve")
	idx, err := New(path)
	if err != nil {
		t.Fatalf("New(%s): %v", path, err)
	}
	if err := idx.IndexAll(context.Background(), testRecords[:1]); err != nil {
		t.Fatal(err)
	}
	if err := idx.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	n, err := reopened.DocCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("DocCount after reopen = %d, want 1", n)
	}
}

func TestIndexAll_dropsDocumentsBeyondCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyword.bleve")
	idx, err := New(path)
	if err != nil {
		t.Fatalf("New(%s): %v", path, err)
	}
	if err := idx.IndexAll(context.Background(), testRecords); err != nil {
		t.Fatal(err)
	}
	if err := idx.Close(); err != nil {
		t.Fatal(err)
	}

	// Reindex the reopened index against a single-record catalog. Documents
	// from the larger run must not survive.
	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if err := reopened.IndexAll(context.Background(), testRecords[:1]); err != nil {
		t.Fatal(err)
	}

	n, err := reopened.DocCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("DocCount after shrink = %d, want 1", n)
	}
	hits, err := reopened.Search(context.Background(), "dream thief", 10, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("removed record still searchable: %+v", hits)
	}
}
