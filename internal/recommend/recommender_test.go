package recommend

import (
	"testing"

	"go.uber.org/zap"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/bundle"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/catalog"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/models"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/vector"
)

func testBundle() *bundle.Bundle {
	return &bundle.Bundle{
		Records: []models.MovieRecord{
			{Title: "The Matrix", Language: "en"},
			{Title: "Inception", Language: "en"},
			{Title: "Titanic", Language: "en"},
			{Title: "Heat", Language: "en"},
			{Title: "Sholay", Language: "hi"},
			{Title: "Deewaar", Language: "hi"},
			{Title: "Lagaan", Language: "hi"},
		},
		Partitions: []bundle.Partition{
			{Language: "en", Dim: 2, Vectors: [][]float32{
				{1, 0},
				{0.9, 0.1},
				{0, 1},
				{0.7, 0.7},
			}},
			{Language: "hi", Dim: 2, Vectors: [][]float32{
				{1, 0},
				{0.8, 0.2},
				{0, 1},
			}},
		},
	}
}

func newTestRecommender(t *testing.T, b *bundle.Bundle) *Recommender {
	t.Helper()
	if err := b.Validate(); err != nil {
		t.Fatalf("test bundle invalid: %v", err)
	}
	indexes := make(map[string]*vector.PartitionIndex, len(b.Partitions))
	for _, p := range b.Partitions {
		idx, err := vector.NewPartitionIndex(p.Vectors, p.Dim)
		if err != nil {
			t.Fatalf("building index for %s: %v", p.Language, err)
		}
		indexes[p.Language] = idx
	}
	return New(catalog.New(b), indexes, zap.NewNop())
}

func TestRecommend_ranksByScore(t *testing.T) {
	r := newTestRecommender(t, testBundle())

	recs := r.Recommend("The Matrix", 3)
	if len(recs) != 3 {
		t.Fatalf("got %d recommendations, want 3", len(recs))
	}
	wantOrder := []string{"Inception", "Heat", "Titanic"}
	for i, want := range wantOrder {
		if recs[i].Title != want {
			t.Errorf("position %d: got %q, want %q", i, recs[i].Title, want)
		}
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].Score > recs[i-1].Score {
			t.Errorf("scores not descending at %d: %f > %f", i, recs[i].Score, recs[i-1].Score)
		}
	}
}

func TestRecommend_neverIncludesSource(t *testing.T) {
	r := newTestRecommender(t, testBundle())

	for _, title := range []string{"The Matrix", "Inception", "Titanic", "Heat", "Sholay"} {
		for _, rec := range r.Recommend(title, 10) {
			if rec.Title == title {
				t.Errorf("recommendations for %q include the source title", title)
			}
		}
	}
}

func TestRecommend_smallPartition(t *testing.T) {
	r := newTestRecommender(t, testBundle())

	// hi has three members, so any of them can have at most two neighbors.
	recs := r.Recommend("Sholay", 5)
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
}

func TestRecommend_caseInsensitiveResolution(t *testing.T) {
	r := newTestRecommender(t, testBundle())

	recs := r.Recommend("the matrix", 3)
	if len(recs) == 0 {
		t.Fatal("lowercased title did not resolve")
	}
	if recs[0].Title != "Inception" {
		t.Errorf("top recommendation = %q, want Inception", recs[0].Title)
	}
}

func TestRecommend_unknownTitle(t *testing.T) {
	r := newTestRecommender(t, testBundle())

	if recs := r.Recommend("No Such Movie", 5); len(recs) != 0 {
		t.Errorf("got %d recommendations for unknown title, want 0", len(recs))
	}
}

func TestRecommend_nonPositiveTopN(t *testing.T) {
	r := newTestRecommender(t, testBundle())

	if recs := r.Recommend("The Matrix", 0); recs != nil {
		t.Errorf("topN=0 returned %v, want nil", recs)
	}
	if recs := r.Recommend("The Matrix", -3); recs != nil {
		t.Errorf("negative topN returned %v, want nil", recs)
	}
}

func TestRecommend_missingIndexFailsClosed(t *testing.T) {
	b := testBundle()
	c := catalog.New(b)

	// Only the en index: hi titles resolve in the catalog but cannot be served.
	enIdx, err := vector.NewPartitionIndex(b.Partitions[0].Vectors, b.Partitions[0].Dim)
	if err != nil {
		t.Fatal(err)
	}
	r := New(c, map[string]*vector.PartitionIndex{"en": enIdx}, zap.NewNop())

	if recs := r.Recommend("Sholay", 5); len(recs) != 0 {
		t.Errorf("got %d recommendations without an index, want 0", len(recs))
	}
	if recs := r.Recommend("The Matrix", 2); len(recs) != 2 {
		t.Errorf("en queries should still work, got %d", len(recs))
	}
}

func TestRecommend_scoreIsOneMinusDistance(t *testing.T) {
	r := newTestRecommender(t, testBundle())

	recs := r.Recommend("The Matrix", 1)
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}
	// Inception's vector is nearly parallel to The Matrix's, so its cosine
	// similarity (and therefore score) must be close to 1.
	if recs[0].Score < 0.99 || recs[0].Score > 1 {
		t.Errorf("score = %f, want within (0.99, 1]", recs[0].Score)
	}
}
