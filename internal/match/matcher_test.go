package match

import (
	"reflect"
	"testing"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/bundle"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/catalog"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/models"
)

func newMatcher(records []models.MovieRecord) *Matcher {
	c := catalog.New(&bundle.Bundle{Records: records})
	return New(c, 5, 0.6)
}

func matrixCatalog() *Matcher {
	return newMatcher([]models.MovieRecord{
		{Title: "The Matrix", Language: "en"},
		{Title: "The Matrix Reloaded", Language: "en"},
		{Title: "Matrix", Language: "en"},
	})
}

func TestMatch_exactShortCircuits(t *testing.T) {
	m := matrixCatalog()
	got := m.Match("the matrix")
	if !reflect.DeepEqual(got, []string{"The Matrix"}) {
		t.Errorf("Match(the matrix) = %v", got)
	}
}

func TestMatch_fuzzyTypo(t *testing.T) {
	m := matrixCatalog()
	got := m.Match("the matrx")
	if len(got) == 0 {
		t.Fatal("expected fuzzy candidates for 'the matrx'")
	}
	if got[0] != "The Matrix" {
		t.Errorf("top candidate = %q, want The Matrix (all: %v)", got[0], got)
	}
	if len(got) > 5 {
		t.Errorf("more than 5 candidates: %v", got)
	}
}

func TestMatch_emptyAndHopelessInput(t *testing.T) {
	m := matrixCatalog()
	if got := m.Match(""); len(got) != 0 {
		t.Errorf("Match(\"\") = %v, want empty", got)
	}
	if got := m.Match("   "); len(got) != 0 {
		t.Errorf("blank input = %v, want empty", got)
	}
	if got := m.Match("zzzzqqqqq"); len(got) != 0 {
		t.Errorf("no close relatives = %v, want empty", got)
	}
}

func TestMatch_everyCandidateClearsCutoff(t *testing.T) {
	m := newMatcher([]models.MovieRecord{
		{Title: "Baahubali: The Beginning", Language: "te"},
		{Title: "Baahubali 2: The Conclusion", Language: "te"},
		{Title: "Magadheera", Language: "te"},
		{Title: "Eega", Language: "te"},
	})
	input := "bahubali the beginning"
	got := m.Match(input)
	for _, title := range got {
		if r := Ratio(input, lower(title)); r < 0.6 {
			t.Errorf("candidate %q has ratio %f below cutoff", title, r)
		}
	}
}

func lower(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'A' && r <= 'Z' {
			out[i] = r + ('a' - 'A')
		}
	}
	return string(out)
}

func TestMatch_dedupesAcrossLanguages(t *testing.T) {
	m := newMatcher([]models.MovieRecord{
		{Title: "Drishyam", Language: "Malayalam"},
		{Title: "Drishyam", Language: "Hindi"},
	})
	got := m.Match("drishyam")
	if !reflect.DeepEqual(got, []string{"Drishyam"}) {
		t.Errorf("duplicate titles not collapsed: %v", got)
	}

	got = m.Match("drishyamm") // fuzzy path hits both records
	if !reflect.DeepEqual(got, []string{"Drishyam"}) {
		t.Errorf("fuzzy duplicate titles not collapsed: %v", got)
	}
}

func TestMatch_capsAtMaxCandidates(t *testing.T) {
	m := newMatcher([]models.MovieRecord{
		{Title: "Dangal 1", Language: "hi"},
		{Title: "Dangal 2", Language: "hi"},
		{Title: "Dangal 3", Language: "hi"},
		{Title: "Dangal 4", Language: "hi"},
		{Title: "Dangal 5", Language: "hi"},
		{Title: "Dangal 6", Language: "hi"},
		{Title: "Dangal 7", Language: "hi"},
	})
	got := m.Match("dangall 1")
	if len(got) > 5 {
		t.Errorf("got %d candidates, want at most 5: %v", len(got), got)
	}
}

func TestMatch_tiesKeepCatalogOrder(t *testing.T) {
	m := newMatcher([]models.MovieRecord{
		{Title: "Raees", Language: "hi"},
		{Title: "Kaabil", Language: "hi"},
		{Title: "Rabil", Language: "hi"},
	})
	// With equal scores the earlier catalog entry must come first; verify the
	// ordering is stable rather than asserting specific scores.
	got := m.Match("raabil")
	for i := 1; i < len(got); i++ {
		a := Ratio("raabil", lower(got[i-1]))
		b := Ratio("raabil", lower(got[i]))
		if b > a {
			t.Errorf("candidates not sorted by score: %v", got)
		}
	}
}
