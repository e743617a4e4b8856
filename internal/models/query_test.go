package models

import "testing"

func TestSearchQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   *SearchQuery
		wantErr bool
	}{
		{"empty query", &SearchQuery{Query: ""}, true},
		{"valid query", &SearchQuery{Query: "the matrix"}, false},
		{"sets default limit", &SearchQuery{Query: "x", Limit: 0}, false},
		{"caps limit at 50", &SearchQuery{Query: "x", Limit: 200}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				if tt.query.Limit <= 0 {
					t.Error("expected default limit to be set")
				}
				if tt.query.Limit > 50 {
					t.Errorf("expected limit capped at 50, got %d", tt.query.Limit)
				}
			}
		})
	}
}

func TestRecommendQuery_Validate(t *testing.T) {
	q := &RecommendQuery{Title: ""}
	if err := q.Validate(); err == nil {
		t.Error("empty title should fail validation")
	}

	q = &RecommendQuery{Title: "Drishyam"}
	if err := q.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if q.TopN != 5 {
		t.Errorf("default top_n = %d, want 5", q.TopN)
	}

	q = &RecommendQuery{Title: "Drishyam", TopN: 100}
	if err := q.Validate(); err != nil {
		t.Fatal(err)
	}
	if q.TopN != 25 {
		t.Errorf("top_n capped = %d, want 25", q.TopN)
	}
}
