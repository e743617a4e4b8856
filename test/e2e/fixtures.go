// Package e2e tests the full service surface over a packed bundle.
package e2e

import (
	"github.com/jayveertalekar0/movie-recommendation-system/internal/bundle"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/models"
	"github.com/jayveertalekar0/movie-recommendation-system/pkg/utils"
)

// fixtureMovie is one corpus entry: a title, its language, descriptive text
// and a handful of genre weights the fixture turns into a feature vector.
type fixtureMovie struct {
	title    string
	language string
	plot     string
	genres   []float32 // action, drama, romance, scifi
}

var corpus = []fixtureMovie{
	{"The Matrix", "en", "a hacker learns reality is a simulation and joins a rebellion", []float32{0.8, 0.1, 0.0, 0.9}},
	{"The Matrix Reloaded", "en", "the rebellion strikes back inside the simulation", []float32{0.9, 0.1, 0.1, 0.9}},
	{"Inception", "en", "a thief plants an idea through layered shared dreams", []float32{0.7, 0.3, 0.1, 0.8}},
	{"Titanic", "en", "a doomed romance aboard an ocean liner that strikes an iceberg", []float32{0.1, 0.8, 0.9, 0.0}},
	{"The Notebook", "en", "an enduring romance retold from a nursing home notebook", []float32{0.0, 0.7, 0.9, 0.0}},
	{"Heat", "en", "a methodical thief and a relentless detective circle each other", []float32{0.9, 0.5, 0.1, 0.0}},
	{"Sholay", "hi", "two small-time criminals are hired to capture a ruthless bandit", []float32{0.9, 0.5, 0.2, 0.0}},
	{"Deewaar", "hi", "two brothers end up on opposite sides of the law", []float32{0.7, 0.9, 0.1, 0.0}},
	{"Lagaan", "hi", "villagers stake three years of taxes on a cricket match", []float32{0.3, 0.9, 0.3, 0.0}},
	{"Dilwale Dulhania Le Jayenge", "hi", "a romance blossoms on a trip across europe", []float32{0.0, 0.5, 0.9, 0.0}},
	{"Drishyam", "ml", "a father covers up an accidental death to protect his family", []float32{0.4, 0.9, 0.1, 0.0}},
	{"Premam", "ml", "three phases of one man's romantic life", []float32{0.0, 0.5, 0.9, 0.0}},
	{"Baahubali", "te", "a prince discovers his royal lineage and avenges his father", []float32{0.9, 0.6, 0.2, 0.1}},
	{"Eega", "te", "a murdered man reincarnates as a housefly to take revenge", []float32{0.6, 0.4, 0.3, 0.5}},
}

// buildFixtureBundle assembles the corpus into a valid bundle with normalized
// feature vectors, grouped into per-language partitions in corpus order.
func buildFixtureBundle() *bundle.Bundle {
	b := &bundle.Bundle{}
	partitionOf := make(map[string]*bundle.Partition)
	var order []string
	for _, m := range corpus {
		b.Records = append(b.Records, models.MovieRecord{
			Title:       m.title,
			Language:    m.language,
			FeatureText: m.plot,
		})
		p, ok := partitionOf[m.language]
		if !ok {
			p = &bundle.Partition{Language: m.language, Dim: len(m.genres)}
			partitionOf[m.language] = p
			order = append(order, m.language)
		}
		vec := append([]float32(nil), m.genres...)
		utils.NormalizeL2(vec)
		p.Vectors = append(p.Vectors, vec)
	}
	for _, lang := range order {
		b.Partitions = append(b.Partitions, *partitionOf[lang])
	}
	return b
}
