// Package bundle implements the versioned binary format for the pre-built
// catalog/vector artifact the service loads at startup.
//
// Layout (little-endian):
//
//	magic    [4]byte "MRB1"
//	version  uint32
//	records  uint32 n, then n × { title, language, feature_text } as
//	         u32-length-prefixed UTF-8 strings
//	parts    uint32 p, then p × { language string, dim uint32, count uint32,
//	         count × dim float32 }
//
// Partition membership order equals record order, so the vector at partition
// position i belongs to the i-th catalog record carrying that language.
package bundle

import (
	"fmt"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/models"
)

// Version is the current bundle format version.
const Version uint32 = 1

var magic = [4]byte{'M', 'R', 'B', '1'}

// maxStringLen guards against reading garbage lengths from a corrupt file.
const maxStringLen = 1 << 20

// Partition holds one language's feature vectors, ordered to match the
// catalog records of that language.
type Partition struct {
	Language string
	Dim      int
	Vectors  [][]float32
}

// Bundle is the decoded artifact: the full catalog table plus one vector
// partition per language.
type Bundle struct {
	Records    []models.MovieRecord
	Partitions []Partition
}

// Validate cross-checks records against partitions. Any mismatch means the
// artifact is malformed and must not be served.
func (b *Bundle) Validate() error {
	perLanguage := make(map[string]int)
	for i, rec := range b.Records {
		if rec.Language == "" {
			return fmt.Errorf("record %d (%q) has empty language", i, rec.Title)
		}
		perLanguage[rec.Language]++
	}

	seen := make(map[string]bool, len(b.Partitions))
	for _, p := range b.Partitions {
		if seen[p.Language] {
			return fmt.Errorf("duplicate partition for language %q", p.Language)
		}
		seen[p.Language] = true

		want, ok := perLanguage[p.Language]
		if !ok {
			return fmt.Errorf("partition %q has no catalog records", p.Language)
		}
		if len(p.Vectors) != want {
			return fmt.Errorf("partition %q has %d vectors but %d catalog records",
				p.Language, len(p.Vectors), want)
		}
		if p.Dim <= 0 {
			return fmt.Errorf("partition %q has invalid dimension %d", p.Language, p.Dim)
		}
		for i, v := range p.Vectors {
			if len(v) != p.Dim {
				return fmt.Errorf("partition %q vector %d has dimension %d, expected %d",
					p.Language, i, len(v), p.Dim)
			}
		}
	}

	for lang := range perLanguage {
		if !seen[lang] {
			return fmt.Errorf("language %q has catalog records but no partition", lang)
		}
	}
	return nil
}

// PartitionFor returns the partition for language, or nil.
func (b *Bundle) PartitionFor(language string) *Partition {
	for i := range b.Partitions {
		if b.Partitions[i].Language == language {
			return &b.Partitions[i]
		}
	}
	return nil
}
