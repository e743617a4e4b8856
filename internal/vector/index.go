// Package vector provides the per-partition nearest-neighbor index over
// precomputed feature vectors.
package vector

import (
	"fmt"
	"sort"
)

// Neighbor is a single nearest-neighbor hit. Position is the member's index
// within its language partition; Distance is cosine distance (1 - cosine
// similarity), so 0 means identical direction.
type Neighbor struct {
	Position int     `json:"position"`
	Distance float64 `json:"distance"`
}

// PartitionIndex is a brute-force cosine nearest-neighbor index over one
// language partition's feature vectors. It is immutable after construction;
// concurrent queries need no locking. Partition sizes here are per-language
// slices of a film catalog, small enough that exact scan beats an
// approximate structure.
type PartitionIndex struct {
	dim     int
	vectors [][]float32
	// norms precomputed per member; zero-norm members sit at maximum distance.
	norms []float64
}

// NewPartitionIndex builds an index over vectors, all of dimension dim.
// The vectors are copied so later mutation of the input cannot corrupt the index.
func NewPartitionIndex(vectors [][]float32, dim int) (*PartitionIndex, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("dimension must be positive")
	}
	idx := &PartitionIndex{
		dim:     dim,
		vectors: make([][]float32, 0, len(vectors)),
		norms:   make([]float64, 0, len(vectors)),
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, expected %d", i, len(v), dim)
		}
		vec := make([]float32, dim)
		copy(vec, v)
		idx.vectors = append(idx.vectors, vec)
		idx.norms = append(idx.norms, norm(vec))
	}
	return idx, nil
}

// KNearestTo returns the k members nearest to the member at position,
// ascending by distance, ties broken by lower position. The queried position
// itself is always excluded by identity, never by comparing distances, so
// floating-point noise cannot leak the query back into its own results.
// When the partition has fewer than k+1 members, all other members are
// returned; fewer than k results is valid.
func (x *PartitionIndex) KNearestTo(position, k int) ([]Neighbor, error) {
	if position < 0 || position >= len(x.vectors) {
		return nil, fmt.Errorf("position %d out of range [0,%d)", position, len(x.vectors))
	}
	return x.nearest(x.vectors[position], x.norms[position], k, position), nil
}

// KNearest returns the k members nearest to an arbitrary query vector,
// ascending by distance. No member is excluded.
func (x *PartitionIndex) KNearest(query []float32, k int) ([]Neighbor, error) {
	if len(query) != x.dim {
		return nil, fmt.Errorf("query dimension %d, expected %d", len(query), x.dim)
	}
	return x.nearest(query, norm(query), k, -1), nil
}

func (x *PartitionIndex) nearest(query []float32, queryNorm float64, k, exclude int) []Neighbor {
	if k <= 0 {
		return nil
	}
	neighbors := make([]Neighbor, 0, len(x.vectors))
	for i, vec := range x.vectors {
		if i == exclude {
			continue
		}
		neighbors = append(neighbors, Neighbor{
			Position: i,
			Distance: cosineDistance(query, vec, queryNorm, x.norms[i]),
		})
	}
	sort.SliceStable(neighbors, func(a, b int) bool {
		return neighbors[a].Distance < neighbors[b].Distance
	})
	if k < len(neighbors) {
		neighbors = neighbors[:k]
	}
	return neighbors
}

// Size returns the number of members in the partition.
func (x *PartitionIndex) Size() int {
	return len(x.vectors)
}

// Dim returns the vector dimensionality.
func (x *PartitionIndex) Dim() int {
	return x.dim
}
