// Package index provides an in-memory vector index with exact brute-force
// cosine similarity search.
package index

import (
	"fmt"
	"math"
	"sort"

	"github.com/tubetalk/tubetalk/internal/models"
)

// Index holds the passages and embedding vectors of a single video.
// Immutable after Build; safe for concurrent Search calls.
type Index struct {
	passages  []models.Passage
	vectors   [][]float32
	dimension int
}

// Build creates an index from parallel passage and vector slices. All vectors
// must share one dimension and come from the same embedding backend;
// similarity scores across backends are not comparable.
func Build(passages []models.Passage, vectors [][]float32) (*Index, error) {
	if len(passages) != len(vectors) {
		return nil, fmt.Errorf("passage/vector length mismatch: %d != %d", len(passages), len(vectors))
	}

	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
		if dim == 0 {
			return nil, fmt.Errorf("zero-length vector at position 0")
		}
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d dimension mismatch: got %d, want %d", i, len(v), dim)
		}
	}

	idx := &Index{
		passages:  make([]models.Passage, len(passages)),
		vectors:   make([][]float32, len(vectors)),
		dimension: dim,
	}
	copy(idx.passages, passages)
	copy(idx.vectors, vectors)
	return idx, nil
}

// Len returns the number of indexed passages.
func (idx *Index) Len() int { return len(idx.passages) }

// Dimension returns the vector dimension, 0 for an empty index.
func (idx *Index) Dimension() int { return idx.dimension }

// Search returns up to k passages ranked by cosine similarity to query,
// most similar first. Ties keep insertion order. k larger than the index
// is clamped.
func (idx *Index) Search(query []float32, k int) ([]models.Passage, error) {
	if idx.Len() == 0 {
		return nil, nil
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("query dimension mismatch: got %d, want %d", len(query), idx.dimension)
	}
	if k <= 0 {
		return nil, nil
	}
	if k > idx.Len() {
		k = idx.Len()
	}

	scores := make([]float64, len(idx.vectors))
	for i, v := range idx.vectors {
		scores[i] = cosine(v, query)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	results := make([]models.Passage, 0, k)
	for _, j := range order[:k] {
		results = append(results, idx.passages[j])
	}
	return results, nil
}

// PassagesInOrder returns up to max passages in source order, or all of them
// when max <= 0 or exceeds the index size. Used for summarizer sampling.
func (idx *Index) PassagesInOrder(max int) []models.Passage {
	n := len(idx.passages)
	if max > 0 && max < n {
		n = max
	}
	out := make([]models.Passage, n)
	copy(out, idx.passages[:n])
	return out
}

// cosine computes the cosine similarity of a and b. Inputs that are already
// L2-normalized reduce this to a dot product, but unnormalized vectors are
// handled too.
func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		na += av * av
		nb += bv * bv
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
