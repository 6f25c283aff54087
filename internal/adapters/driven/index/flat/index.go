package flat

import (
	"context"
	"fmt"
	"sort"

	"github.com/benefik-labs/benefik-cli/internal/core/domain"
	"github.com/benefik-labs/benefik-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.KnowledgeIndex = (*Index)(nil)

// Index is an immutable flat inner-product index with its
// ordinal-aligned chunk records. Safe for concurrent use.
type Index struct {
	dim     int
	vectors []float32 // row-major, len == dim*len(chunks)
	chunks  []domain.Chunk
}

// NewIndex builds an index from chunks and their vectors. The inputs
// must be equal in length and every vector must share the same
// dimensionality; violations fail with domain.ErrInconsistentInput.
// Ordinals are assigned from input order.
func NewIndex(chunks []domain.Chunk, vectors [][]float32) (*Index, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("%w: %d chunks, %d vectors",
			domain.ErrInconsistentInput, len(chunks), len(vectors))
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: nothing to index", domain.ErrInconsistentInput)
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: zero-dimension vector at row 0", domain.ErrInconsistentInput)
	}

	flatVecs := make([]float32, 0, len(vectors)*dim)
	owned := make([]domain.Chunk, len(chunks))
	for i, vec := range vectors {
		if len(vec) != dim {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, want %d",
				domain.ErrInconsistentInput, i, len(vec), dim)
		}
		flatVecs = append(flatVecs, vec...)
		owned[i] = chunks[i]
		owned[i].Ordinal = i
	}

	return &Index{dim: dim, vectors: flatVecs, chunks: owned}, nil
}

// Search returns the k nearest chunks to the query vector by inner
// product, descending, with ties broken by ascending ordinal.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]domain.RetrievedChunk, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be at least 1, got %d", domain.ErrInvalidInput, k)
	}
	if len(query) != idx.dim {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d",
			domain.ErrInvalidInput, len(query), idx.dim)
	}

	type scored struct {
		ordinal int
		score   float64
	}

	hits := make([]scored, len(idx.chunks))
	for i := range idx.chunks {
		row := idx.vectors[i*idx.dim : (i+1)*idx.dim]
		var dot float64
		for j, q := range query {
			dot += float64(q) * float64(row[j])
		}
		hits[i] = scored{ordinal: i, score: dot}
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].score != hits[b].score {
			return hits[a].score > hits[b].score
		}
		return hits[a].ordinal < hits[b].ordinal
	})

	if k > len(hits) {
		k = len(hits)
	}

	results := make([]domain.RetrievedChunk, k)
	for i := 0; i < k; i++ {
		results[i] = domain.RetrievedChunk{
			Chunk: idx.chunks[hits[i].ordinal],
			Score: hits[i].score,
		}
	}
	return results, nil
}

// Size returns the number of indexed chunks.
func (idx *Index) Size() int {
	return len(idx.chunks)
}

// Dimensions returns the vector dimensionality.
func (idx *Index) Dimensions() int {
	return idx.dim
}
