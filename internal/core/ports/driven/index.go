package driven

import (
	"context"

	"github.com/benefik-labs/benefik-cli/internal/core/domain"
)

// KnowledgeIndex is the read-only retrieval surface over a built index:
// a similarity-search structure together with its ordinal-aligned chunk
// records. Implementations are immutable once built and safe for
// concurrent use without locking.
type KnowledgeIndex interface {
	// Search returns the k nearest chunks to the query vector, ordered
	// by descending similarity. Ties are broken by ascending ordinal so
	// results are deterministic. Fewer than k results are returned only
	// when the index holds fewer than k chunks.
	Search(ctx context.Context, query []float32, k int) ([]domain.RetrievedChunk, error)

	// Size returns the number of indexed chunks. The chunk record count
	// always equals the vector count.
	Size() int

	// Dimensions returns the vector dimensionality of the index.
	Dimensions() int
}

// IndexStore persists and loads the retrieval artifacts: the vector
// index and its ordinal-aligned metadata store.
type IndexStore interface {
	// Save builds and atomically replaces the persisted artifacts.
	// It fails with domain.ErrInconsistentInput when len(chunks) does
	// not equal len(vectors), persisting nothing.
	Save(ctx context.Context, chunks []domain.Chunk, vectors [][]float32, model string) error

	// Load reads previously saved artifacts into an immutable index.
	// Returns domain.ErrIndexNotLoaded if the artifacts do not exist.
	Load(ctx context.Context) (KnowledgeIndex, error)
}
