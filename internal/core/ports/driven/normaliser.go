package driven

import (
	"context"

	"github.com/benefik-labs/benefik-cli/internal/core/domain"
)

// Normaliser transforms raw knowledge-base files into documents with
// plain-text content ready for chunking.
type Normaliser interface {
	// Normalise strips markup and whitespace noise from a raw file and
	// produces a document with Content populated.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)
}

// PostProcessor processes document content to produce chunks.
type PostProcessor interface {
	// Name returns the processor name for logging.
	Name() string

	// Process takes a document and returns its chunks.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
