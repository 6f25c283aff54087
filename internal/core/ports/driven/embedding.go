package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Note: This is separate from KnowledgeIndex which stores and searches
// vectors. EmbeddingService generates vectors; KnowledgeIndex searches them.
//
// Implementations may include:
//   - OpenAI / Azure OpenAI (text-embedding-ada-002, text-embedding-3-small)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently,
	// preserving input order. This is more efficient than calling Embed
	// in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 1536).
	// This is determined by the model and must match the index manifest.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup before committing to an ingestion run.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
