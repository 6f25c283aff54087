package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/benefik-labs/benefik-cli/internal/core/domain"
	"github.com/benefik-labs/benefik-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedding implements driven.EmbeddingService for testing.
// Embeddings are deterministic: a fixed-dimension vector derived from
// text length so equal texts embed equally.
type mockEmbedding struct {
	dim      int
	embedErr error
	pingErr  error
	calls    int
}

func (m *mockEmbedding) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.calls++
	vec := make([]float32, m.dim)
	for i := range vec {
		vec[i] = float32(len(text)%7) + float32(i)
	}
	return vec, nil
}

func (m *mockEmbedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedding) Dimensions() int { return m.dim }
func (m *mockEmbedding) ModelName() string { return "mock-embed" }
func (m *mockEmbedding) Ping(_ context.Context) error { return m.pingErr }
func (m *mockEmbedding) Close() error { return nil }

// keywordEmbedding implements driven.EmbeddingService with one vector
// component per term, holding the term's occurrence count in the
// lowercased text. Inner-product search then ranks by shared terms.
type keywordEmbedding struct {
	terms []string
}

func (k *keywordEmbedding) Embed(_ context.Context, text string) ([]float32, error) {
	lower := strings.ToLower(text)
	vec := make([]float32, len(k.terms))
	for i, term := range k.terms {
		vec[i] = float32(strings.Count(lower, term))
	}
	return vec, nil
}

func (k *keywordEmbedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := k.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (k *keywordEmbedding) Dimensions() int              { return len(k.terms) }
func (k *keywordEmbedding) ModelName() string            { return "keyword-count" }
func (k *keywordEmbedding) Ping(_ context.Context) error { return nil }
func (k *keywordEmbedding) Close() error                 { return nil }

// mockLLM implements driven.LLMService for testing. Replies are
// consumed in order; the last one repeats.
type mockLLM struct {
	replies  []string
	chatErr  error
	requests [][]domain.ChatMessage
}

func (m *mockLLM) Chat(_ context.Context, messages []domain.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.requests = append(m.requests, messages)
	if m.chatErr != nil {
		return "", m.chatErr
	}
	if len(m.replies) == 0 {
		return "", fmt.Errorf("mockLLM: no reply configured")
	}
	reply := m.replies[0]
	if len(m.replies) > 1 {
		m.replies = m.replies[1:]
	}
	return reply, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error { return nil }

// mockRetriever implements driving.Retriever for testing.
type mockRetriever struct {
	results []domain.RetrievedChunk
	err     error
	queries []string
}

func (m *mockRetriever) Retrieve(_ context.Context, query string, _ int) ([]domain.RetrievedChunk, error) {
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

// mockIndex implements driven.KnowledgeIndex for testing.
type mockIndex struct {
	chunks    []domain.Chunk
	searchErr error
}

func (m *mockIndex) Search(_ context.Context, _ []float32, k int) ([]domain.RetrievedChunk, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.chunks) {
		k = len(m.chunks)
	}
	out := make([]domain.RetrievedChunk, k)
	for i := 0; i < k; i++ {
		out[i] = domain.RetrievedChunk{Chunk: m.chunks[i], Score: 1 - float64(i)*0.1}
	}
	return out, nil
}

func (m *mockIndex) Size() int       { return len(m.chunks) }
func (m *mockIndex) Dimensions() int { return 4 }

// mockIndexStore implements driven.IndexStore for testing.
type mockIndexStore struct {
	index        driven.KnowledgeIndex
	loadErr      error
	saveErr      error
	savedChunks  []domain.Chunk
	savedVectors [][]float32
	savedModel   string
	saveCalls    int
}

func (m *mockIndexStore) Save(_ context.Context, chunks []domain.Chunk, vectors [][]float32, model string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saveCalls++
	m.savedChunks = chunks
	m.savedVectors = vectors
	m.savedModel = model
	return nil
}

func (m *mockIndexStore) Load(_ context.Context) (driven.KnowledgeIndex, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.index, nil
}
