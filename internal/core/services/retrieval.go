package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/benefik-labs/benefik-cli/internal/core/domain"
	"github.com/benefik-labs/benefik-cli/internal/core/ports/driven"
	"github.com/benefik-labs/benefik-cli/internal/core/ports/driving"
	"github.com/benefik-labs/benefik-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.Retriever = (*RetrievalService)(nil)

// RetrievalService answers similarity queries over the currently
// loaded index snapshot. The snapshot is swapped atomically on reload,
// so in-flight searches always see a consistent index.
type RetrievalService struct {
	embedding driven.EmbeddingService
	store     driven.IndexStore
	snapshot  atomic.Pointer[indexSnapshot]
}

type indexSnapshot struct {
	index driven.KnowledgeIndex
}

// NewRetrievalService creates a retrieval service. Call Reload before
// the first Retrieve; until then every query fails with
// domain.ErrIndexNotLoaded.
func NewRetrievalService(embedding driven.EmbeddingService, store driven.IndexStore) *RetrievalService {
	return &RetrievalService{
		embedding: embedding,
		store:     store,
	}
}

// Reload loads the persisted artifacts and publishes them as the new
// snapshot. On failure the previous snapshot stays in service.
func (s *RetrievalService) Reload(ctx context.Context) error {
	index, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load index: %w", err)
	}

	s.snapshot.Store(&indexSnapshot{index: index})
	logger.Info("Index loaded: %d chunks, %d dimensions", index.Size(), index.Dimensions())
	return nil
}

// Index returns the current snapshot, or nil when none is loaded.
// Exposed for health reporting.
func (s *RetrievalService) Index() driven.KnowledgeIndex {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil
	}
	return snap.index
}

// Retrieve embeds the query and returns the top-k chunks by descending
// similarity.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, domain.ErrIndexNotLoaded
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.RetrievedChunk{}, nil
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", domain.ErrInvalidInput)
	}

	logger.Section("Retrieval")
	logger.Debug("Query: %q (k=%d)", query, k)

	vector, err := s.embedding.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := snap.index.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	for _, r := range results {
		logger.Debug("  %.4f %s#%d", r.Score, r.Chunk.Source, r.Chunk.Position)
	}
	return results, nil
}
