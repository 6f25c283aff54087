package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/time/rate"

	"github.com/benefik-labs/benefik-cli/internal/core/domain"
	"github.com/benefik-labs/benefik-cli/internal/core/ports/driven"
	"github.com/benefik-labs/benefik-cli/internal/core/ports/driving"
	"github.com/benefik-labs/benefik-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// embedBatchSize is how many chunk texts are sent per embedding request.
const embedBatchSize = 16

// IngestService runs the offline batch that turns the knowledge-base
// directory into persisted retrieval artifacts.
type IngestService struct {
	sourceDir  string
	normaliser driven.Normaliser
	chunker    driven.PostProcessor
	embedding  driven.EmbeddingService
	store      driven.IndexStore
	limiter    *rate.Limiter
}

// NewIngestService creates an ingest service. embedRate caps embedding
// requests per second; zero or negative disables throttling.
func NewIngestService(
	sourceDir string,
	normaliser driven.Normaliser,
	chunker driven.PostProcessor,
	embedding driven.EmbeddingService,
	store driven.IndexStore,
	embedRate int,
) *IngestService {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if embedRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(embedRate), 1)
	}
	return &IngestService{
		sourceDir:  sourceDir,
		normaliser: normaliser,
		chunker:    chunker,
		embedding:  embedding,
		store:      store,
		limiter:    limiter,
	}
}

// Ingest chunks, embeds and indexes every HTML document under the
// source directory, atomically replacing previous artifacts on success.
// A failure at any stage leaves the previous artifacts untouched.
func (s *IngestService) Ingest(ctx context.Context) (*driving.IngestStats, error) {
	logger.Section("Ingestion")
	logger.Info("Source directory: %s", s.sourceDir)

	if err := s.embedding.Ping(ctx); err != nil {
		return nil, fmt.Errorf("embedding service unavailable: %w", err)
	}

	files, err := s.listSourceFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no HTML documents under %s", domain.ErrInvalidInput, s.sourceDir)
	}

	stats := &driving.IngestStats{}
	var chunks []domain.Chunk

	for _, path := range files {
		docChunks, err := s.processFile(ctx, path)
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			stats.Skipped++
			continue
		}
		if len(docChunks) == 0 {
			logger.Warn("Skipping %s: empty after normalisation", path)
			stats.Skipped++
			continue
		}
		chunks = append(chunks, docChunks...)
		stats.Documents++
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no chunks produced from %d files", domain.ErrInvalidInput, len(files))
	}

	// Assign the global ordinal each chunk will occupy in the
	// metadata store and vector index.
	for i := range chunks {
		chunks[i].Ordinal = i
	}

	logger.Info("Embedding %d chunks with %s", len(chunks), s.embedding.ModelName())
	vectors, err := s.embedChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, chunks, vectors, s.embedding.ModelName()); err != nil {
		return nil, fmt.Errorf("save artifacts: %w", err)
	}

	stats.Chunks = len(chunks)
	logger.Info("Indexed %d chunks from %d documents (%d skipped)",
		stats.Chunks, stats.Documents, stats.Skipped)
	return stats, nil
}

// listSourceFiles returns the HTML files under the source directory,
// sorted by path so ordinals are stable across runs.
func (s *IngestService) listSourceFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.sourceDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".html" || ext == ".htm" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.sourceDir, err)
	}
	return files, nil
}

// processFile normalises one source file and cuts it into chunks.
func (s *IngestService) processFile(ctx context.Context, path string) ([]domain.Chunk, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	raw := &domain.RawDocument{
		URI:     path,
		Section: sectionFromPath(path),
		Content: content,
	}

	doc, err := s.normaliser.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise: %w", err)
	}
	if strings.TrimSpace(doc.Content) == "" {
		return nil, nil
	}

	chunks, err := s.chunker.Process(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.chunker.Name(), err)
	}

	logger.Debug("%s: %d chunks", path, len(chunks))
	return chunks, nil
}

// embedChunks embeds chunk texts in batches, preserving order so the
// Nth vector belongs to the Nth chunk.
func (s *IngestService) embedChunks(ctx context.Context, chunks []domain.Chunk) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Content)
		}

		batch, err := s.embedding.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed batch %d-%d: %w", start, end, err)
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("%w: embedded %d of %d texts", domain.ErrInconsistentInput, len(batch), len(texts))
		}
		vectors = append(vectors, batch...)
	}

	return vectors, nil
}

// sectionFromPath derives the category label from the file name,
// e.g. "dentel_services.html" -> "dentel_services".
func sectionFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
