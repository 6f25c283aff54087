package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benefik-labs/benefik-cli/internal/adapters/driven/index/flat"
	"github.com/benefik-labs/benefik-cli/internal/core/domain"
	"github.com/benefik-labs/benefik-cli/internal/normalisers/html"
	"github.com/benefik-labs/benefik-cli/internal/postprocessors/chunker"
)

func writeKB(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func newTestIngestor(t *testing.T, dir string, embedding *mockEmbedding, store *mockIndexStore) *IngestService {
	t.Helper()
	proc, err := chunker.New(chunker.WithMaxSize(40), chunker.WithStride(10))
	require.NoError(t, err)
	return NewIngestService(dir, html.New(), proc, embedding, store, 0)
}

func TestIngest_BuildsAlignedArtifacts(t *testing.T) {
	dir := writeKB(t, map[string]string{
		"dentel_services.html":    "<html><body><p>Dental checkups are covered for Gold members at 80 percent discount across all clinics.</p></body></html>",
		"optometry_services.html": "<html><body><p>Glasses and contact lenses have a yearly allowance depending on membership tier.</p></body></html>",
		"notes.txt":               "ignored, not HTML",
	})

	embedding := &mockEmbedding{dim: 4}
	store := &mockIndexStore{}
	s := newTestIngestor(t, dir, embedding, store)

	stats, err := s.Ingest(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Documents)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, 1, store.saveCalls)
	assert.Equal(t, stats.Chunks, len(store.savedChunks))
	assert.Equal(t, len(store.savedChunks), len(store.savedVectors), "chunk and vector counts must match")
	assert.Equal(t, "mock-embed", store.savedModel)

	// Ordinals are global and sequential across documents.
	for i, c := range store.savedChunks {
		assert.Equal(t, i, c.Ordinal)
	}

	// Sections come from the file names.
	sections := map[string]bool{}
	for _, c := range store.savedChunks {
		sections[c.Section] = true
	}
	assert.True(t, sections["dentel_services"])
	assert.True(t, sections["optometry_services"])
}

func TestIngest_SkipsEmptyDocuments(t *testing.T) {
	dir := writeKB(t, map[string]string{
		"real.html":  "<p>Actual benefit information lives here.</p>",
		"empty.html": "<html><head><title>x</title></head><body></body></html>",
	})

	store := &mockIndexStore{}
	s := newTestIngestor(t, dir, &mockEmbedding{dim: 4}, store)

	stats, err := s.Ingest(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, 1, stats.Skipped)
}

func TestIngest_NoDocuments(t *testing.T) {
	dir := writeKB(t, map[string]string{"readme.txt": "nothing here"})
	s := newTestIngestor(t, dir, &mockEmbedding{dim: 4}, &mockIndexStore{})

	_, err := s.Ingest(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngest_EmbeddingUnavailable(t *testing.T) {
	dir := writeKB(t, map[string]string{"a.html": "<p>content</p>"})
	embedding := &mockEmbedding{dim: 4, pingErr: domain.ErrEmbeddingService}
	store := &mockIndexStore{}
	s := newTestIngestor(t, dir, embedding, store)

	_, err := s.Ingest(context.Background())
	require.ErrorIs(t, err, domain.ErrEmbeddingService)
	assert.Zero(t, store.saveCalls, "nothing is persisted when the run aborts")
}

func TestIngest_EmbeddingFailureAborts(t *testing.T) {
	dir := writeKB(t, map[string]string{"a.html": "<p>benefit text that will be chunked and embedded</p>"})
	embedding := &mockEmbedding{dim: 4, embedErr: domain.ErrEmbeddingService}
	store := &mockIndexStore{}
	s := newTestIngestor(t, dir, embedding, store)

	_, err := s.Ingest(context.Background())
	require.ErrorIs(t, err, domain.ErrEmbeddingService)
	assert.Zero(t, store.saveCalls)
}

func TestIngestThenRetrieve_RanksByRelevance(t *testing.T) {
	// Full pipeline over real artifacts: normalise, chunk, embed,
	// persist, reload, then search across documents.
	kb := writeKB(t, map[string]string{
		"dental.html":    "<html><body><p>Dental implants, dental crowns and dental hygiene visits are covered for members.</p></body></html>",
		"optometry.html": "<html><body><p>Glasses and contact lenses carry a yearly allowance for members.</p></body></html>",
	})

	proc, err := chunker.New(chunker.WithMaxSize(200), chunker.WithStride(20))
	require.NoError(t, err)

	embedding := &keywordEmbedding{terms: []string{"dental", "glasses", "members"}}
	store := flat.NewStore(filepath.Join(t.TempDir(), "index"))
	ctx := context.Background()

	ingest := NewIngestService(kb, html.New(), proc, embedding, store, 0)
	stats, err := ingest.Ingest(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Documents)

	retrieval := NewRetrievalService(embedding, store)
	require.NoError(t, retrieval.Reload(ctx))

	results, err := retrieval.Retrieve(ctx, "dental coverage", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Contains(t, results[0].Chunk.Source, "dental.html")
	assert.Contains(t, results[1].Chunk.Source, "optometry.html")
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestIngest_SaveFailurePropagates(t *testing.T) {
	dir := writeKB(t, map[string]string{"a.html": "<p>benefit text</p>"})
	store := &mockIndexStore{saveErr: domain.ErrInconsistentInput}
	s := newTestIngestor(t, dir, &mockEmbedding{dim: 4}, store)

	_, err := s.Ingest(context.Background())
	assert.ErrorIs(t, err, domain.ErrInconsistentInput)
}
