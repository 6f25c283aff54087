package flat

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benefik-labs/benefik-cli/internal/core/domain"
)

func TestStore_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	ctx := context.Background()

	chunks := testChunks(3)
	vectors := [][]float32{{1, 0}, {0, 1}, {0.5, 0.5}}

	require.NoError(t, store.Save(ctx, chunks, vectors, "text-embedding-ada-002"))

	index, err := store.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, index.Size())
	assert.Equal(t, 2, index.Dimensions())

	// Retrieval works over the reloaded artifacts.
	results, err := index.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Chunk.Ordinal)
	assert.Equal(t, "kb/doc.html", results[0].Chunk.Source)
}

func TestStore_SaveAndLoadHebrewContent(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	ctx := context.Background()

	// Non-ASCII chunk text must survive persistence byte for byte.
	chunks := testChunks(2)
	chunks[0].Content = "זכאות לטיפולי שיניים"
	chunks[1].Content = "החזר עבור משקפי ראייה"

	require.NoError(t, store.Save(ctx, chunks, [][]float32{{1, 0}, {0, 1}}, "m"))

	index, err := store.Load(ctx)
	require.NoError(t, err)

	results, err := index.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "זכאות לטיפולי שיניים", results[0].Chunk.Content)
	assert.Equal(t, "החזר עבור משקפי ראייה", results[1].Chunk.Content)
}

func TestStore_LoadMissing(t *testing.T) {
	store := NewStore(t.TempDir())
	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrIndexNotLoaded)
}

func TestStore_SaveMismatchPersistsNothing(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	err := store.Save(context.Background(), testChunks(2), [][]float32{{1, 0}}, "m")
	require.ErrorIs(t, err, domain.ErrInconsistentInput)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed save must not leave artifacts")
}

func TestStore_SaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testChunks(2), [][]float32{{1, 0}, {0, 1}}, "m"))
	require.NoError(t, store.Save(ctx, testChunks(3), [][]float32{{1, 0}, {0, 1}, {1, 1}}, "m"))

	index, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, index.Size())
}

func TestStore_LoadRejectsTruncatedVectors(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testChunks(2), [][]float32{{1, 0}, {0, 1}}, "m"))

	// Truncate the vector file so it no longer matches the manifest.
	path := filepath.Join(dir, vectorsFile)
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o600))

	_, err := store.Load(ctx)
	require.Error(t, err)
}
