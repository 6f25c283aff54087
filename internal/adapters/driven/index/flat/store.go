package flat

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/benefik-labs/benefik-cli/internal/core/domain"
	"github.com/benefik-labs/benefik-cli/internal/core/ports/driven"
)

// Artifact file names within the index directory.
const (
	manifestFile = "index_manifest.json"
	vectorsFile  = "vectors.f32"
	chunksFile   = "chunks.jsonl"
)

// manifestVersion guards against loading artifacts written by an
// incompatible release.
const manifestVersion = 1

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// manifest describes the persisted artifacts and how to interpret them.
type manifest struct {
	Version    int    `json:"version"`
	CreatedAt  string `json:"created_at"`
	Model      string `json:"model"`
	Dimensions int    `json:"dim"`
	Count      int    `json:"count"`
	VectorFile string `json:"vector_file"`
	ChunkFile  string `json:"chunk_file"`
}

// Store persists flat index artifacts under a directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created on
// the first Save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save builds the index from chunks and vectors and atomically
// replaces the persisted artifacts. The inputs are validated first;
// nothing is written when they are inconsistent.
func (s *Store) Save(_ context.Context, chunks []domain.Chunk, vectors [][]float32, model string) error {
	// Validate before touching the filesystem. NewIndex enforces the
	// count and dimension invariants and assigns ordinals.
	idx, err := NewIndex(chunks, vectors)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create index dir %s: %w", s.dir, err)
	}

	// Write everything into a staging directory, then rename the three
	// artifacts into place. A crash mid-build leaves the previous
	// artifacts untouched.
	staging, err := os.MkdirTemp(s.dir, ".build-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	m := manifest{
		Version:    manifestVersion,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		Model:      model,
		Dimensions: idx.Dimensions(),
		Count:      idx.Size(),
		VectorFile: vectorsFile,
		ChunkFile:  chunksFile,
	}

	if err := writeManifest(filepath.Join(staging, manifestFile), m); err != nil {
		return err
	}
	if err := writeChunks(filepath.Join(staging, chunksFile), idx.chunks); err != nil {
		return err
	}
	if err := writeVectors(filepath.Join(staging, vectorsFile), idx.vectors); err != nil {
		return err
	}

	for _, name := range []string{vectorsFile, chunksFile, manifestFile} {
		if err := os.Rename(filepath.Join(staging, name), filepath.Join(s.dir, name)); err != nil {
			return fmt.Errorf("publish %s: %w", name, err)
		}
	}

	return nil
}

// Load reads the persisted artifacts into an immutable index.
// Returns domain.ErrIndexNotLoaded when the artifacts do not exist.
func (s *Store) Load(_ context.Context) (driven.KnowledgeIndex, error) {
	manifestPath := filepath.Join(s.dir, manifestFile)
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s missing (run ingest first)", domain.ErrIndexNotLoaded, manifestPath)
		}
		return nil, fmt.Errorf("read manifest %s: %w", manifestPath, err)
	}

	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", manifestPath, err)
	}
	if m.Version != manifestVersion {
		return nil, fmt.Errorf("%w: manifest version %d, want %d", domain.ErrIndexNotLoaded, m.Version, manifestVersion)
	}
	if m.Dimensions <= 0 || m.Count <= 0 {
		return nil, fmt.Errorf("invalid manifest %s: dim=%d count=%d", manifestPath, m.Dimensions, m.Count)
	}
	if m.VectorFile == "" {
		m.VectorFile = vectorsFile
	}
	if m.ChunkFile == "" {
		m.ChunkFile = chunksFile
	}

	chunks, err := readChunks(filepath.Join(s.dir, m.ChunkFile))
	if err != nil {
		return nil, err
	}
	vectors, err := readVectors(filepath.Join(s.dir, m.VectorFile), m.Count, m.Dimensions)
	if err != nil {
		return nil, err
	}

	// The ordinal-alignment contract: the Nth chunk record describes
	// the Nth vector row. A mismatch means corrupted artifacts.
	if len(chunks) != m.Count {
		return nil, fmt.Errorf("%w: %d chunk records, manifest says %d",
			domain.ErrInconsistentInput, len(chunks), m.Count)
	}
	for i := range chunks {
		if chunks[i].Ordinal != i {
			return nil, fmt.Errorf("%w: chunk record %d carries ordinal %d",
				domain.ErrInconsistentInput, i, chunks[i].Ordinal)
		}
	}

	return &Index{dim: m.Dimensions, vectors: vectors, chunks: chunks}, nil
}

func writeManifest(path string, m manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func writeChunks(path string, chunks []domain.Chunk) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chunks file: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	for i := range chunks {
		line, err := json.Marshal(chunks[i])
		if err != nil {
			return fmt.Errorf("marshal chunk %d: %w", i, err)
		}
		if _, err := bw.Write(line); err != nil {
			return fmt.Errorf("write chunk %d: %w", i, err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("write chunk %d: %w", i, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush chunks file: %w", err)
	}
	return f.Close()
}

func writeVectors(path string, vectors []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create vectors file: %w", err)
	}
	defer f.Close()

	if err := binary.Write(f, binary.LittleEndian, vectors); err != nil {
		return fmt.Errorf("write vectors: %w", err)
	}
	return f.Close()
}

func readChunks(path string) ([]domain.Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chunks file %s: %w", path, err)
	}
	defer f.Close()

	var out []domain.Chunk
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var c domain.Chunk
		if err := json.Unmarshal(line, &c); err != nil {
			return nil, fmt.Errorf("invalid chunk record in %s: %w", path, err)
		}
		out = append(out, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read chunks file %s: %w", path, err)
	}
	return out, nil
}

func readVectors(path string, count, dim int) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vectors file %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat vectors file %s: %w", path, err)
	}
	want := int64(count) * int64(dim) * 4
	if st.Size() != want {
		return nil, fmt.Errorf("%w: vectors file is %d bytes, want %d",
			domain.ErrInconsistentInput, st.Size(), want)
	}

	vectors := make([]float32, count*dim)
	if err := binary.Read(bufio.NewReader(f), binary.LittleEndian, vectors); err != nil {
		return nil, fmt.Errorf("read vectors file %s: %w", path, err)
	}
	return vectors, nil
}
