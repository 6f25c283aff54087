// Package chunker provides a fixed-size overlapping text chunking processor.
package chunker

import (
	"context"
	"fmt"
	"unicode"

	"github.com/google/uuid"

	"github.com/benefik-labs/benefik-cli/internal/core/domain"
)

// DefaultMaxSize is the default number of characters per chunk.
const DefaultMaxSize = 700

// DefaultStride is the default overlap between consecutive chunks in characters.
const DefaultStride = 100

// Processor splits document content into overlapping fixed-size windows.
// Window i starts at i*(maxSize-stride), so consecutive chunks share
// stride characters. It implements the PostProcessor interface.
type Processor struct {
	maxSize int
	stride  int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMaxSize sets the maximum chunk size in characters.
func WithMaxSize(size int) Option {
	return func(p *Processor) {
		p.maxSize = size
	}
}

// WithStride sets the overlap between consecutive chunks in characters.
func WithStride(stride int) Option {
	return func(p *Processor) {
		p.stride = stride
	}
}

// New creates a chunker processor. The stride must be non-negative and
// strictly smaller than the maximum size; anything else fails with
// domain.ErrConfiguration.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		maxSize: DefaultMaxSize,
		stride:  DefaultStride,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.maxSize <= 0 {
		return nil, fmt.Errorf("%w: chunk max size must be positive, got %d", domain.ErrConfiguration, p.maxSize)
	}
	if p.stride < 0 || p.stride >= p.maxSize {
		return nil, fmt.Errorf("%w: chunk stride must be in [0, %d), got %d",
			domain.ErrConfiguration, p.maxSize, p.stride)
	}

	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into overlapping chunks.
// Windows are measured in characters, never splitting a multi-byte
// rune at a chunk edge. Windows that are empty after trimming are
// dropped, not yielded; offsets delimit the trimmed text.
func (p *Processor) Process(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	runes := []rune(doc.Content)
	contentLen := len(runes)
	if contentLen == 0 {
		return nil, nil
	}

	step := p.maxSize - p.stride

	chunks := make([]domain.Chunk, 0, contentLen/step+1)
	position := 0

	for start := 0; start < contentLen; start += step {
		end := start + p.maxSize
		if end > contentLen {
			end = contentLen
		}

		lo, hi := start, end
		for lo < hi && unicode.IsSpace(runes[lo]) {
			lo++
		}
		for hi > lo && unicode.IsSpace(runes[hi-1]) {
			hi--
		}
		if lo == hi {
			continue
		}

		chunks = append(chunks, domain.Chunk{
			ID:          uuid.New().String(),
			DocumentID:  doc.ID,
			Source:      doc.URI,
			Section:     doc.Section,
			Content:     string(runes[lo:hi]),
			Position:    position,
			StartOffset: lo,
			EndOffset:   hi,
		})
		position++

		if end == contentLen {
			break
		}
	}

	return chunks, nil
}
