package chunker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/benefik-labs/benefik-cli/internal/core/domain"
)

func TestNew_Defaults(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p.maxSize != DefaultMaxSize {
		t.Errorf("maxSize = %d, want %d", p.maxSize, DefaultMaxSize)
	}
	if p.stride != DefaultStride {
		t.Errorf("stride = %d, want %d", p.stride, DefaultStride)
	}
}

func TestNew_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"zero max size", []Option{WithMaxSize(0)}},
		{"negative max size", []Option{WithMaxSize(-5)}},
		{"negative stride", []Option{WithStride(-1)}},
		{"stride equals max size", []Option{WithMaxSize(100), WithStride(100)}},
		{"stride exceeds max size", []Option{WithMaxSize(100), WithStride(150)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			if !errors.Is(err, domain.ErrConfiguration) {
				t.Errorf("New() error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestProcess_EmptyContent(t *testing.T) {
	p, _ := New()
	chunks, err := p.Process(context.Background(), &domain.Document{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("got %d chunks, want 0", len(chunks))
	}
}

func TestProcess_ShortContent(t *testing.T) {
	p, _ := New()
	doc := &domain.Document{ID: "doc-1", URI: "dental.html", Content: "short text"}

	chunks, err := p.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].Content != "short text" {
		t.Errorf("Content = %q", chunks[0].Content)
	}
	if chunks[0].DocumentID != "doc-1" || chunks[0].Source != "dental.html" {
		t.Errorf("chunk provenance = %q/%q", chunks[0].DocumentID, chunks[0].Source)
	}
}

func TestProcess_OverlappingWindows(t *testing.T) {
	p, err := New(WithMaxSize(10), WithStride(3))
	if err != nil {
		t.Fatal(err)
	}

	content := "abcdefghijklmnopqrstuvwxyz"
	doc := &domain.Document{Content: content}

	chunks, err := p.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	// Step is maxSize-stride = 7, so windows start at 0, 7, 14, 21.
	wantStarts := []int{0, 7, 14, 21}
	if len(chunks) != len(wantStarts) {
		t.Fatalf("got %d chunks, want %d", len(chunks), len(wantStarts))
	}

	for i, c := range chunks {
		if c.StartOffset != wantStarts[i] {
			t.Errorf("chunk %d StartOffset = %d, want %d", i, c.StartOffset, wantStarts[i])
		}
		if c.Position != i {
			t.Errorf("chunk %d Position = %d", i, c.Position)
		}
	}

	// Consecutive windows share stride characters.
	first, second := chunks[0], chunks[1]
	overlap := content[second.StartOffset:first.EndOffset]
	if len(overlap) != 3 {
		t.Errorf("overlap = %q, want 3 bytes", overlap)
	}
	if !strings.HasSuffix(first.Content, overlap) || !strings.HasPrefix(second.Content, overlap) {
		t.Errorf("windows do not share %q: %q / %q", overlap, first.Content, second.Content)
	}
}

func TestProcess_ZeroStride(t *testing.T) {
	p, err := New(WithMaxSize(5), WithStride(0))
	if err != nil {
		t.Fatal(err)
	}

	chunks, err := p.Process(context.Background(), &domain.Document{Content: "aaaaabbbbbcc"})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	if chunks[0].Content != "aaaaa" || chunks[1].Content != "bbbbb" || chunks[2].Content != "cc" {
		t.Errorf("chunks = %q %q %q", chunks[0].Content, chunks[1].Content, chunks[2].Content)
	}
}

func TestProcess_MultibyteContent(t *testing.T) {
	p, err := New(WithMaxSize(21), WithStride(7))
	if err != nil {
		t.Fatal(err)
	}

	// Hebrew text: every letter is two bytes, so a window cut at byte
	// offsets would land mid-rune at nearly every edge.
	content := strings.Repeat("זכאות לטיפולי שיניים ", 10)
	runes := []rune(content)

	chunks, err := p.Process(context.Background(), &domain.Document{Content: content})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("got no chunks")
	}

	for i, c := range chunks {
		if !utf8.ValidString(c.Content) {
			t.Errorf("chunk %d is not valid UTF-8: %q", i, c.Content)
		}
		if got := string(runes[c.StartOffset:c.EndOffset]); got != c.Content {
			t.Errorf("chunk %d offsets [%d:%d] delimit %q, want %q",
				i, c.StartOffset, c.EndOffset, got, c.Content)
		}
	}
}

func TestProcess_DropsBlankWindows(t *testing.T) {
	p, err := New(WithMaxSize(4), WithStride(0))
	if err != nil {
		t.Fatal(err)
	}

	// The middle window is whitespace only and must be dropped, with
	// positions staying sequential.
	chunks, err := p.Process(context.Background(), &domain.Document{Content: "abcd    efgh"})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	for i, c := range chunks {
		if c.Position != i {
			t.Errorf("chunk %d Position = %d", i, c.Position)
		}
	}
	if chunks[1].Content != "efgh" {
		t.Errorf("second chunk = %q", chunks[1].Content)
	}
}
