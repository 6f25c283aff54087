package domain

import "time"

// Document represents a knowledge-base document after normalisation.
// Documents are immutable once ingested; re-running ingestion replaces them.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URI is the original location (file path).
	URI string

	// Title is the human-readable title.
	Title string

	// Section is the knowledge-base category label (e.g. "dental", "optometry").
	Section string

	// Content is the full text content after normalisation.
	// This is the complete document text before chunking.
	Content string

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// Chunk represents the unit of retrieval within a document.
// Documents are split into overlapping chunks during ingestion.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string `json:"id"`

	// DocumentID links to the parent Document.
	DocumentID string `json:"document_id"`

	// Source is the parent document's URI, kept on the chunk so a
	// retrieval hit can be cited without a document lookup.
	Source string `json:"source"`

	// Section is the parent document's category label.
	Section string `json:"section,omitempty"`

	// Content is the text content of this chunk.
	Content string `json:"content"`

	// Position is the chunk's sequence index within its document,
	// assigned by the chunker.
	Position int `json:"position"`

	// Ordinal is the position of this chunk in the metadata store.
	// The chunk's vector occupies the same row in the vector index;
	// this correspondence is the integrity contract of retrieval.
	Ordinal int `json:"ordinal"`

	// StartOffset and EndOffset are character offsets into the normalised
	// document content, delimiting exactly the text held in Content.
	StartOffset int `json:"start_offset"`
	EndOffset   int `json:"end_offset"`
}

// RetrievedChunk is a chunk returned by similarity search.
type RetrievedChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the similarity score (inner product against the query).
	Score float64
}
