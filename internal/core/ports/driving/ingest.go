package driving

import "context"

// Ingestor runs the offline batch that turns the knowledge-base
// directory into persisted retrieval artifacts.
type Ingestor interface {
	// Ingest chunks, embeds and indexes every document in the source
	// directory, atomically replacing previous artifacts on success.
	Ingest(ctx context.Context) (*IngestStats, error)
}

// IngestStats summarises an ingestion run.
type IngestStats struct {
	// Documents is the number of documents successfully processed.
	Documents int

	// Chunks is the number of chunks indexed.
	Chunks int

	// Skipped is the number of files skipped (unreadable or empty
	// after normalisation).
	Skipped int
}
