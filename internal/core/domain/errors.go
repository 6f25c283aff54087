package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates bad ingestion or runtime parameters.
	// Fatal at ingestion time: the build aborts and nothing is persisted.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInconsistentInput indicates chunk/vector counts diverged while
	// building the index. Fatal: the build aborts and nothing is persisted.
	ErrInconsistentInput = errors.New("inconsistent chunk and vector counts")

	// ErrIndexNotLoaded indicates retrieval was attempted before the
	// index and metadata artifacts were loaded.
	ErrIndexNotLoaded = errors.New("index not loaded")

	// ErrEmbeddingService indicates the remote embedding collaborator
	// failed (network, auth, quota). Propagated, never retried here.
	ErrEmbeddingService = errors.New("embedding service failure")

	// ErrCompletionService indicates the remote chat-completion
	// collaborator failed. Propagated, never retried here.
	ErrCompletionService = errors.New("completion service failure")

	// ErrValidation indicates an intake field failed format or content
	// checks. Recoverable: the session stays in intake and the user is
	// asked to clarify.
	ErrValidation = errors.New("validation failed")
)
