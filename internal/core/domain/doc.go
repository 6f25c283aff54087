// Package domain defines the core business entities for Benefik.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: a knowledge-base document after normalisation
//   - Chunk: the unit of retrieval, a bounded window of document text
//   - Session: per-conversation mutable state (phase, profile, history)
//   - Profile: the member details collected during intake
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
