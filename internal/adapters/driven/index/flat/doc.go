// Package flat provides an exact inner-product similarity index with
// file persistence.
//
// The index is flat: every query is scored against every stored vector.
// The knowledge base is a few hundred chunks, so exact brute force is
// both simpler and more accurate than an approximate structure.
//
// Three artifacts are persisted per build, all replaced atomically:
//
//   - index_manifest.json: dimensions, count, embedding model
//   - vectors.f32: row-major little-endian float32 vectors
//   - chunks.jsonl: one chunk record per line, ordinal-aligned with
//     the vector rows
package flat
