// Package normalisers provides implementations of the Normaliser
// interface. The knowledge base is HTML, so the html normaliser is the
// only one wired in; it strips markup down to chunkable plain text.
package normalisers
