package domain

// RawDocument represents opaque bytes read from the knowledge-base
// directory before normalisation.
type RawDocument struct {
	// URI is the original location (file path).
	URI string

	// Section is the category label derived from the file name.
	Section string

	// Content is the raw bytes.
	Content []byte
}
