package domain

// ExtractionOutcome classifies what an intake turn produced.
type ExtractionOutcome int

const (
	// ExtractionExtracted means one or more fields were extracted and
	// passed validation. Fields holds the validated values to merge.
	ExtractionExtracted ExtractionOutcome = iota

	// ExtractionIncomplete means the reply contained no usable field;
	// the assistant should re-ask for what is missing.
	ExtractionIncomplete

	// ExtractionInvalid means a field was present but failed
	// validation. Reason explains what to clarify.
	ExtractionInvalid
)

// Extraction is the tagged result of parsing an intake reply.
// Exactly one of Fields or Reason is meaningful, selected by Outcome.
type Extraction struct {
	// Outcome selects the variant.
	Outcome ExtractionOutcome

	// Fields holds validated values when Outcome is ExtractionExtracted.
	// Fields that survived validation in an otherwise invalid reply are
	// also returned here, so partial progress is never lost.
	Fields Profile

	// Reason is a user-facing explanation when Outcome is ExtractionInvalid.
	Reason string
}
