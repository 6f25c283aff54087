package driving

import (
	"context"

	"github.com/benefik-labs/benefik-cli/internal/core/domain"
)

// ChatService handles one conversational turn for a session.
type ChatService interface {
	// Handle routes the user message through the session's current
	// phase and returns the assistant's reply with the updated state.
	Handle(ctx context.Context, sessionID, message string) (*ChatReply, error)
}

// ChatReply is the outcome of one conversational turn.
type ChatReply struct {
	// Text is the assistant's reply.
	Text string

	// Phase is the session phase after this turn.
	Phase domain.Phase

	// Profile is the profile after this turn (relevant during intake).
	Profile domain.Profile

	// Retrieved holds the chunks that grounded a QA answer, for
	// explainability. Empty during intake.
	Retrieved []domain.RetrievedChunk
}

// Retriever returns the chunks most similar to a free-text query.
// Exposed separately from ChatService for the debug search command.
type Retriever interface {
	// Retrieve embeds the query and returns the top-k chunks by
	// descending similarity.
	Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error)
}
