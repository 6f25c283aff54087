package driven

import (
	"context"

	"github.com/benefik-labs/benefik-cli/internal/core/domain"
)

// SessionStore persists conversation state between turns.
// Implementations serialise concurrent access to the same session.
type SessionStore interface {
	// Get retrieves a session by ID. Returns domain.ErrNotFound if the
	// session does not exist.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Save stores or updates a session.
	Save(ctx context.Context, session *domain.Session) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}
