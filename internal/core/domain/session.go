package domain

import "time"

// Phase identifies the conversational sub-protocol a session is in.
type Phase string

// Session phases. Every session starts in intake and moves to QA
// exactly once; there is no reverse transition.
const (
	// PhaseIntake collects required profile fields before QA is allowed.
	PhaseIntake Phase = "intake"

	// PhaseQA answers questions grounded on retrieved knowledge-base chunks.
	PhaseQA Phase = "qa"
)

// IsValid returns true if the phase is recognised.
func (p Phase) IsValid() bool {
	return p == PhaseIntake || p == PhaseQA
}

// String returns the string representation.
func (p Phase) String() string {
	return string(p)
}

// ChatMessage is a single turn in the conversation history.
type ChatMessage struct {
	// Role is "user" or "assistant".
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`
}

// Session is the mutable per-conversation state. A session is owned by
// exactly one conversation and must not be shared between them; the
// session store serialises concurrent access to the same identifier.
type Session struct {
	// ID is the unique session identifier.
	ID string

	// Phase is the current conversational phase.
	Phase Phase

	// Profile is the partially or fully collected member profile.
	Profile Profile

	// History is the conversation so far, oldest first.
	History []ChatMessage

	// CreatedAt is when the session was first seen.
	CreatedAt time.Time

	// UpdatedAt is when the session was last mutated.
	UpdatedAt time.Time
}

// NewSession creates a session in the intake phase.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Phase:     PhaseIntake,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append records a turn in the history and touches UpdatedAt.
func (s *Session) Append(role, content string) {
	s.History = append(s.History, ChatMessage{Role: role, Content: content})
	s.UpdatedAt = time.Now()
}

// RecentHistory returns the last n turns (a user message plus its
// reply count as two turns), oldest first.
func (s *Session) RecentHistory(n int) []ChatMessage {
	if n <= 0 || len(s.History) <= n {
		return s.History
	}
	return s.History[len(s.History)-n:]
}
