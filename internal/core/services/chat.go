package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/benefik-labs/benefik-cli/internal/core/domain"
	"github.com/benefik-labs/benefik-cli/internal/core/ports/driven"
	"github.com/benefik-labs/benefik-cli/internal/core/ports/driving"
	"github.com/benefik-labs/benefik-cli/internal/logger"
)

// Ensure ChatOrchestrator implements the interface.
var _ driving.ChatService = (*ChatOrchestrator)(nil)

// qaConfirmation closes the intake phase. The Hebrew variant is used
// when the member's preferred language is Hebrew.
const (
	qaConfirmation       = "Great, I have all your details. How can I help you today?"
	qaConfirmationHebrew = "מעולה, כל הפרטים אצלי. איך אפשר לעזור לך היום?"
)

// ChatOrchestrator routes each turn through the session's phase:
// intake turns collect and validate profile fields, QA turns answer
// questions grounded on retrieved chunks. The transition from intake
// to QA fires exactly once and never reverses.
type ChatOrchestrator struct {
	sessions   driven.SessionStore
	llm        driven.LLMService
	retriever  driving.Retriever
	topK       int
	maxHistory int
}

// NewChatOrchestrator creates a chat orchestrator. topK is the number
// of chunks retrieved per QA turn; maxHistory is how many prior turns
// are replayed to the model.
func NewChatOrchestrator(
	sessions driven.SessionStore,
	llm driven.LLMService,
	retriever driving.Retriever,
	topK int,
	maxHistory int,
) *ChatOrchestrator {
	return &ChatOrchestrator{
		sessions:   sessions,
		llm:        llm,
		retriever:  retriever,
		topK:       topK,
		maxHistory: maxHistory,
	}
}

// Handle routes a user message through the session's current phase.
// Collaborator failures propagate to the caller with the session
// unchanged; the boundary renders them as a generic failure message.
func (o *ChatOrchestrator) Handle(ctx context.Context, sessionID, message string) (*driving.ChatReply, error) {
	message = strings.TrimSpace(message)
	if sessionID == "" || message == "" {
		return nil, fmt.Errorf("%w: session ID and message are required", domain.ErrInvalidInput)
	}

	session, err := o.sessions.Get(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		session = domain.NewSession(sessionID)
	} else if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	logger.Section("Chat Turn")
	logger.Debug("Session %s phase=%s", session.ID, session.Phase)

	var reply *driving.ChatReply
	switch session.Phase {
	case domain.PhaseQA:
		reply, err = o.handleQA(ctx, session, message)
	default:
		reply, err = o.handleIntake(ctx, session, message)
	}
	if err != nil {
		return nil, err
	}

	session.Append("user", message)
	session.Append("assistant", reply.Text)
	if err := o.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	reply.Phase = session.Phase
	reply.Profile = session.Profile
	return reply, nil
}

// handleIntake runs one intake turn: the model extracts fields from
// the user's message, validated fields are merged into the profile,
// and the session transitions to QA when the profile is complete.
func (o *ChatOrchestrator) handleIntake(ctx context.Context, session *domain.Session, message string) (*driving.ChatReply, error) {
	messages := []domain.ChatMessage{
		{Role: "system", Content: buildIntakePrompt(session.Profile)},
	}
	messages = append(messages, session.RecentHistory(o.maxHistory)...)
	messages = append(messages, domain.ChatMessage{Role: "user", Content: message})

	raw, err := o.llm.Chat(ctx, messages, driven.ChatOptions{Temperature: 0.2})
	if err != nil {
		return nil, err
	}

	display, complete, extraction := parseIntakeReply(raw)

	switch extraction.Outcome {
	case domain.ExtractionExtracted:
		session.Profile.Merge(extraction.Fields)
	case domain.ExtractionInvalid:
		// Fields that passed validation individually still count.
		session.Profile.Merge(extraction.Fields)
		logger.Debug("Intake validation: %s", extraction.Reason)
		complete = false
	case domain.ExtractionIncomplete:
		complete = false
	}

	// The transition requires every field present and valid, whatever
	// the model claimed.
	if complete && session.Profile.Complete() && session.Profile.Validate() == nil {
		session.Phase = domain.PhaseQA
		logger.Info("Session %s: intake complete, entering QA", session.ID)
		if display == "" {
			display = confirmation(session.Profile)
		}
	} else if display == "" {
		display = reaskMessage(session.Profile)
	}

	return &driving.ChatReply{Text: display}, nil
}

// handleQA runs one grounded answer turn.
func (o *ChatOrchestrator) handleQA(ctx context.Context, session *domain.Session, message string) (*driving.ChatReply, error) {
	retrieved, err := o.retriever.Retrieve(ctx, message, o.topK)
	if err != nil {
		return nil, err
	}

	messages := []domain.ChatMessage{
		{Role: "system", Content: buildQAPrompt(session.Profile, retrieved)},
	}
	messages = append(messages, session.RecentHistory(o.maxHistory)...)
	messages = append(messages, domain.ChatMessage{Role: "user", Content: message})

	answer, err := o.llm.Chat(ctx, messages, driven.ChatOptions{Temperature: 0.3})
	if err != nil {
		return nil, err
	}

	return &driving.ChatReply{
		Text:      answer,
		Retrieved: retrieved,
	}, nil
}

func confirmation(profile domain.Profile) string {
	if profile.Language == "he" {
		return qaConfirmationHebrew
	}
	return qaConfirmation
}

// reaskMessage is the fallback when the model returned only protocol
// output and no question text.
func reaskMessage(profile domain.Profile) string {
	missing := profile.MissingFields()
	if len(missing) == 0 {
		return "Could you confirm your details once more?"
	}
	return fmt.Sprintf("Could you share your %s?", strings.ReplaceAll(missing[0], "_", " "))
}
