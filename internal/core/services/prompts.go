package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/benefik-labs/benefik-cli/internal/core/domain"
)

// infoCollectedToken marks the turn where the model declares the
// profile complete. The JSON payload follows between jsonOpenTag and
// jsonCloseTag.
const (
	infoCollectedToken = "<INFO_COLLECTED>"
	jsonOpenTag        = "<JSON>"
	jsonCloseTag       = "</JSON>"
)

const intakeSystemPrompt = `You are a bi-lingual (Hebrew/English) intake assistant for Israeli HMOs (Maccabi, Meuhedet, Clalit).
Your goal is to collect the required user information field by field.
You must ONLY speak in Hebrew or English, depending on the user's language.
Ask one question at a time until all REQUIRED fields are collected.

REQUIRED FIELDS:
- First Name (first_name)
- Last Name (last_name)
- ID Number (id_number): Must be 9 digits. Check using Modulo 10.
- Gender (gender)
- Age (age): Must be between 0 and 120.
- HMO Name (hmo_name): Must be one of Maccabi, Meuhedet, Clalit (or Hebrew equivalents).
- HMO Card Number (hmo_card_number): Must be 9 digits.
- Membership Tier (membership_tier): Must be one of Gold, Silver, Bronze (or Hebrew equivalents).

CURRENTLY COLLECTED INFO:
%s

Based on the collected info and the conversation, determine the next single question to ask the user to fill a missing REQUIRED field.
If a user provides an invalid answer (e.g., wrong ID format, invalid age, unknown HMO), briefly explain the issue and re-ask the same question politely.

After every user message, output the fields you have understood so far as a JSON object enclosed in ` + jsonOpenTag + ` and ` + jsonCloseTag + ` tags, using the field names above. Omit fields you do not know yet. Put the JSON block first, then your question.

Once all fields are collected and valid, DO NOT ask any more questions. Instead output ` + infoCollectedToken + ` on its own line, then the complete JSON block, then say: "Great, I have all your details. How can I help you today?" (or the Hebrew equivalent if the conversation is in Hebrew).

Respond in the language the user is primarily using (default to English if unsure).`

const qaSystemPrompt = `You are a helpful assistant for Israeli HMOs (health funds). You answer user questions based ONLY on the provided context information about their specific HMO and membership tier.
User's HMO: %s
User's Membership Tier: %s
User's Preferred Language: %s

Answer the user's question using ONLY the information from the 'Context' section below.
If the answer isn't in the context, state that you don't have information on that specific topic based on the provided documents and suggest they contact their HMO directly.
Cite the source section titles or document names from the context if possible.
Answer CLEARLY and CONCISELY in %s.

Context:
---
%s
---`

// buildIntakePrompt renders the intake system message with the fields
// collected so far.
func buildIntakePrompt(profile domain.Profile) string {
	collected, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		collected = []byte("{}")
	}
	return fmt.Sprintf(intakeSystemPrompt, string(collected))
}

// buildQAPrompt renders the QA system message with the member context
// and the retrieved chunks.
func buildQAPrompt(profile domain.Profile, retrieved []domain.RetrievedChunk) string {
	language := profile.Language
	if language == "" {
		language = "en"
	}

	var context strings.Builder
	for i, r := range retrieved {
		if i > 0 {
			context.WriteString("\n\n")
		}
		fmt.Fprintf(&context, "[Source: %s]\n%s", r.Chunk.Source, r.Chunk.Content)
	}
	if context.Len() == 0 {
		context.WriteString("No relevant information found in the knowledge base.")
	}

	return fmt.Sprintf(qaSystemPrompt,
		profile.HMOName, profile.MembershipTier, language, language, context.String())
}
