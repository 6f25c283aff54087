package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benefik-labs/benefik-cli/internal/core/domain"
)

func TestParseIntakeReply_TaggedJSON(t *testing.T) {
	reply := `<JSON>
{"first_name": "Dana", "last_name": "Levi"}
</JSON>
Thanks Dana! What is your ID number?`

	display, complete, ex := parseIntakeReply(reply)

	assert.False(t, complete)
	assert.Equal(t, "Thanks Dana! What is your ID number?", display)
	require.Equal(t, domain.ExtractionExtracted, ex.Outcome)
	assert.Equal(t, "Dana", ex.Fields.FirstName)
	assert.Equal(t, "Levi", ex.Fields.LastName)
}

func TestParseIntakeReply_Completion(t *testing.T) {
	reply := `<INFO_COLLECTED>
<JSON>
{"first_name": "Dana", "last_name": "Levi", "id_number": "123456782",
 "gender": "female", "age": 34, "hmo_name": "Maccabi",
 "hmo_card_number": "987654321", "membership_tier": "Gold", "language": "en"}
</JSON>
Great, I have all your details. How can I help you today?`

	display, complete, ex := parseIntakeReply(reply)

	assert.True(t, complete)
	assert.Equal(t, "Great, I have all your details. How can I help you today?", display)
	require.Equal(t, domain.ExtractionExtracted, ex.Outcome)
	assert.True(t, ex.Fields.Complete())
	assert.Equal(t, "Maccabi", ex.Fields.HMOName)
}

func TestParseIntakeReply_NoJSON(t *testing.T) {
	display, complete, ex := parseIntakeReply("What is your first name?")

	assert.False(t, complete)
	assert.Equal(t, "What is your first name?", display)
	assert.Equal(t, domain.ExtractionIncomplete, ex.Outcome)
}

func TestParseIntakeReply_UntaggedJSONFallback(t *testing.T) {
	_, _, ex := parseIntakeReply(`{"first_name": "Noa"} What is your last name?`)

	require.Equal(t, domain.ExtractionExtracted, ex.Outcome)
	assert.Equal(t, "Noa", ex.Fields.FirstName)
}

func TestParseIntakeReply_LooseTypes(t *testing.T) {
	reply := `<JSON>{"age": "34", "id_number": 123456782}</JSON> Next question.`

	_, _, ex := parseIntakeReply(reply)

	require.Equal(t, domain.ExtractionExtracted, ex.Outcome)
	require.NotNil(t, ex.Fields.Age)
	assert.Equal(t, 34, *ex.Fields.Age)
	assert.Equal(t, "123456782", ex.Fields.IDNumber)
}

func TestParseIntakeReply_InvalidKeepsValidFields(t *testing.T) {
	reply := `<JSON>{"first_name": "Dana", "id_number": "123456789", "hmo_name": "Maccabi"}</JSON> Hmm.`

	_, _, ex := parseIntakeReply(reply)

	require.Equal(t, domain.ExtractionInvalid, ex.Outcome)
	assert.Contains(t, ex.Reason, "id_number")
	// The bad ID is dropped; the valid fields survive.
	assert.Empty(t, ex.Fields.IDNumber)
	assert.Equal(t, "Dana", ex.Fields.FirstName)
	assert.Equal(t, "Maccabi", ex.Fields.HMOName)
}

func TestParseIntakeReply_HebrewValues(t *testing.T) {
	reply := `<JSON>{"hmo_name": "מכבי", "membership_tier": "זהב"}</JSON> שאלה הבאה`

	_, _, ex := parseIntakeReply(reply)

	require.Equal(t, domain.ExtractionExtracted, ex.Outcome)
	assert.Equal(t, "Maccabi", ex.Fields.HMOName)
	assert.Equal(t, "Gold", ex.Fields.MembershipTier)
}
