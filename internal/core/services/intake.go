package services

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/benefik-labs/benefik-cli/internal/core/domain"
)

// looseProfile tolerates the field types a language model actually
// emits: age as number or string, id numbers as either.
type looseProfile struct {
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	IDNumber       json.RawMessage `json:"id_number"`
	Gender         string          `json:"gender"`
	Age            json.RawMessage `json:"age"`
	HMOName        string          `json:"hmo_name"`
	HMOCardNumber  json.RawMessage `json:"hmo_card_number"`
	MembershipTier string          `json:"membership_tier"`
	Language       string          `json:"language"`
}

// parseIntakeReply splits a model reply into the text to show the user
// and the tagged extraction of any profile fields it carried.
// complete reports whether the model declared the profile collected.
func parseIntakeReply(reply string) (display string, complete bool, ex domain.Extraction) {
	complete = strings.Contains(reply, infoCollectedToken)
	display = stripProtocol(reply)

	payload, ok := extractJSONBlock(reply)
	if !ok {
		ex = domain.Extraction{Outcome: domain.ExtractionIncomplete}
		return display, complete, ex
	}

	fields, err := parseLooseProfile(payload)
	if err != nil {
		ex = domain.Extraction{Outcome: domain.ExtractionIncomplete}
		return display, complete, ex
	}

	return display, complete, validateExtracted(fields)
}

// stripProtocol removes the completion token and the JSON block from a
// reply, leaving only the user-facing text.
func stripProtocol(reply string) string {
	if open := strings.Index(reply, jsonOpenTag); open >= 0 {
		if close := strings.Index(reply, jsonCloseTag); close > open {
			reply = reply[:open] + reply[close+len(jsonCloseTag):]
		}
	}
	reply = strings.ReplaceAll(reply, infoCollectedToken, "")
	return strings.TrimSpace(reply)
}

// extractJSONBlock returns the payload between the JSON tags, falling
// back to the first top-level object when the model forgot the tags.
func extractJSONBlock(reply string) (string, bool) {
	if open := strings.Index(reply, jsonOpenTag); open >= 0 {
		if close := strings.Index(reply, jsonCloseTag); close > open {
			return strings.TrimSpace(reply[open+len(jsonOpenTag) : close]), true
		}
	}
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start >= 0 && end > start {
		return reply[start : end+1], true
	}
	return "", false
}

// parseLooseProfile decodes the extracted JSON into a Profile,
// coercing numeric fields the model may emit either way.
func parseLooseProfile(payload string) (domain.Profile, error) {
	var loose looseProfile
	if err := json.Unmarshal([]byte(payload), &loose); err != nil {
		return domain.Profile{}, err
	}

	p := domain.Profile{
		FirstName:      strings.TrimSpace(loose.FirstName),
		LastName:       strings.TrimSpace(loose.LastName),
		Gender:         strings.TrimSpace(loose.Gender),
		HMOName:        strings.TrimSpace(loose.HMOName),
		MembershipTier: strings.TrimSpace(loose.MembershipTier),
		Language:       strings.TrimSpace(loose.Language),
	}
	p.IDNumber = rawToString(loose.IDNumber)
	p.HMOCardNumber = rawToString(loose.HMOCardNumber)

	if age, ok := rawToInt(loose.Age); ok {
		p.Age = &age
	}
	return p, nil
}

// validateExtracted checks each populated field on its own so one
// invalid value never discards the fields that passed.
func validateExtracted(fields domain.Profile) domain.Extraction {
	kept := domain.Profile{
		FirstName: fields.FirstName,
		LastName:  fields.LastName,
		Gender:    fields.Gender,
		Language:  fields.Language,
	}
	var reasons []string

	check := func(field domain.Profile) {
		if err := field.Validate(); err != nil {
			reasons = append(reasons, strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": "))
			return
		}
		kept.Merge(field)
	}

	if fields.IDNumber != "" {
		check(domain.Profile{IDNumber: fields.IDNumber})
	}
	if fields.Age != nil {
		check(domain.Profile{Age: fields.Age})
	}
	if fields.HMOName != "" {
		check(domain.Profile{HMOName: fields.HMOName})
	}
	if fields.HMOCardNumber != "" {
		check(domain.Profile{HMOCardNumber: fields.HMOCardNumber})
	}
	if fields.MembershipTier != "" {
		check(domain.Profile{MembershipTier: fields.MembershipTier})
	}

	if len(reasons) > 0 {
		return domain.Extraction{
			Outcome: domain.ExtractionInvalid,
			Fields:  kept,
			Reason:  strings.Join(reasons, "; "),
		}
	}
	if kept == (domain.Profile{}) {
		return domain.Extraction{Outcome: domain.ExtractionIncomplete}
	}
	return domain.Extraction{Outcome: domain.ExtractionExtracted, Fields: kept}
}

// rawToString accepts both "123456789" and 123456789.
func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return ""
}

// rawToInt accepts both 42 and "42".
func rawToInt(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return parsed, true
		}
	}
	return 0, false
}
