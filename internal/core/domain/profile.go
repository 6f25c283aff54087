package domain

import (
	"fmt"
	"strings"
)

// Allowed health funds, with the Hebrew spellings members actually type.
var allowedHMOs = map[string]string{
	"maccabi":  "Maccabi",
	"meuhedet": "Meuhedet",
	"clalit":   "Clalit",
	"מכבי":     "Maccabi",
	"מאוחדת":   "Meuhedet",
	"כללית":    "Clalit",
}

// Allowed membership tiers, with Hebrew spellings.
var allowedTiers = map[string]string{
	"gold":   "Gold",
	"silver": "Silver",
	"bronze": "Bronze",
	"זהב":    "Gold",
	"כסף":    "Silver",
	"ארד":    "Bronze",
}

// Profile holds the member details collected during the intake phase.
// All fields except Language are required before the session may enter
// the QA phase. The zero value is an empty, incomplete profile.
type Profile struct {
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	IDNumber       string `json:"id_number,omitempty"`
	Gender         string `json:"gender,omitempty"`
	Age            *int   `json:"age,omitempty"`
	HMOName        string `json:"hmo_name,omitempty"`
	HMOCardNumber  string `json:"hmo_card_number,omitempty"`
	MembershipTier string `json:"membership_tier,omitempty"`

	// Language is the member's preferred language ("en" or "he").
	// Optional; defaults to English.
	Language string `json:"language,omitempty"`
}

// Complete reports whether every required field is present.
// Presence does not imply validity; see Validate.
func (p *Profile) Complete() bool {
	return len(p.MissingFields()) == 0
}

// MissingFields returns the required fields that are still empty,
// in intake order.
func (p *Profile) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(p.FirstName) == "" {
		missing = append(missing, "first_name")
	}
	if strings.TrimSpace(p.LastName) == "" {
		missing = append(missing, "last_name")
	}
	if strings.TrimSpace(p.IDNumber) == "" {
		missing = append(missing, "id_number")
	}
	if strings.TrimSpace(p.Gender) == "" {
		missing = append(missing, "gender")
	}
	if p.Age == nil {
		missing = append(missing, "age")
	}
	if strings.TrimSpace(p.HMOName) == "" {
		missing = append(missing, "hmo_name")
	}
	if strings.TrimSpace(p.HMOCardNumber) == "" {
		missing = append(missing, "hmo_card_number")
	}
	if strings.TrimSpace(p.MembershipTier) == "" {
		missing = append(missing, "membership_tier")
	}
	return missing
}

// Validate checks every populated field and returns ErrValidation
// (wrapped with the offending field) on the first failure.
// Empty fields are not errors; they are reported by MissingFields.
func (p *Profile) Validate() error {
	if p.IDNumber != "" {
		if err := validateIDNumber(p.IDNumber); err != nil {
			return err
		}
	}
	if p.Age != nil && (*p.Age < 0 || *p.Age > 120) {
		return fmt.Errorf("%w: age must be between 0 and 120", ErrValidation)
	}
	if p.HMOName != "" {
		canonical, ok := allowedHMOs[strings.ToLower(strings.TrimSpace(p.HMOName))]
		if !ok {
			return fmt.Errorf("%w: hmo_name must be one of Maccabi, Meuhedet, Clalit", ErrValidation)
		}
		p.HMOName = canonical
	}
	if p.HMOCardNumber != "" && !isDigits(p.HMOCardNumber, 9) {
		return fmt.Errorf("%w: hmo_card_number must be 9 digits", ErrValidation)
	}
	if p.MembershipTier != "" {
		canonical, ok := allowedTiers[strings.ToLower(strings.TrimSpace(p.MembershipTier))]
		if !ok {
			return fmt.Errorf("%w: membership_tier must be one of Gold, Silver, Bronze", ErrValidation)
		}
		p.MembershipTier = canonical
	}
	return nil
}

// Merge copies populated fields from other into p, leaving existing
// values in place when other's field is empty. Used to persist partial
// intake progress across turns.
func (p *Profile) Merge(other Profile) {
	if other.FirstName != "" {
		p.FirstName = other.FirstName
	}
	if other.LastName != "" {
		p.LastName = other.LastName
	}
	if other.IDNumber != "" {
		p.IDNumber = other.IDNumber
	}
	if other.Gender != "" {
		p.Gender = other.Gender
	}
	if other.Age != nil {
		p.Age = other.Age
	}
	if other.HMOName != "" {
		p.HMOName = other.HMOName
	}
	if other.HMOCardNumber != "" {
		p.HMOCardNumber = other.HMOCardNumber
	}
	if other.MembershipTier != "" {
		p.MembershipTier = other.MembershipTier
	}
	if other.Language != "" {
		p.Language = other.Language
	}
}

// validateIDNumber checks the 9-digit national ID with its weighted
// mod-10 checksum: digits are multiplied by alternating 1 and 2,
// two-digit products are reduced by digit sum, and the total must be
// divisible by 10.
func validateIDNumber(id string) error {
	id = strings.TrimSpace(id)
	if !isDigits(id, 9) {
		return fmt.Errorf("%w: id_number must be 9 digits", ErrValidation)
	}
	sum := 0
	for i, r := range id {
		d := int(r - '0')
		if i%2 == 1 {
			d *= 2
		}
		if d > 9 {
			d -= 9
		}
		sum += d
	}
	if sum%10 != 0 {
		return fmt.Errorf("%w: id_number checksum is invalid", ErrValidation)
	}
	return nil
}

// isDigits reports whether s consists of exactly n ASCII digits.
func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
