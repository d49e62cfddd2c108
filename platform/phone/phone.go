// Package phone normalises South African contact numbers to E.164.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Region is assumed for numbers written without a country code, as in
// "082 123 4567".
const Region = "ZA"

func parse(input string) (*phonenumbers.PhoneNumber, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, false
	}
	n, err := phonenumbers.Parse(input, Region)
	if err != nil || !phonenumbers.IsValidNumber(n) {
		return nil, false
	}
	return n, true
}

// Normalize returns input in E.164 form. Input that is not a valid number
// is returned trimmed but otherwise untouched so nothing a user typed is
// silently lost.
func Normalize(input string) string {
	if n, ok := parse(input); ok {
		return phonenumbers.Format(n, phonenumbers.E164)
	}
	return strings.TrimSpace(input)
}

// Optional normalises an optional form field; blank input yields nil.
func Optional(input string) *string {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	normalized := Normalize(input)
	return &normalized
}

// IsValid reports whether input is a dialable number.
func IsValid(input string) bool {
	_, ok := parse(input)
	return ok
}

// GatewayDigits is the number as WhatsApp gateways expect it: E.164 without
// the leading plus.
func GatewayDigits(input string) string {
	return strings.TrimPrefix(Normalize(input), "+")
}
