// Package rules holds the pure predicates gating step transitions. Flows call
// these at the transition layer so a failing guard is a silent no-op rather
// than a presentation-only disabled button.
package rules

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// MinTransferAmount is the inclusive lower bound for a transfer, in USD.
	MinTransferAmount = 20
	// MaxTransferAmount is the inclusive upper bound for a transfer, in USD.
	MaxTransferAmount = 1425
)

var (
	minAmount = decimal.NewFromInt(MinTransferAmount)
	maxAmount = decimal.NewFromInt(MaxTransferAmount)
)

// Digits strips every non-digit rune. Applied to phone input on each edit.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// OtpComplete reports whether every OTP slot holds a character.
func OtpComplete(slots []string) bool {
	if len(slots) == 0 {
		return false
	}
	for _, s := range slots {
		if s == "" {
			return false
		}
	}
	return true
}

// UploadsComplete reports whether both ID card sides have been accepted.
func UploadsComplete(front, back bool) bool {
	return front && back
}

// RecipientValid reports whether the recipient identifier is non-empty after
// trimming whitespace.
func RecipientValid(recipient string) bool {
	return strings.TrimSpace(recipient) != ""
}

// AmountInRange parses the raw amount input and reports whether it is a
// positive number within [MinTransferAmount, MaxTransferAmount], inclusive.
// Non-numeric input is rejected without error; the caller leaves the entered
// text untouched either way.
func AmountInRange(raw string) bool {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return v.GreaterThanOrEqual(minAmount) && v.LessThanOrEqual(maxAmount)
}
