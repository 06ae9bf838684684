// Package core defines the dashboard's domain records and amount handling.
//
// Amounts travel as decimal strings end to end to avoid floating rounding;
// this file is the single place where they are parsed into numbers.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to a decimal value.
//
// Malformed or negative input yields zero. Treating bad amounts as zero
// (rather than dropping the record) keeps total/success counts consistent
// with the rows a view actually displays. Every consumer of amounts goes
// through this function so the policy cannot drift.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// AmountValue returns the parsed transaction amount under the shared
// malformed-input policy.
func (t Transaction) AmountValue() decimal.Decimal {
	return ParseAmount(t.Amount)
}
