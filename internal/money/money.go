// Package money converts between user-entered monetary strings and the
// fixed-point integer cents stored in the ledger. Values are never kept
// as floating point.
package money

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dkotenko/budgetbot/internal/errs"
)

var hundred = decimal.NewFromInt(100)

// Parse converts a user-entered amount into integer cents.
// Digit-group separators (space, underscore, dash) are stripped, a comma
// is accepted as the decimal divider, and the result is truncated to
// whole cents. More than one divider or a negative result is rejected.
func Parse(value string) (int64, error) {
	if value == "" {
		return 0, errs.NewValidation("value should exist")
	}

	for _, char := range []string{" ", "_", "-"} {
		value = strings.ReplaceAll(value, char, "")
	}
	value = strings.ReplaceAll(value, ",", ".")

	if strings.Count(value, ".") > 1 {
		return 0, errs.NewValidation("the value can not have more than one divider")
	}

	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return 0, errs.NewValidation("value should be a valid number")
	}

	cents := parsed.Mul(hundred)
	if cents.IsNegative() {
		return 0, errs.NewValidation("value should be greater than 0")
	}

	return cents.IntPart(), nil
}

// Format renders integer cents as "1 234.56" with space-separated
// thousands, always keeping two decimal places.
func Format(cents int64) string {
	negative := cents < 0
	if negative {
		cents = -cents
	}

	whole := cents / 100
	fraction := cents % 100

	digits := decimal.NewFromInt(whole).String()
	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteByte(byte('0' + fraction/10))
	b.WriteByte(byte('0' + fraction%10))
	return b.String()
}
