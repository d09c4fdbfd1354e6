package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxAmountExponent bounds the decimal exponent of a parsed amount. Sums
// rescale every operand to the smallest exponent, so "1e900000000" would
// otherwise expand into a huge integer.
const maxAmountExponent = 18

var currencyReplacer = strings.NewReplacer(
	"₪", "",
	"$", "",
	"€", "",
	"£", "",
	",", "",
	" ", "",
	"\u00a0", "",
	"\u200f", "",
	"\u200e", "",
)

// ParseAmount converts a spreadsheet cell into a decimal amount.
//
// Currency symbols, thousands separators and bidi marks are ignored. A dot is
// the decimal separator. Parenthesized and trailing-minus values are negative.
// Values whose exponent exceeds maxAmountExponent in either direction are
// rejected.
//
// Examples:
//
//	ParseAmount("1,234.50")  -> 1234.50
//	ParseAmount("₪ 99.9")    -> 99.9
//	ParseAmount("(12.00)")   -> -12.00
//	ParseAmount("12.00-")    -> -12.00
//	ParseAmount("1.5E+2")    -> 150
func ParseAmount(s string) (decimal.Decimal, error) {
	s = currencyReplacer.Replace(strings.TrimSpace(s))
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	} else if len(s) > 1 && strings.HasSuffix(s, "-") && !strings.HasPrefix(s, "-") {
		negative = true
		s = s[:len(s)-1]
	}
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if exp := d.Exponent(); exp > maxAmountExponent || exp < -maxAmountExponent {
		return decimal.Zero, ErrInvalidAmount
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// FormatAmount renders d with two decimals and comma thousands separators.
func FormatAmount(d decimal.Decimal) string {
	rounded := d.Round(2)
	intPart, frac, _ := strings.Cut(rounded.Abs().StringFixed(2), ".")

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FormatShekels is FormatAmount followed by the shekel sign.
func FormatShekels(d decimal.Decimal) string {
	return FormatAmount(d) + " ₪"
}
