// backend/src/parsers/numeric.go
package parsers

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// OCR engines routinely confuse glyphs inside amounts ("1O,5O" for "10,50").
// The replacements are only safe in a numeric context, otherwise they would
// mangle ordinary words, so FixOCRDigits first checks the fragment already
// looks like a number.
var (
	ocrDigitReplacer = strings.NewReplacer(
		"O", "0",
		"I", "1",
		"l", "1",
		"S", "5",
		"B", "8",
	)
	numericContextRe = regexp.MustCompile(`[0-9.,₺*]|\bTL\b`)

	commaDecimalRe   = regexp.MustCompile(`^\d{1,4},\d{2}$`)
	thousandsCommaRe = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+,\d{2}$`)
	currencyMarkRe   = regexp.MustCompile(`₺|TRY|TL`)
)

// FixOCRDigits corrects common OCR digit confusions, but only when the input
// already contains a digit, a decimal separator or a currency mark.
func FixOCRDigits(s string) string {
	if !numericContextRe.MatchString(s) {
		return s
	}
	return ocrDigitReplacer.Replace(s)
}

// NormalizeNumber parses a Turkish receipt amount into an exact decimal.
// Currency markers, the price star and whitespace are stripped first, then
// three representations are tried in order: comma-decimal ("228,75"),
// thousands-then-decimal ("1.228,75") and a generic comma-to-dot
// substitution. The ordering matters: Turkish receipts use the comma as the
// decimal separator, so a naive dot-first parse must never win.
func NormalizeNumber(s string) (decimal.Decimal, bool) {
	s = currencyMarkRe.ReplaceAllString(s, "")
	s = strings.Map(func(r rune) rune {
		if r == '*' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return decimal.Decimal{}, false
	}

	if commaDecimalRe.MatchString(s) {
		if d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1)); err == nil {
			return d, true
		}
	}
	if thousandsCommaRe.MatchString(s) {
		plain := strings.ReplaceAll(s, ".", "")
		if d, err := decimal.NewFromString(strings.Replace(plain, ",", ".", 1)); err == nil {
			return d, true
		}
	}
	if d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ".")); err == nil {
		return d, true
	}
	return decimal.Decimal{}, false
}
