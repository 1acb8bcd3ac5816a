// backend/src/parsers/money.go
package parsers

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	amountBeforeSymbolRe = regexp.MustCompile(`\d{1,4}[.,]\d{2}\s*(?:₺|TL)`)
	symbolBeforeAmountRe = regexp.MustCompile(`(?:₺|TL)\s*\d{1,4}[.,]\d{2}`)
	bareAmountRe         = regexp.MustCompile(`(?:^|[\s*:])\d{1,4}[.,]\d{2}(?:[\s*]|$)`)

	// moneyTokenRe matches both plain and thousands-grouped amounts; the
	// grouped alternative comes first so "1.228,75" is not split in two.
	moneyTokenRe = regexp.MustCompile(`\d{1,3}(?:\.\d{3})+,\d{2}|\d{1,4}[.,]\d{2}`)

	quantityUnitRe = regexp.MustCompile(`(?i)^\s*(\d+(?:[.,]\d+)?)\s*(adet|kg|gr|g|lt|l|ml|cl|pk|paket|kutu)?\b`)
)

// IsMoney reports whether the fragment denotes a monetary amount: amount
// before symbol, symbol before amount, or a bare NN,NN token.
func IsMoney(s string) bool {
	return amountBeforeSymbolRe.MatchString(s) ||
		symbolBeforeAmountRe.MatchString(s) ||
		bareAmountRe.MatchString(s)
}

// ExtractMoneyValues scans free text for every money-like token and returns
// the amounts it could normalize. Used as the fallback when no labeled total
// line is present.
func ExtractMoneyValues(s string) []decimal.Decimal {
	var values []decimal.Decimal
	for _, token := range moneyTokenRe.FindAllString(s, -1) {
		if v, ok := NormalizeNumber(FixOCRDigits(token)); ok {
			values = append(values, v)
		}
	}
	return values
}

// ParseQuantityUnit extracts a leading numeric token and an optional unit
// ("2,500 KG ..." -> 2.5, "kg"). Absence of a match is not an error: both
// results are simply empty.
func ParseQuantityUnit(s string) (*decimal.Decimal, string) {
	m := quantityUnitRe.FindStringSubmatch(s)
	if m == nil {
		return nil, ""
	}
	qty, ok := NormalizeNumber(FixOCRDigits(m[1]))
	if !ok {
		return nil, ""
	}
	return &qty, strings.ToLower(m[2])
}
