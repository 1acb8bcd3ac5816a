package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Turkish casing helpers. Plain strings.ToUpper breaks on dotted/dotless I
// (i -> İ, ı -> I), so every case-insensitive comparison against receipt
// text goes through these. cases.Caser is stateful, hence one per call.

func UpperTR(s string) string {
	return cases.Upper(language.Turkish).String(s)
}

func LowerTR(s string) string {
	return cases.Lower(language.Turkish).String(s)
}

func TitleTR(s string) string {
	return cases.Title(language.Turkish).String(s)
}

// ContainsTR reports whether substr occurs in s, Turkish-case-insensitively.
func ContainsTR(s, substr string) bool {
	return strings.Contains(UpperTR(s), UpperTR(substr))
}
