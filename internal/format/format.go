// Package format renders counters for display: grouped digits in the user's
// language, compact K/M/B notation and English ordinal suffixes.
package format

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Compact notation thresholds.
const (
	Thousand = 1_000
	Million  = 1_000_000
	Billion  = 1_000_000_000
)

// printer returns a message.Printer for lang, falling back to English for
// unparsable tags.
func printer(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

// Number groups the digits of n the way lang writes them ("1,234,567" in English).
func Number(lang string, n int64) string {
	return printer(lang).Sprintf("%d", n)
}

// Decimal formats v with the given number of fraction digits in lang.
func Decimal(lang string, v float64, digits int) string {
	return printer(lang).Sprintf(fmt.Sprintf("%%.%df", digits), v)
}

// Large abbreviates n: 1.23B, 4.56M, 7.8K. Smaller values are grouped like Number.
func Large(lang string, n int64) string {
	p := printer(lang)
	switch {
	case n >= Billion:
		return p.Sprintf("%.2fB", float64(n)/Billion)
	case n >= Million:
		return p.Sprintf("%.2fM", float64(n)/Million)
	case n >= Thousand:
		return p.Sprintf("%.1fK", float64(n)/Thousand)
	default:
		return p.Sprintf("%d", n)
	}
}

// Ordinal returns the English ordinal suffix of n: st, nd, rd or th.
func Ordinal(n int64) string {
	if n < 0 {
		n = -n
	}
	j, k := n%10, n%100
	switch {
	case j == 1 && k != 11:
		return "st"
	case j == 2 && k != 12:
		return "nd"
	case j == 3 && k != 13:
		return "rd"
	default:
		return "th"
	}
}
