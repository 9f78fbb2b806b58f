// Currency parsing and formatting for locale-ambiguous monetary cells.
//
// Spreadsheet exports mix Brazilian ("1.234,56") and US ("1,234.56")
// conventions, sometimes with a currency symbol glued on. ParseCurrency
// is a total function: anything unparseable becomes 0, because its
// output feeds sums and ratios that must never halt on one bad cell.
package core

import (
	"fmt"
	"strconv"
	"strings"
)

var currencySymbols = []string{"R$", "US$", "$", "€"}

// ParseCurrency converts a textual monetary value to a float amount.
//
// When both separators are present, the one appearing later in the
// string is the decimal separator and the other is stripped as a
// thousands separator. When only one is present, it is a decimal
// separator iff followed by exactly one or two digits at the end of
// the string.
//
// Examples:
//
//	ParseCurrency("R$ 1.234,56") -> 1234.56
//	ParseCurrency("1,234.56")    -> 1234.56
//	ParseCurrency("12,5")        -> 12.5
//	ParseCurrency("banana")      -> 0
func ParseCurrency(raw string) float64 {
	s := strings.TrimSpace(raw)
	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == ' ' {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return 0
	}

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")

	switch {
	case comma >= 0 && dot >= 0:
		// Later separator wins as the decimal mark.
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if isDecimalTail(s, comma) {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case dot >= 0:
		if !isDecimalTail(s, dot) {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// isDecimalTail reports whether the separator at index i is followed
// by exactly one or two digits and nothing else.
func isDecimalTail(s string, i int) bool {
	tail := s[i+1:]
	if len(tail) < 1 || len(tail) > 2 {
		return false
	}
	for _, r := range tail {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatBRL renders an amount in Brazilian convention with the R$
// prefix ("R$ 1.234,56").
func FormatBRL(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("R$ %s%s,%s", sign, b.String(), fracPart)
}
