package swiss

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatIBAN groups the normalized IBAN in blocks of 4: "CH93 0076 2011 6238 5295 7".
func FormatIBAN(iban string) string {
	return group(NormalizeIBAN(iban), 4, 4)
}

// FormatQRReference renders a 27-digit reference as "21 00000 00003 13947 14300 09017".
// Creditor references (RF...) are grouped by 4.
func FormatQRReference(ref string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(ref), " ", "")
	if strings.HasPrefix(strings.ToUpper(normalized), "RF") {
		return group(strings.ToUpper(normalized), 4, 4)
	}
	if len(normalized) != QRReferenceLength {
		return ref
	}
	return group(normalized, 2, 5)
}

// group splits s into a first block of size first and then blocks of size n.
func group(s string, first, n int) string {
	if len(s) <= first {
		return s
	}
	parts := []string{s[:first]}
	for rest := s[first:]; len(rest) > 0; {
		k := min(n, len(rest))
		parts = append(parts, rest[:k])
		rest = rest[k:]
	}
	return strings.Join(parts, " ")
}

// FormatAmount renders an amount with 2 decimals and Swiss thousands
// separators: 1949.75 → "1'949.75", -12500 → "-12'500.00".
func FormatAmount(d decimal.Decimal) string {
	s := d.Round(2).StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte('\'')
		}
		b.WriteByte(intPart[i])
	}
	return sign + b.String() + "." + frac
}

// FormatPercent renders a percentage without trailing zeros: 8.1 → "8.1%".
func FormatPercent(p decimal.Decimal) string {
	return p.String() + "%"
}
