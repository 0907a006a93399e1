package vat

import "github.com/shopspring/decimal"

// TransactionType distinguishes sales from purchases.
type TransactionType string

const (
	Sale     TransactionType = "sale"
	Purchase TransactionType = "purchase"
)

// Transaction is the input of AutoDetectCode. Rate may be given as a
// fraction (0.081) or as a percentage (8.1).
type Transaction struct {
	Type     TransactionType
	Rate     decimal.Decimal
	IsExport bool
	IsExempt bool
}

var (
	hundred = decimal.NewFromInt(100)

	rateNormal        = decimal.RequireFromString("0.081")
	rateReduced       = decimal.RequireFromString("0.026")
	rateAccommodation = decimal.RequireFromString("0.038")
)

// AutoDetectCode picks the VAT code of a transaction. Exports win over
// exemptions, exemptions over rates; an unknown rate falls back to the
// normal rate.
func AutoDetectCode(tx Transaction) Info {
	purchase := tx.Type == Purchase
	switch {
	case tx.IsExport:
		return VEXP.Info()
	case tx.IsExempt:
		if purchase {
			return AEX.Info()
		}
		return VEX.Info()
	}

	sale, buy := V81, A81
	switch {
	case matchesRate(tx.Rate, rateReduced):
		sale, buy = V26, A26
	case matchesRate(tx.Rate, rateAccommodation):
		sale, buy = V38, A38
	}
	if purchase {
		return buy.Info()
	}
	return sale.Info()
}

func matchesRate(r, want decimal.Decimal) bool {
	return r.Equal(want) || r.Equal(want.Mul(hundred))
}
