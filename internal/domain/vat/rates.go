package vat

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hypervisual/swiss-compliance/internal/domain"
)

// RateType is the legal rate category.
type RateType string

const (
	RateNormal        RateType = "normal"
	RateReduced       RateType = "reduced"
	RateAccommodation RateType = "accommodation"
)

// rateChangeDate is the day the 2024 rates took effect (federal decree of
// 17 March 2023). Changing it is a legal change and needs a new version.
var rateChangeDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// RateChangeDate returns the day the 2024 rates took effect.
func RateChangeDate() time.Time { return rateChangeDate }

var (
	legacyRates = map[RateType]decimal.Decimal{
		RateNormal:        decimal.RequireFromString("0.077"),
		RateReduced:       decimal.RequireFromString("0.025"),
		RateAccommodation: decimal.RequireFromString("0.037"),
	}
	currentRates = map[RateType]decimal.Decimal{
		RateNormal:        decimal.RequireFromString("0.081"),
		RateReduced:       decimal.RequireFromString("0.026"),
		RateAccommodation: decimal.RequireFromString("0.038"),
	}
)

// ParseRateType accepts "normal", "reduced", "accommodation" (case-insensitive).
func ParseRateType(s string) (RateType, error) {
	switch rt := RateType(strings.ToLower(strings.TrimSpace(s))); rt {
	case RateNormal, RateReduced, RateAccommodation:
		return rt, nil
	}
	return "", fmt.Errorf("%w: unknown rate type %q", domain.ErrInvalidInput, s)
}

// RateForDate returns the legal rate in force on date. The calendar day is
// compared in the date's own location, so 2023-12-31 23:30 CET is still legacy.
func RateForDate(date time.Time, rt RateType) (decimal.Decimal, error) {
	rates := currentRates
	if beforeCutover(date) {
		rates = legacyRates
	}
	r, ok := rates[rt]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unknown rate type %q", domain.ErrInvalidInput, rt)
	}
	return r, nil
}

// CodeForDate picks the VAT code of a rate category for sales or purchases,
// taking the 2024 cutover into account.
func CodeForDate(date time.Time, rt RateType, tx TransactionType) (Code, error) {
	legacy := beforeCutover(date)
	var sale, purchase Code
	switch rt {
	case RateNormal:
		sale, purchase = V81, A81
		if legacy {
			sale, purchase = V77, A77
		}
	case RateReduced:
		sale, purchase = V26, A26
		if legacy {
			sale, purchase = V25, A25
		}
	case RateAccommodation:
		sale, purchase = V38, A38
		if legacy {
			sale, purchase = V37, A37
		}
	default:
		return CodeUnknown, fmt.Errorf("%w: unknown rate type %q", domain.ErrInvalidInput, rt)
	}
	if tx == Purchase {
		return purchase, nil
	}
	return sale, nil
}

func beforeCutover(date time.Time) bool {
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return day.Before(rateChangeDate)
}
