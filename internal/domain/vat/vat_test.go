package vat_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hypervisual/swiss-compliance/internal/domain"
	"github.com/hypervisual/swiss-compliance/internal/domain/afc"
	"github.com/hypervisual/swiss-compliance/internal/domain/vat"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Code table
// ──────────────────────────────────────────────────────────────────────────────

func TestCodes_RateIsPercentOverHundred(t *testing.T) {
	for _, c := range vat.Codes() {
		info := c.Info()
		assert.True(t, info.Rate.Equal(info.Percent.Div(decimal.NewFromInt(100))), c.String())
		assert.NotEmpty(t, info.AccountDebit, c.String())
		assert.NotEmpty(t, info.AccountCredit, c.String())
	}
}

func TestCodes_FormFields(t *testing.T) {
	assert.Equal(t, afc.Cifra302, vat.V81.Info().FormField)
	assert.Equal(t, afc.Cifra312, vat.V26.Info().FormField)
	assert.Equal(t, afc.Cifra342, vat.V38.Info().FormField)
	assert.Equal(t, afc.Cifra400, vat.A81.Info().FormField)
	assert.Equal(t, afc.Cifra221, vat.VEXP.Info().FormField)
	assert.Equal(t, vat.Output, vat.V81.Info().Type)
	assert.Equal(t, vat.Input, vat.A38.Info().Type)
}

func TestParseCode(t *testing.T) {
	c, err := vat.ParseCode(" v81 ")
	require.NoError(t, err)
	assert.Equal(t, vat.V81, c)

	c, err = vat.ParseCode("VEXP")
	require.NoError(t, err)
	assert.Equal(t, vat.VEXP, c)

	_, err = vat.ParseCode("V99")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rates and cutover
// ──────────────────────────────────────────────────────────────────────────────

func TestRateForDate(t *testing.T) {
	before := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		rt             vat.RateType
		legacy, actual string
	}{
		{vat.RateNormal, "0.077", "0.081"},
		{vat.RateReduced, "0.025", "0.026"},
		{vat.RateAccommodation, "0.037", "0.038"},
	}
	for _, tc := range cases {
		r, err := vat.RateForDate(before, tc.rt)
		require.NoError(t, err)
		assert.Equal(t, tc.legacy, r.String(), tc.rt)

		r, err = vat.RateForDate(after, tc.rt)
		require.NoError(t, err)
		assert.Equal(t, tc.actual, r.String(), tc.rt)
	}

	_, err := vat.RateForDate(after, vat.RateType("super"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRateChangeDate_IsFixed(t *testing.T) {
	cutover := vat.RateChangeDate()
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), cutover)

	cutover = cutover.AddDate(1, 0, 0)
	assert.NotEqual(t, cutover, vat.RateChangeDate())
	r, err := vat.RateForDate(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), vat.RateNormal)
	require.NoError(t, err)
	assert.Equal(t, "0.081", r.String())
}

func TestRateForDate_UsesLocalCalendarDay(t *testing.T) {
	zurich := time.FixedZone("CET", 3600)
	lateNewYearsEve := time.Date(2023, 12, 31, 23, 30, 0, 0, zurich)
	r, err := vat.RateForDate(lateNewYearsEve, vat.RateNormal)
	require.NoError(t, err)
	assert.Equal(t, "0.077", r.String())
}

func TestCodeForDate(t *testing.T) {
	old := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	c, err := vat.CodeForDate(old, vat.RateNormal, vat.Sale)
	require.NoError(t, err)
	assert.Equal(t, vat.V77, c)

	c, err = vat.CodeForDate(now, vat.RateReduced, vat.Purchase)
	require.NoError(t, err)
	assert.Equal(t, vat.A26, c)

	c, err = vat.CodeForDate(old, vat.RateAccommodation, vat.Purchase)
	require.NoError(t, err)
	assert.Equal(t, vat.A37, c)
}

func TestParseRateType(t *testing.T) {
	rt, err := vat.ParseRateType("Reduced")
	require.NoError(t, err)
	assert.Equal(t, vat.RateReduced, rt)

	_, err = vat.ParseRateType("zero")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// AutoDetectCode
// ──────────────────────────────────────────────────────────────────────────────

func TestAutoDetectCode(t *testing.T) {
	cases := []struct {
		name string
		tx   vat.Transaction
		want vat.Code
	}{
		{"export wins", vat.Transaction{Type: vat.Sale, Rate: d("0.081"), IsExport: true, IsExempt: true}, vat.VEXP},
		{"exempt sale", vat.Transaction{Type: vat.Sale, IsExempt: true}, vat.VEX},
		{"exempt purchase", vat.Transaction{Type: vat.Purchase, IsExempt: true}, vat.AEX},
		{"normal fraction", vat.Transaction{Type: vat.Sale, Rate: d("0.081")}, vat.V81},
		{"reduced percent", vat.Transaction{Type: vat.Sale, Rate: d("2.6")}, vat.V26},
		{"accommodation purchase", vat.Transaction{Type: vat.Purchase, Rate: d("0.038")}, vat.A38},
		{"unknown rate sale", vat.Transaction{Type: vat.Sale, Rate: d("0.05")}, vat.V81},
		{"unknown rate purchase", vat.Transaction{Type: vat.Purchase, Rate: d("12")}, vat.A81},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, vat.AutoDetectCode(tc.tx).Code)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Rounding and breakdowns
// ──────────────────────────────────────────────────────────────────────────────

func TestRoundCHF(t *testing.T) {
	cases := map[string]string{
		"10.024": "10.00",
		"10.026": "10.05",
		"12.371": "12.35",
		"10.075": "10.10",
		"0.024":  "0.00",
		"-1.03":  "-1.05",
		"810":    "810.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, vat.RoundCHF(d(in)).StringFixed(2), in)
	}
}

func TestFromNet_NormalRate(t *testing.T) {
	b, err := vat.FromNet(d("10000"), vat.V81)
	require.NoError(t, err)
	assert.Equal(t, "10000.00", b.Net.StringFixed(2))
	assert.Equal(t, "810.00", b.VAT.StringFixed(2))
	assert.Equal(t, "10810.00", b.Gross.StringFixed(2))
	assert.Equal(t, "0.081", b.Rate.String())
	assert.Equal(t, "8.1", b.Percent.String())
	assert.Equal(t, vat.V81, b.Code)
}

func TestFromNet_UnknownCode(t *testing.T) {
	_, err := vat.FromNet(d("100"), vat.CodeUnknown)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = vat.FromGross(d("100"), vat.Code(200))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFromGross(t *testing.T) {
	b, err := vat.FromGross(d("10810"), vat.V81)
	require.NoError(t, err)
	assert.Equal(t, "810.00", b.VAT.StringFixed(2))
	assert.Equal(t, "10000.00", b.Net.StringFixed(2))

	b, err = vat.FromGross(d("133.45"), vat.V81)
	require.NoError(t, err)
	assert.Equal(t, "10.00", b.VAT.StringFixed(2))
	assert.Equal(t, "123.45", b.Net.StringFixed(2))
}

func TestRoundTrip_NetGrossNet(t *testing.T) {
	tolerance := d("0.05")
	for _, code := range []vat.Code{vat.V81, vat.V26, vat.V38, vat.A81, vat.VEXP} {
		for _, n := range []string{"0", "10000", "123.45", "99.95", "1949.75", "0.05"} {
			t.Run(fmt.Sprintf("%s/%s", code, n), func(t *testing.T) {
				fwd, err := vat.FromNet(d(n), code)
				require.NoError(t, err)
				back, err := vat.FromGross(fwd.Gross, code)
				require.NoError(t, err)
				assert.True(t, back.Net.Sub(d(n)).Abs().LessThanOrEqual(tolerance),
					"net %s came back as %s", n, back.Net)
			})
		}
	}
}
