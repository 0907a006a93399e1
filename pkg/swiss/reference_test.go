package swiss_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hypervisual/swiss-compliance/pkg/swiss"
)

// SIX sample reference: 26 payload digits + check digit 7.
const testQRReference = "210000000003139471430009017"

// ──────────────────────────────────────────────────────────────────────────────
// Mod10Recursive
// ──────────────────────────────────────────────────────────────────────────────

func TestMod10Recursive_KnownVectors(t *testing.T) {
	cases := map[string]int{
		"21000000000313947143000901": 7,
		"00000000000000000000001234": 7,
		"00000000000000000000000000": 0,
	}
	for base, want := range cases {
		got, err := swiss.Mod10Recursive(base)
		require.NoError(t, err)
		assert.Equal(t, want, got, base)
	}
}

func TestMod10Recursive_RejectsNonDigits(t *testing.T) {
	_, err := swiss.Mod10Recursive("12A4")
	assert.ErrorIs(t, err, swiss.ErrInvalidFormat)
}

// TestQRReference_RoundTrip: for many 26-digit bases the check digit is in
// [0,9], base+check validates, and every other last digit is rejected.
func TestQRReference_RoundTrip(t *testing.T) {
	for i := 0; i < 500; i++ {
		base := fmt.Sprintf("%026d", uint64(i)*7919*104729+uint64(i))
		check, err := swiss.Mod10Recursive(base)
		require.NoError(t, err)
		require.GreaterOrEqual(t, check, 0)
		require.LessOrEqual(t, check, 9)

		ref := base + fmt.Sprint(check)
		assert.NoError(t, swiss.ValidateQRReference(ref))

		for d := 0; d <= 9; d++ {
			if d == check {
				continue
			}
			err := swiss.ValidateQRReference(base + fmt.Sprint(d))
			assert.ErrorIs(t, err, swiss.ErrChecksumMismatch, "base %s digit %d", base, d)
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidateQRReference
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateQRReference(t *testing.T) {
	assert.NoError(t, swiss.ValidateQRReference(testQRReference))
	assert.NoError(t, swiss.ValidateQRReference("21 00000 00003 13947 14300 09017"), "formatted input is accepted")

	err := swiss.ValidateQRReference("21000000000313947143000901")
	assert.ErrorIs(t, err, swiss.ErrInvalidFormat, "26 digits is too short")

	err = swiss.ValidateQRReference("2100000000031394714300090A7")
	assert.ErrorIs(t, err, swiss.ErrInvalidFormat)

	err = swiss.ValidateQRReference("210000000003139471430009018")
	assert.ErrorIs(t, err, swiss.ErrChecksumMismatch)
}

func TestGenerateQRReference_AlwaysValid(t *testing.T) {
	for i := 0; i < 50; i++ {
		ref := swiss.GenerateQRReference()
		assert.Len(t, ref, swiss.QRReferenceLength)
		assert.True(t, swiss.IsValidQRReference(ref), ref)
	}
}

func TestQRReferenceFromNumber(t *testing.T) {
	ref, err := swiss.QRReferenceFromNumber("INV-1234")
	require.NoError(t, err)
	assert.Equal(t, "000000000000000000000012347", ref)

	_, err = swiss.QRReferenceFromNumber("no digits")
	assert.ErrorIs(t, err, swiss.ErrInvalidFormat)

	_, err = swiss.QRReferenceFromNumber(strings.Repeat("1", 27))
	assert.ErrorIs(t, err, swiss.ErrInvalidFormat)
}

func TestFormatQRReference(t *testing.T) {
	assert.Equal(t, "21 00000 00003 13947 14300 09017", swiss.FormatQRReference(testQRReference))
	assert.Equal(t, "RF18 5390 0754 7034", swiss.FormatQRReference("RF18539007547034"))
	assert.Equal(t, "123", swiss.FormatQRReference("123"), "unknown shapes are returned as-is")
}

// ──────────────────────────────────────────────────────────────────────────────
// Creditor reference (ISO 11649)
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateCreditorReference(t *testing.T) {
	assert.NoError(t, swiss.ValidateCreditorReference("RF18539007547034"))
	assert.NoError(t, swiss.ValidateCreditorReference("rf18 5390 0754 7034"))
	assert.ErrorIs(t, swiss.ValidateCreditorReference("RF19539007547034"), swiss.ErrChecksumMismatch)
	assert.ErrorIs(t, swiss.ValidateCreditorReference("XX18539007547034"), swiss.ErrInvalidFormat)
}

func TestCreditorReferenceFromNumber(t *testing.T) {
	ref, err := swiss.CreditorReferenceFromNumber("539007547034")
	require.NoError(t, err)
	assert.Equal(t, "RF18539007547034", ref)
	assert.NoError(t, swiss.ValidateCreditorReference(ref))

	for _, payload := range []string{"", "INV-42", strings.Repeat("1", 22)} {
		_, err := swiss.CreditorReferenceFromNumber(payload)
		assert.ErrorIs(t, err, swiss.ErrInvalidFormat, payload)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// UID
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateUID(t *testing.T) {
	for _, uid := range []string{"CHE-123.456.788", "CHE123456788", "CHE-123.456.788 MWST", "che-109.590.258 TVA"} {
		assert.NoError(t, swiss.ValidateUID(uid), uid)
	}
	assert.ErrorIs(t, swiss.ValidateUID("CHE-123.456.789"), swiss.ErrChecksumMismatch)
	assert.ErrorIs(t, swiss.ValidateUID("123.456.788"), swiss.ErrInvalidFormat)
	assert.ErrorIs(t, swiss.ValidateUID("CHE-123.456"), swiss.ErrInvalidFormat)
}

func TestComputeUIDCheckDigit(t *testing.T) {
	d, err := swiss.ComputeUIDCheckDigit("11628171")
	require.NoError(t, err)
	assert.Equal(t, 0, d, "remainder 0 maps to check digit 0")
	assert.Equal(t, "CHE-116.281.710", swiss.FormatUID("116281710"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Amounts
// ──────────────────────────────────────────────────────────────────────────────

func TestFormatAmount(t *testing.T) {
	cases := map[string]string{
		"1949.75":   "1'949.75",
		"0":         "0.00",
		"999":       "999.00",
		"1000":      "1'000.00",
		"-12500":    "-12'500.00",
		"1234567.8": "1'234'567.80",
	}
	for in, want := range cases {
		assert.Equal(t, want, swiss.FormatAmount(decimal.RequireFromString(in)), in)
	}
	assert.Equal(t, "8.1%", swiss.FormatPercent(decimal.RequireFromString("8.1")))
}
