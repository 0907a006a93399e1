package swiss

import (
	"fmt"
	"regexp"
	"strings"
)

// ISO 11649 creditor reference (SCOR): "RF" + 2 check digits + 1..21 alphanumerics.
var (
	creditorReferencePattern = regexp.MustCompile(`^RF\d{2}[A-Z0-9]{1,21}$`)
	creditorPayloadPattern   = regexp.MustCompile(`^[A-Z0-9]{1,21}$`)
)

// NormalizeCreditorReference strips spaces and upper-cases the reference.
func NormalizeCreditorReference(ref string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(ref), " ", ""))
}

// ValidateCreditorReference applies the same MOD 97-10 rule as the IBAN:
// "RFxx" is moved to the end and the remainder must be 1.
func ValidateCreditorReference(ref string) error {
	normalized := NormalizeCreditorReference(ref)
	if !creditorReferencePattern.MatchString(normalized) {
		return &InvalidReferenceError{Reference: ref, Err: ErrInvalidFormat}
	}
	if mod97(normalized[4:]+normalized[:4]) != 1 {
		return &InvalidReferenceError{Reference: ref, Err: ErrChecksumMismatch}
	}
	return nil
}

// CreditorReferenceFromNumber builds "RFxx<payload>" from an alphanumeric payload.
func CreditorReferenceFromNumber(payload string) (string, error) {
	p := NormalizeCreditorReference(payload)
	if !creditorPayloadPattern.MatchString(p) {
		return "", fmt.Errorf("swiss: creditor reference payload %q: %w", payload, ErrInvalidFormat)
	}
	check := 98 - mod97(p+"RF00")
	return fmt.Sprintf("RF%02d%s", check, p), nil
}
