package swiss

import (
	"fmt"
	"strings"
)

// Weights of the UID check digit (eCH-0097), applied to the first 8 digits.
var uidWeights = [8]int{5, 4, 3, 2, 7, 6, 5, 4}

// VAT register suffixes accepted after a UID ("CHE-123.456.788 MWST").
var vatSuffixes = []string{"MWST", "TVA", "IVA", "VAT"}

// ValidateUID checks a Swiss business identifier: "CHE" prefix, 9 digits and a
// valid mod-11 check digit. Dots, dashes, spaces and a trailing VAT suffix
// are tolerated: "CHE-123.456.788", "CHE123456788 MWST".
func ValidateUID(uid string) error {
	s := strings.ToUpper(strings.TrimSpace(uid))
	for _, suffix := range vatSuffixes {
		s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
	}
	if !strings.HasPrefix(s, "CHE") {
		return fmt.Errorf("swiss: UID %q must start with CHE: %w", uid, ErrInvalidFormat)
	}
	digits := onlyDigits(s)
	if len(digits) != 9 {
		return fmt.Errorf("swiss: UID %q must have 9 digits, found %d: %w", uid, len(digits), ErrInvalidFormat)
	}
	expected, err := ComputeUIDCheckDigit(digits[:8])
	if err != nil {
		return err
	}
	if int(digits[8]-'0') != expected {
		return fmt.Errorf("swiss: UID %q check digit: expected %d, got %c: %w", uid, expected, digits[8], ErrChecksumMismatch)
	}
	return nil
}

// ComputeUIDCheckDigit returns the check digit for the first 8 UID digits.
// A result of 10 is never assigned by the register and is reported as an error.
func ComputeUIDCheckDigit(base string) (int, error) {
	digits := onlyDigits(base)
	if len(digits) != 8 {
		return 0, fmt.Errorf("swiss: UID base needs 8 digits, found %d: %w", len(digits), ErrInvalidFormat)
	}
	var sum int
	for i := range digits {
		sum += int(digits[i]-'0') * uidWeights[i]
	}
	check := 11 - sum%11
	switch check {
	case 11:
		return 0, nil
	case 10:
		return 0, fmt.Errorf("swiss: UID base %s has no valid check digit: %w", digits, ErrInvalidFormat)
	}
	return check, nil
}

// FormatUID renders 9 digits as "CHE-123.456.788".
func FormatUID(uid string) string {
	digits := onlyDigits(uid)
	if len(digits) != 9 {
		return uid
	}
	return "CHE-" + digits[0:3] + "." + digits[3:6] + "." + digits[6:9]
}
