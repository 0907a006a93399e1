package swiss

import (
	"regexp"
	"strconv"
	"strings"
)

// Only Swiss and Liechtenstein IBANs are accepted on a QR-bill:
// country code + 2 check digits + 5-digit IID + 12-digit account.
var ibanPattern = regexp.MustCompile(`^(CH|LI)\d{19}$`)

// IID range reserved for QR-IBANs (SIX IG QR-bill, 3.1).
const (
	qrIIDMin = 30000
	qrIIDMax = 31999
)

// NormalizeIBAN removes spaces and upper-cases the IBAN.
func NormalizeIBAN(iban string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(iban), " ", ""))
}

// ValidateIBAN checks the CH/LI format and the ISO 7064 MOD 97-10 checksum.
// The first four characters are moved to the end, letters become two-digit
// numbers (A=10 … Z=35) and the result must leave a remainder of 1.
func ValidateIBAN(iban string) error {
	normalized := NormalizeIBAN(iban)
	if !ibanPattern.MatchString(normalized) {
		return &InvalidIBANError{IBAN: iban, Err: ErrInvalidFormat}
	}
	if mod97(normalized[4:]+normalized[:4]) != 1 {
		return &InvalidIBANError{IBAN: iban, Err: ErrChecksumMismatch}
	}
	return nil
}

// IsValidIBAN is the boolean form of ValidateIBAN.
func IsValidIBAN(iban string) bool {
	return ValidateIBAN(iban) == nil
}

// IsQRIBAN reports whether a valid IBAN carries a QR-IID (30000-31999).
// QR-IBANs may only be used together with a QR reference.
func IsQRIBAN(iban string) bool {
	if ValidateIBAN(iban) != nil {
		return false
	}
	iid, err := strconv.Atoi(NormalizeIBAN(iban)[4:9])
	if err != nil {
		return false
	}
	return iid >= qrIIDMin && iid <= qrIIDMax
}

// mod97 folds the decimal expansion of s digit by digit. Letters expand to
// two digits, so they are folded as a single step of *100.
// Callers must pass only [0-9A-Z].
func mod97(s string) int {
	rem := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			rem = (rem*10 + int(r-'0')) % 97
		case r >= 'A' && r <= 'Z':
			rem = (rem*100 + int(r-'A') + 10) % 97
		}
	}
	return rem
}
