package swiss

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// QR reference (QRR): 26 payload digits + 1 recursive Mod-10 check digit.
const (
	QRReferenceLength     = 27
	qrReferenceBaseLength = QRReferenceLength - 1
)

// Transposition table of the recursive Mod-10 algorithm (SIX IG QR-bill, annex B).
var mod10Table = [10]int{0, 9, 4, 6, 8, 2, 7, 1, 3, 5}

// Mod10Recursive computes the check digit of a digit string:
// carry = table[(carry + digit) % 10] for each digit, result (10 - carry) % 10.
func Mod10Recursive(digits string) (int, error) {
	carry := 0
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("swiss: non-digit %q in %q: %w", r, digits, ErrInvalidFormat)
		}
		carry = mod10Table[(carry+int(r-'0'))%10]
	}
	return (10 - carry) % 10, nil
}

// ValidateQRReference checks length, digits and the check digit of a QRR reference.
// Spaces are ignored so formatted references are accepted.
func ValidateQRReference(ref string) error {
	normalized := strings.ReplaceAll(strings.TrimSpace(ref), " ", "")
	if len(normalized) != QRReferenceLength {
		return &InvalidReferenceError{Reference: ref, Err: ErrInvalidFormat}
	}
	check, err := Mod10Recursive(normalized[:qrReferenceBaseLength])
	if err != nil {
		return &InvalidReferenceError{Reference: ref, Err: ErrInvalidFormat}
	}
	last := normalized[qrReferenceBaseLength]
	if last < '0' || last > '9' {
		return &InvalidReferenceError{Reference: ref, Err: ErrInvalidFormat}
	}
	if int(last-'0') != check {
		return &InvalidReferenceError{Reference: ref, Err: ErrChecksumMismatch}
	}
	return nil
}

// IsValidQRReference is the boolean form of ValidateQRReference.
func IsValidQRReference(ref string) bool {
	return ValidateQRReference(ref) == nil
}

// GenerateQRReference builds a fresh 27-digit reference from the current
// time in milliseconds followed by random digits, left-padded to 26 digits.
func GenerateQRReference() string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(time.Now().UnixMilli(), 10))
	for b.Len() < qrReferenceBaseLength-5 {
		b.WriteByte(byte('0' + rand.IntN(10)))
	}
	ref, _ := completeQRReference(leftPad(b.String(), qrReferenceBaseLength))
	return ref
}

// QRReferenceFromNumber derives a reference from the digits of a business
// number (e.g. invoice "INV-2025-0042" → ...000020250042 + check digit).
func QRReferenceFromNumber(number string) (string, error) {
	digits := onlyDigits(number)
	if digits == "" || len(digits) > qrReferenceBaseLength {
		return "", fmt.Errorf("swiss: number %q must contain 1 to %d digits: %w",
			number, qrReferenceBaseLength, ErrInvalidFormat)
	}
	return completeQRReference(leftPad(digits, qrReferenceBaseLength))
}

func completeQRReference(base string) (string, error) {
	check, err := Mod10Recursive(base)
	if err != nil {
		return "", err
	}
	return base + strconv.Itoa(check), nil
}

func leftPad(s string, n int) string {
	if len(s) >= n {
		return s[len(s)-n:]
	}
	return strings.Repeat("0", n-len(s)) + s
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
