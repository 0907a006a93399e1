// Package swiss contains the checksum and formatting rules of the Swiss
// payment infrastructure: IBAN MOD-97 (ISO 13616 / ISO 7064), QR reference
// recursive Mod-10 (SIX QR-bill v2.3), ISO 11649 creditor references and the
// CHE business identifier (UID).
package swiss

import (
	"errors"
	"fmt"
)

// Error kinds shared by every validator in this package.
var (
	ErrInvalidFormat    = errors.New("invalid format")
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// InvalidIBANError carries the IBAN exactly as the caller supplied it.
type InvalidIBANError struct {
	IBAN string
	Err  error // ErrInvalidFormat or ErrChecksumMismatch
}

func (e *InvalidIBANError) Error() string {
	return fmt.Sprintf("swiss: invalid IBAN %q: %v", e.IBAN, e.Err)
}

func (e *InvalidIBANError) Unwrap() error { return e.Err }

// InvalidReferenceError is returned for QR (QRR) and creditor (SCOR) references.
type InvalidReferenceError struct {
	Reference string
	Err       error
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("swiss: invalid reference %q: %v", e.Reference, e.Err)
}

func (e *InvalidReferenceError) Unwrap() error { return e.Err }
