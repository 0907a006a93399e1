package domain

import "errors"

// Domain errors (no external dependencies).
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict with current state")

	// Payment values (QR-bill, declaration amounts).
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCurrency = errors.New("invalid currency")

	// QR-bill.
	ErrInvalidCreditor   = errors.New("invalid creditor")
	ErrInvalidReference  = errors.New("invalid payment reference")
	ErrMalformedQRString = errors.New("malformed QR-bill string")

	// Form 200.
	ErrInvalidAFCCode     = errors.New("invalid AFC code")
	ErrDeclarationInvalid = errors.New("declaration is not valid for export")

	// Journal entries.
	ErrEntryNotBalanced  = errors.New("entry not balanced")
	ErrInsufficientLines = errors.New("at least 2 lines required")
	ErrInvalidAccount    = errors.New("invalid account")
)
