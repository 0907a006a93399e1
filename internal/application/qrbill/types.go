// Package qrbill builds and parses the payload of the Swiss QR-bill
// (SIX Implementation Guidelines QR-bill v2.3).
//
// The payload is a newline-separated list of exactly 31 fields:
//
//	 0 QRType "SPC"          17 amount
//	 1 version "0200"        18 currency
//	 2 coding "1"            19-25 debtor (7 fields)
//	 3 IBAN                  26 reference type
//	 4-10 creditor           27 reference
//	11-16 ultimate creditor  28 unstructured message
//	      (reserved, empty)  29 trailer "EPD"
//	                         30 bill information
package qrbill

import (
	"github.com/shopspring/decimal"

	"github.com/hypervisual/swiss-compliance/internal/domain/entity"
)

// Fixed header and trailer values.
const (
	QRType     = "SPC"
	Version    = "0200"
	CodingType = "1"
	Trailer    = "EPD"

	// FieldCount is the number of fields of a v2 payload.
	FieldCount = 31
)

// Field positions inside the payload.
const (
	fieldIBAN             = 3
	fieldCreditor         = 4
	fieldUltimateCreditor = 11
	fieldAmount           = 17
	fieldCurrency         = 18
	fieldDebtor           = 19
	fieldReferenceType    = 26
	fieldReference        = 27
	fieldMessage          = 28
	fieldTrailer          = 29
	fieldBillInformation  = 30

	partyFields            = 7
	ultimateCreditorFields = fieldAmount - fieldUltimateCreditor
)

// Field length limits (characters).
const (
	MaxNameLength        = 70
	MaxStreetLength      = 70
	MaxHouseNumberLength = 16
	MaxPostalCodeLength  = 16
	MaxCityLength        = 35
	MaxAddressLineLength = 70 // both lines of a combined (K) address
	MaxMessageLength     = 140
)

var maxAmount = decimal.RequireFromString("999999999.99")

// MaxAmount returns the largest amount a QR-bill may carry.
func MaxAmount() decimal.Decimal { return maxAmount }

// Currencies accepted on a QR-bill.
const (
	CurrencyCHF = "CHF"
	CurrencyEUR = "EUR"
)

// ReferenceType selects the payment reference scheme.
type ReferenceType string

const (
	ReferenceQRR  ReferenceType = "QRR"  // 27-digit QR reference, requires a QR-IBAN
	ReferenceSCOR ReferenceType = "SCOR" // ISO 11649 creditor reference
	ReferenceNone ReferenceType = "NON"
)

// Valid reports whether t is one of the three schemes.
func (t ReferenceType) Valid() bool {
	switch t {
	case ReferenceQRR, ReferenceSCOR, ReferenceNone:
		return true
	}
	return false
}

// InvoiceData is what a caller supplies for one bill. A nil Amount leaves
// the amount open (donations). An empty ReferenceType is inferred from the
// IBAN and the reference.
type InvoiceData struct {
	Amount          *decimal.Decimal
	Currency        string
	Debtor          *entity.Party
	ReferenceType   ReferenceType
	Reference       string
	Message         string
	BillInformation string
}

// Header holds the three leading fields.
type Header struct {
	QRType  string
	Version string
	Coding  string
}

// Payment is the amount block. Amount is nil when left open.
type Payment struct {
	Amount   *decimal.Decimal
	Currency string
}

// Reference is the reference block.
type Reference struct {
	Type  ReferenceType
	Value string
}

// AdditionalInfo holds the free-text fields.
type AdditionalInfo struct {
	Message         string
	BillInformation string
}

// Payload is the structured form of a QR-bill string.
type Payload struct {
	Header         Header
	Creditor       entity.Party
	Payment        Payment
	Debtor         *entity.Party
	Reference      Reference
	AdditionalInfo AdditionalInfo
}

// ValidationResult is the outcome of ValidateInvoice.
type ValidationResult struct {
	IsValid  bool
	Errors   []string
	Warnings []string
}
