// Package ech0217 serialises VAT declarations to the eCH-0217 XML layout,
// reads them back, computes canonical digests and packages them for
// transmission.
package ech0217

import (
	"time"

	"github.com/shopspring/decimal"
)

// Namespace is the eCH-0217 v2 default namespace.
const Namespace = "http://www.ech.ch/xmlns/eCH-0217/2"

// Declaration is the document written by XMLBuilderService.Build.
type Declaration struct {
	Header  Header
	Entries []Entry
	Summary Summary
}

// Header identifies the taxable person and the period.
type Header struct {
	CompanyName     string
	UID             string
	VATNumber       string
	PeriodStart     time.Time
	PeriodEnd       time.Time
	DeclarationType string
	GeneratedAt     time.Time
}

// Entry is one Form 200 line; Code is the printed number ("302").
type Entry struct {
	Code        string
	Amount      decimal.Decimal
	Description string
}

// Summary carries the four totals and whether a payment is due.
type Summary struct {
	TotalTurnover decimal.Decimal
	TotalTaxDue   decimal.Decimal
	TotalInputTax decimal.Decimal
	FinalAmount   decimal.Decimal
	PaymentDue    bool
}

const dateLayout = "2006-01-02"
