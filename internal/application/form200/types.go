// Package form200 builds the AFC Form 200 VAT declaration (effective
// method) for one company and one period:
//
//	Empty ──Add*──▶ Populated ──Calculate──▶ Calculated ──Export*──▶ Exported
//	                    ▲                         │
//	                    └──────────Add*───────────┘
//
// Exports need the latest Calculate to have produced no errors.
package form200

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hypervisual/swiss-compliance/internal/domain/afc"
)

// State of a Generator.
type State string

const (
	StateEmpty      State = "empty"
	StatePopulated  State = "populated"
	StateCalculated State = "calculated"
	StateExported   State = "exported"
)

// DeclarationType is the reporting rhythm agreed with the AFC.
type DeclarationType string

const (
	Quarterly  DeclarationType = "quarterly"
	Semiannual DeclarationType = "semiannual"
	Monthly    DeclarationType = "monthly"
	Annual     DeclarationType = "annual"
)

// Valid reports whether t is a known declaration type.
func (t DeclarationType) Valid() bool {
	switch t {
	case Quarterly, Semiannual, Monthly, Annual:
		return true
	}
	return false
}

// CorrectionType redirects input tax to a correction line.
type CorrectionType string

const (
	CorrectionNone             CorrectionType = ""
	CorrectionMixedUse         CorrectionType = "mixed_use"
	CorrectionSubsequentRelief CorrectionType = "subsequent_relief"
	CorrectionSubsidyReduction CorrectionType = "subsidy_reduction"
	CorrectionOther            CorrectionType = "other_correction"
)

// ExemptType selects the turnover line of a non-taxed supply.
type ExemptType string

const (
	ExemptExcluded ExemptType = "excluded"
	ExemptExport   ExemptType = "export"
	ExemptTransfer ExemptType = "transfer"
	ExemptUnpaid   ExemptType = "unpaid"
)

// Detail records one accumulation into an entry.
type Detail struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
}

// Entry is the running total of one Form 200 line.
type Entry struct {
	Code        afc.Code
	Description string
	Amount      decimal.Decimal
	Details     []Detail
}

// Summary condenses the declaration into the figures shown to the user.
type Summary struct {
	TotalTurnover decimal.Decimal
	TotalTaxDue   decimal.Decimal
	TotalInputTax decimal.Decimal
	FinalAmount   decimal.Decimal
	IsDue         bool
}

// Report is the outcome of a validation run. Warnings never block exports.
type Report struct {
	IsValid  bool
	Errors   []string
	Warnings []string
	Summary  Summary
}
