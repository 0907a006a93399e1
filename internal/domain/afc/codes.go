// Package afc defines the line numbers ("cifre") of the AFC/ESTV Form 200
// VAT declaration (effective method) as a closed enumeration.
package afc

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hypervisual/swiss-compliance/internal/domain"
)

// Code is one Form 200 line. The zero value is not a valid line.
type Code uint8

const (
	CodeUnknown Code = iota
	Cifra200         // Total turnover
	Cifra220         // Exempt supplies (excluded, art. 21)
	Cifra221         // Supplies abroad / exports
	Cifra225         // Transfers under the notification procedure
	Cifra230         // Non-taxable supplies abroad, unpaid consideration
	Cifra235         // Reductions of consideration
	Cifra302         // Taxable turnover, normal rate
	Cifra312         // Taxable turnover, reduced rate
	Cifra342         // Taxable turnover, accommodation rate
	Cifra382         // Acquisition tax
	Cifra399         // Total tax due (calculated)
	Cifra400         // Input tax on materials and services
	Cifra405         // Input tax on investments / mixed use
	Cifra410         // Subsequent input tax relief
	Cifra415         // Input tax corrections (subsidies)
	Cifra420         // Other input tax corrections
	Cifra479         // Total deductible input tax (calculated)
	Cifra500         // Amount payable (calculated)
	Cifra510         // Credit in favour of the taxable person
	Cifra900         // Subsidies and tourist taxes
	Cifra910         // Donations, dividends, damages
	codeCount
)

// Section groups lines as printed on the form.
type Section string

const (
	SectionTurnover Section = "turnover"
	SectionTax      Section = "tax"
	SectionInputTax Section = "input_tax"
	SectionResult   Section = "result"
	SectionOther    Section = "other"
)

// Validator names the amount rule a line accepts.
type Validator string

const (
	ValidatorPositiveAmount Validator = "positive_amount" // rejects negatives
	ValidatorAmount         Validator = "amount"          // any number
)

// Definition is the static description of a line.
type Definition struct {
	Code        Code
	Number      string
	Description string
	Section     Section
	Validator   Validator
	Required    bool
	Calculated  bool
	Rate        decimal.Decimal // nominal VAT rate for tax lines, zero otherwise
}

var (
	rateNormal        = decimal.RequireFromString("0.081")
	rateReduced       = decimal.RequireFromString("0.026")
	rateAccommodation = decimal.RequireFromString("0.038")
)

// Define returns the definition of c. Unknown codes return ok=false.
func Define(c Code) (Definition, bool) {
	d := Definition{Code: c, Validator: ValidatorPositiveAmount}
	switch c {
	case Cifra200:
		d.Number, d.Section, d.Required = "200", SectionTurnover, true
		d.Description = "Total amount of agreed or collected consideration"
	case Cifra220:
		d.Number, d.Section = "220", SectionTurnover
		d.Description = "Supplies exempt from the tax (art. 21)"
	case Cifra221:
		d.Number, d.Section = "221", SectionTurnover
		d.Description = "Supplies provided abroad and exports (art. 23)"
	case Cifra225:
		d.Number, d.Section = "225", SectionTurnover
		d.Description = "Transfers under the notification procedure (art. 38)"
	case Cifra230:
		d.Number, d.Section = "230", SectionTurnover
		d.Description = "Non-taxable supplies and unpaid consideration"
	case Cifra235:
		d.Number, d.Section = "235", SectionTurnover
		d.Description = "Reductions of consideration (discounts, rebates, losses)"
	case Cifra302:
		d.Number, d.Section, d.Rate = "302", SectionTax, rateNormal
		d.Description = "Taxable supplies at the normal rate (8.1%)"
	case Cifra312:
		d.Number, d.Section, d.Rate = "312", SectionTax, rateReduced
		d.Description = "Taxable supplies at the reduced rate (2.6%)"
	case Cifra342:
		d.Number, d.Section, d.Rate = "342", SectionTax, rateAccommodation
		d.Description = "Taxable supplies at the accommodation rate (3.8%)"
	case Cifra382:
		d.Number, d.Section, d.Rate = "382", SectionTax, rateNormal
		d.Description = "Acquisition tax"
	case Cifra399:
		d.Number, d.Section, d.Required, d.Calculated = "399", SectionTax, true, true
		d.Validator = ValidatorAmount
		d.Description = "Total amount of tax due"
	case Cifra400:
		d.Number, d.Section = "400", SectionInputTax
		d.Description = "Input tax on cost of materials and services"
	case Cifra405:
		d.Number, d.Section = "405", SectionInputTax
		d.Description = "Input tax on investments and other operating costs"
	case Cifra410:
		d.Number, d.Section = "410", SectionInputTax
		d.Description = "De-taxation (art. 32)"
	case Cifra415:
		d.Number, d.Section, d.Validator = "415", SectionInputTax, ValidatorAmount
		d.Description = "Correction of input tax: subsidies, tourist taxes"
	case Cifra420:
		d.Number, d.Section = "420", SectionInputTax
		d.Description = "Other corrections of input tax"
	case Cifra479:
		d.Number, d.Section, d.Calculated = "479", SectionResult, true
		d.Validator = ValidatorAmount
		d.Description = "Total deductible input tax"
	case Cifra500:
		d.Number, d.Section, d.Calculated = "500", SectionResult, true
		d.Validator = ValidatorAmount
		d.Description = "Amount payable to the AFC"
	case Cifra510:
		d.Number, d.Section = "510", SectionResult
		d.Description = "Credit in favour of the taxable person"
	case Cifra900:
		d.Number, d.Section = "900", SectionOther
		d.Description = "Subsidies, tourist taxes and similar"
	case Cifra910:
		d.Number, d.Section = "910", SectionOther
		d.Description = "Donations, dividends, compensation for damages"
	default:
		return Definition{}, false
	}
	return d, true
}

// MustDefine is Define for codes known at compile time.
func MustDefine(c Code) Definition {
	d, ok := Define(c)
	if !ok {
		panic(fmt.Sprintf("afc: undefined code %d", c))
	}
	return d
}

// All returns every defined code in form order.
func All() []Code {
	out := make([]Code, 0, codeCount-1)
	for c := Cifra200; c < codeCount; c++ {
		out = append(out, c)
	}
	return out
}

// TurnoverCodes are the lines whose sum makes up cifra200 (before reductions).
func TurnoverCodes() []Code {
	return []Code{Cifra220, Cifra221, Cifra225, Cifra230, Cifra302, Cifra312, Cifra342}
}

// Number returns the printed line number ("302").
func (c Code) Number() string {
	d, ok := Define(c)
	if !ok {
		return ""
	}
	return d.Number
}

// String returns the key used by callers and JSON exports ("cifra302").
func (c Code) String() string {
	if n := c.Number(); n != "" {
		return "cifra" + n
	}
	return fmt.Sprintf("afc.Code(%d)", uint8(c))
}

// Valid reports whether c is a defined line.
func (c Code) Valid() bool {
	_, ok := Define(c)
	return ok
}

// Parse accepts "cifra302", "Cifra302" or "302".
func Parse(s string) (Code, error) {
	n := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "cifra")
	for _, c := range All() {
		if c.Number() == n {
			return c, nil
		}
	}
	return CodeUnknown, fmt.Errorf("%w: %q", domain.ErrInvalidAFCCode, s)
}

// ValidateAmount applies the line's validator.
func (d Definition) ValidateAmount(amount decimal.Decimal) error {
	if d.Validator == ValidatorPositiveAmount && amount.IsNegative() {
		return fmt.Errorf("%w: %s requires a positive amount, got %s",
			domain.ErrInvalidAmount, d.Code, amount.StringFixed(2))
	}
	return nil
}
