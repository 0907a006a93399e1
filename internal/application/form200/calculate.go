package form200

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hypervisual/swiss-compliance/internal/domain/afc"
	"github.com/hypervisual/swiss-compliance/internal/domain/vat"
)

// reconciliationTolerance is the accepted gap between cifra200 and the sum
// of its turnover lines.
var reconciliationTolerance = decimal.RequireFromString("0.05")

// Calculate overwrites the derived lines and validates the declaration:
//
//	399 = 302×8.1% + 312×2.6% + 342×3.8% + 382×8.1%
//	479 = 400 + 405 + 410 − 415 + 420
//	500 = 399 − 479 − 510
//
// each rounded to 5 centimes. Calling it again without changes yields the
// same figures.
func (g *Generator) Calculate() Report {
	taxDue := decimal.Zero
	for _, c := range []afc.Code{afc.Cifra302, afc.Cifra312, afc.Cifra342, afc.Cifra382} {
		taxDue = taxDue.Add(g.Amount(c).Mul(afc.MustDefine(c).Rate))
	}
	taxDue = vat.RoundCHF(taxDue)

	inputTax := vat.RoundCHF(g.Amount(afc.Cifra400).
		Add(g.Amount(afc.Cifra405)).
		Add(g.Amount(afc.Cifra410)).
		Sub(g.Amount(afc.Cifra415)).
		Add(g.Amount(afc.Cifra420)))

	final := vat.RoundCHF(taxDue.Sub(inputTax).Sub(g.Amount(afc.Cifra510)))

	g.setCalculated(afc.Cifra399, taxDue)
	g.setCalculated(afc.Cifra479, inputTax)
	g.setCalculated(afc.Cifra500, final)

	g.report = g.validate()
	g.state = StateCalculated
	g.calcedAt = g.now()

	ev := g.log.Info()
	if !g.report.IsValid {
		ev = g.log.Warn().Strs("errors", g.report.Errors)
	}
	ev.Str("tax_due", taxDue.StringFixed(2)).
		Str("input_tax", inputTax.StringFixed(2)).
		Str("final", final.StringFixed(2)).
		Int("warnings", len(g.report.Warnings)).
		Msg("declaration calculated")

	return g.report
}

func (g *Generator) setCalculated(c afc.Code, amount decimal.Decimal) {
	g.entries[c] = &Entry{Code: c, Description: afc.MustDefine(c).Description, Amount: amount}
}

func (g *Generator) validate() Report {
	r := Report{Warnings: append([]string(nil), g.notes...)}

	expected := decimal.Zero
	for _, c := range afc.TurnoverCodes() {
		expected = expected.Add(g.Amount(c))
	}
	expected = expected.Sub(g.Amount(afc.Cifra235))
	declared := g.Amount(afc.Cifra200)
	if expected.Sub(declared).Abs().GreaterThan(reconciliationTolerance) {
		r.Warnings = append(r.Warnings, fmt.Sprintf(
			"cifra200 (%s) differs from the sum of turnover lines less deductions (%s)",
			declared.StringFixed(2), expected.StringFixed(2)))
	}

	for _, c := range afc.All() {
		def := afc.MustDefine(c)
		amt := g.Amount(c)
		if def.Validator == afc.ValidatorPositiveAmount && amt.IsNegative() {
			r.Errors = append(r.Errors, fmt.Sprintf("%s: negative amount %s not allowed", c, amt.StringFixed(2)))
		}
		if def.Required && amt.IsZero() {
			r.Warnings = append(r.Warnings, fmt.Sprintf("%s (%s) is zero", c, def.Description))
		}
	}

	r.IsValid = len(r.Errors) == 0
	r.Summary = g.summary()
	return r
}

func (g *Generator) summary() Summary {
	final := g.Amount(afc.Cifra500)
	return Summary{
		TotalTurnover: g.Amount(afc.Cifra200),
		TotalTaxDue:   g.Amount(afc.Cifra399),
		TotalInputTax: g.Amount(afc.Cifra479),
		FinalAmount:   final,
		IsDue:         final.IsPositive(),
	}
}

// ValidationReport returns the report of the latest Calculate. Before any
// Calculate, or after a later mutation, the report is not valid.
func (g *Generator) ValidationReport() Report {
	switch g.state {
	case StateCalculated, StateExported:
		return g.report
	}
	return Report{
		IsValid:  false,
		Errors:   []string{"declaration has not been calculated since its last change"},
		Warnings: append([]string(nil), g.notes...),
		Summary:  g.summary(),
	}
}
