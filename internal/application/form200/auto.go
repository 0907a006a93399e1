package form200

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hypervisual/swiss-compliance/internal/domain/accounting"
	"github.com/hypervisual/swiss-compliance/internal/domain/entity"
)

// rateInferenceTolerance is the accepted gap between the VAT/revenue ratio
// of an entry and a nominal rate.
var rateInferenceTolerance = decimal.RequireFromString("0.001")

// AutoGenerator derives a declaration from validated journal entries.
type AutoGenerator struct {
	opts []Option
}

// NewAutoGenerator returns an AutoGenerator passing opts to every Generator.
func NewAutoGenerator(opts ...Option) *AutoGenerator {
	return &AutoGenerator{opts: opts}
}

// FromAccountingEntries books every validated entry dated in [start, end]
// and calculates the declaration:
//
//   - class 3 lines with a net credit are revenue; the rate is inferred from
//     the entry's 2200 line (2.6% or 3.8% within 0.001, else normal), and
//     entries without output VAT resolve through the revenue account table,
//     unmapped accounts at the normal rate;
//   - 1170 lines with a net debit are input tax (cifra400), 1171 lines are
//     input tax on investments (cifra405);
//   - class 4 lines are skipped, their VAT arrives through 1170.
//
// An entry carrying several revenue rates is attributed to a single rate.
func (a *AutoGenerator) FromAccountingEntries(
	company entity.Company,
	entries []*entity.JournalEntry,
	start, end time.Time,
	declType DeclarationType,
) (*Generator, Report, error) {
	opts := append(append([]Option(nil), a.opts...), WithDeclarationType(declType))
	g, err := NewGenerator(company, start, end, opts...)
	if err != nil {
		return nil, Report{}, err
	}

	booked := 0
	for _, e := range entries {
		if e == nil || !e.IsValidated() || !accounting.InPeriod(e.Date, start, end) {
			continue
		}
		if err := g.bookEntry(e); err != nil {
			return nil, Report{}, err
		}
		booked++
	}
	g.log.Info().Int("entries", booked).Int("skipped", len(entries)-booked).Msg("journal entries booked")

	return g, g.Calculate(), nil
}

func (g *Generator) bookEntry(e *entity.JournalEntry) error {
	outputVAT := decimal.Zero
	for _, l := range e.Lines {
		if l.Account == accounting.AccountOutputVAT {
			outputVAT = outputVAT.Add(l.Credit.Sub(l.Debit))
		}
	}

	for _, l := range e.Lines {
		desc := lineDescription(e, l)
		switch {
		case strings.HasPrefix(l.Account, "3"):
			net := l.Credit.Sub(l.Debit)
			if !net.IsPositive() {
				continue
			}
			if _, err := g.AddRevenue(net, inferRate(outputVAT, net, l.Account), desc, l.Account); err != nil {
				return err
			}
		case l.Account == accounting.AccountInputVAT:
			if net := l.Debit.Sub(l.Credit); net.IsPositive() {
				if _, err := g.AddInputVAT(net, desc, CorrectionNone); err != nil {
					return err
				}
			}
		case l.Account == accounting.AccountInputVATInvest:
			if net := l.Debit.Sub(l.Credit); net.IsPositive() {
				if _, err := g.AddInputVAT(net, desc, CorrectionMixedUse); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// inferRate returns the rate type of a revenue line from the entry's
// output VAT: reduced or accommodation within the tolerance, else normal.
// Without output VAT a mapped revenue account decides (3900 exports), so
// the rate is left empty for it.
func inferRate(outputVAT, revenue decimal.Decimal, account string) string {
	if !outputVAT.IsPositive() {
		if _, mapped := revenueAccounts[account]; mapped {
			return ""
		}
		return "normal"
	}
	ratio := outputVAT.Div(revenue)
	switch {
	case ratio.Sub(rateReduced).Abs().LessThanOrEqual(rateInferenceTolerance):
		return "reduced"
	case ratio.Sub(rateAccommodation).Abs().LessThanOrEqual(rateInferenceTolerance):
		return "accommodation"
	}
	return "normal"
}

func lineDescription(e *entity.JournalEntry, l entity.JournalLine) string {
	label := l.Label
	if label == "" {
		label = e.Description
	}
	if e.Number == "" {
		return label
	}
	return e.Number + " " + label
}
