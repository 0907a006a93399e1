package accounting

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hypervisual/swiss-compliance/internal/domain"
	"github.com/hypervisual/swiss-compliance/internal/domain/entity"
)

// balanceTolerance is the largest accepted gap between debits and credits.
var balanceTolerance = decimal.RequireFromString("0.01")

// Result lists every violation found in an entry.
type Result struct {
	IsValid bool
	Errors  []string

	errs []error
}

// Err returns the violations joined with their sentinel errors, or nil.
func (r Result) Err() error {
	if r.IsValid {
		return nil
	}
	return errors.Join(r.errs...)
}

// ValidateEntry checks the balance, the minimum line count and that every
// account exists in chart. All rules run; nothing stops at the first failure.
func ValidateEntry(entry *entity.JournalEntry, chart *Chart) Result {
	var r Result
	add := func(err error) {
		r.errs = append(r.errs, err)
		r.Errors = append(r.Errors, err.Error())
	}

	var lines []entity.JournalLine
	if entry != nil {
		lines = entry.Lines
	}

	var debit, credit decimal.Decimal
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	if debit.Sub(credit).Abs().GreaterThan(balanceTolerance) {
		add(domain.ErrEntryNotBalanced)
	}
	if len(lines) < 2 {
		add(domain.ErrInsufficientLines)
	}
	if chart == nil {
		chart = DefaultChart()
	}
	for i, l := range lines {
		if !chart.Has(l.Account) {
			add(fmt.Errorf("line %d: %w %s", i+1, domain.ErrInvalidAccount, l.Account))
		}
	}

	r.IsValid = len(r.errs) == 0
	return r
}
