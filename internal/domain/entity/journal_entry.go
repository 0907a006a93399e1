package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Journal entry states. A validated entry is immutable.
const (
	EntryStatusDraft     = "draft"
	EntryStatusValidated = "validated"
)

// JournalEntry is a dated double-entry booking.
type JournalEntry struct {
	ID          string
	Number      string // JE-2025-0001
	Date        time.Time
	Description string
	Lines       []JournalLine
	Status      string
	CreatedAt   time.Time
	ValidatedAt *time.Time
}

// JournalLine is one debit or credit movement on a chart-of-accounts code.
// Only the entry-level balance is enforced; a line may carry both sides.
type JournalLine struct {
	Account string
	Label   string
	Debit   decimal.Decimal
	Credit  decimal.Decimal
}

// IsValidated reports whether the entry has been validated.
func (e *JournalEntry) IsValidated() bool {
	return e.Status == EntryStatusValidated
}

// Totals returns the debit and credit sums of the entry.
func (e *JournalEntry) Totals() (debit, credit decimal.Decimal) {
	for _, l := range e.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// Clone returns a deep copy so callers cannot mutate stored lines.
func (e *JournalEntry) Clone() *JournalEntry {
	c := *e
	c.Lines = append([]JournalLine(nil), e.Lines...)
	if e.ValidatedAt != nil {
		t := *e.ValidatedAt
		c.ValidatedAt = &t
	}
	return &c
}
