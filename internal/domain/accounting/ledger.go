package accounting

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hypervisual/swiss-compliance/internal/domain"
	"github.com/hypervisual/swiss-compliance/internal/domain/entity"
)

// Ledger is an in-memory journal owned by one caller (one company, one
// request or batch). It is not safe for concurrent use.
type Ledger struct {
	chart   *Chart
	order   []string
	entries map[string]*entity.JournalEntry
	seq     map[int]int
	now     func() time.Time
	log     zerolog.Logger
}

// LedgerOption customises a Ledger.
type LedgerOption func(*Ledger)

// WithClock overrides time.Now for CreatedAt/ValidatedAt stamps.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) { l.now = now }
}

// WithLedgerLogger attaches a logger.
func WithLedgerLogger(log zerolog.Logger) LedgerOption {
	return func(l *Ledger) { l.log = log }
}

// NewLedger creates an empty ledger validating against chart (DefaultChart when nil).
func NewLedger(chart *Chart, opts ...LedgerOption) *Ledger {
	if chart == nil {
		chart = DefaultChart()
	}
	l := &Ledger{
		chart:   chart,
		entries: make(map[string]*entity.JournalEntry),
		seq:     make(map[int]int),
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Chart returns the chart the ledger validates against.
func (l *Ledger) Chart() *Chart { return l.chart }

// Post stores entry as a draft, assigning an ID and a per-year sequential
// number (JE-2025-0001). The stored copy is returned.
func (l *Ledger) Post(entry *entity.JournalEntry) (*entity.JournalEntry, error) {
	if entry == nil {
		return nil, fmt.Errorf("%w: nil journal entry", domain.ErrInvalidInput)
	}
	if entry.Date.IsZero() {
		return nil, fmt.Errorf("%w: journal entry without date", domain.ErrInvalidInput)
	}

	stored := entry.Clone()
	stored.ID = uuid.NewString()
	year := stored.Date.Year()
	l.seq[year]++
	stored.Number = fmt.Sprintf("JE-%d-%04d", year, l.seq[year])
	stored.Status = entity.EntryStatusDraft
	stored.CreatedAt = l.now()
	stored.ValidatedAt = nil

	l.entries[stored.ID] = stored
	l.order = append(l.order, stored.ID)
	l.log.Debug().Str("entry", stored.Number).Int("lines", len(stored.Lines)).Msg("journal entry posted")
	return stored.Clone(), nil
}

// Get returns a copy of the entry with the given ID.
func (l *Ledger) Get(id string) (*entity.JournalEntry, error) {
	e, ok := l.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: journal entry %s", domain.ErrNotFound, id)
	}
	return e.Clone(), nil
}

// Update replaces the lines, date and description of a draft entry.
// Validated entries are immutable.
func (l *Ledger) Update(id string, fn func(e *entity.JournalEntry)) (*entity.JournalEntry, error) {
	e, ok := l.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: journal entry %s", domain.ErrNotFound, id)
	}
	if e.IsValidated() {
		return nil, fmt.Errorf("%w: journal entry %s is validated", domain.ErrConflict, e.Number)
	}
	draft := e.Clone()
	fn(draft)
	e.Date = draft.Date
	e.Description = draft.Description
	e.Lines = draft.Lines
	return e.Clone(), nil
}

// Validate moves a draft to validated if it passes ValidateEntry. On
// failure the entry stays a draft and the violations are returned.
func (l *Ledger) Validate(id string) (Result, error) {
	e, ok := l.entries[id]
	if !ok {
		return Result{}, fmt.Errorf("%w: journal entry %s", domain.ErrNotFound, id)
	}
	if e.IsValidated() {
		return Result{IsValid: true}, nil
	}
	res := ValidateEntry(e, l.chart)
	if !res.IsValid {
		l.log.Warn().Str("entry", e.Number).Strs("errors", res.Errors).Msg("journal entry rejected")
		return res, res.Err()
	}
	now := l.now()
	e.Status = entity.EntryStatusValidated
	e.ValidatedAt = &now
	return res, nil
}

// Entries returns copies of all entries in posting order.
func (l *Ledger) Entries() []*entity.JournalEntry {
	out := make([]*entity.JournalEntry, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.entries[id].Clone())
	}
	return out
}

// Between returns entries dated within [start, end] (inclusive, by
// calendar day), optionally only validated ones.
func (l *Ledger) Between(start, end time.Time, onlyValidated bool) []*entity.JournalEntry {
	var out []*entity.JournalEntry
	for _, id := range l.order {
		e := l.entries[id]
		if onlyValidated && !e.IsValidated() {
			continue
		}
		if InPeriod(e.Date, start, end) {
			out = append(out, e.Clone())
		}
	}
	return out
}

// InPeriod reports whether date falls within [start, end], comparing
// calendar days so that a period end of 2025-03-31 includes the whole day.
func InPeriod(date, start, end time.Time) bool {
	d := dayOf(date)
	return !d.Before(dayOf(start)) && !d.After(dayOf(end))
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
