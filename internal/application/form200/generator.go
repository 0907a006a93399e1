package form200

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/hypervisual/swiss-compliance/internal/domain"
	"github.com/hypervisual/swiss-compliance/internal/domain/afc"
	"github.com/hypervisual/swiss-compliance/internal/domain/entity"
	"github.com/hypervisual/swiss-compliance/internal/domain/vat"
	"github.com/hypervisual/swiss-compliance/internal/infrastructure/ech0217"
)

// Generator accumulates one declaration. It is owned by a single caller
// and must not be shared between goroutines.
type Generator struct {
	company  entity.Company
	start    time.Time
	end      time.Time
	declType DeclarationType

	entries  map[afc.Code]*Entry
	notes    []string // accumulation warnings, carried into every report
	state    State
	report   Report
	calcedAt time.Time

	xml *ech0217.XMLBuilderService
	now func() time.Time
	log zerolog.Logger
}

// Option customises a Generator.
type Option func(*Generator)

// WithLogger attaches a logger (default: disabled).
func WithLogger(log zerolog.Logger) Option {
	return func(g *Generator) { g.log = log }
}

// WithClock overrides time.Now for detail timestamps and export headers.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithDeclarationType sets the reporting rhythm (default quarterly).
func WithDeclarationType(t DeclarationType) Option {
	return func(g *Generator) { g.declType = t }
}

// NewGenerator creates an empty declaration for company over [start, end].
func NewGenerator(company entity.Company, start, end time.Time, opts ...Option) (*Generator, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: period end %s before start %s", domain.ErrInvalidInput,
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	g := &Generator{
		company:  company,
		start:    start,
		end:      end,
		declType: Quarterly,
		entries:  make(map[afc.Code]*Entry),
		state:    StateEmpty,
		xml:      ech0217.NewXMLBuilderService(),
		now:      time.Now,
		log:      zerolog.Nop(),
	}
	for _, o := range opts {
		o(g)
	}
	if !g.declType.Valid() {
		return nil, fmt.Errorf("%w: declaration type %q", domain.ErrInvalidInput, g.declType)
	}
	g.log = g.log.With().Str("component", "form200").Str("company", company.Name).Logger()
	return g, nil
}

// State returns the lifecycle state.
func (g *Generator) State() State { return g.state }

// Period returns the declaration period.
func (g *Generator) Period() (start, end time.Time) { return g.start, g.end }

// Amount returns the current amount of a line (zero when absent).
func (g *Generator) Amount(c afc.Code) decimal.Decimal {
	if e, ok := g.entries[c]; ok {
		return e.Amount
	}
	return decimal.Zero
}

// Entry returns a copy of one line.
func (g *Generator) Entry(c afc.Code) (Entry, bool) {
	e, ok := g.entries[c]
	if !ok {
		return Entry{}, false
	}
	cp := *e
	cp.Details = append([]Detail(nil), e.Details...)
	return cp, true
}

// Entries returns copies of all lines in form order.
func (g *Generator) Entries() []Entry {
	var out []Entry
	for _, c := range afc.All() {
		if e, ok := g.Entry(c); ok {
			out = append(out, e)
		}
	}
	return out
}

// revenueAccounts maps revenue accounts of the chart to Form 200 lines.
var revenueAccounts = map[string]afc.Code{
	"3000": afc.Cifra302,
	"3200": afc.Cifra302,
	"3210": afc.Cifra312,
	"3400": afc.Cifra302,
	"3410": afc.Cifra342,
	"3600": afc.Cifra302,
	"3900": afc.Cifra221,
}

var (
	rateNormal        = decimal.RequireFromString("0.081")
	rateReduced       = decimal.RequireFromString("0.026")
	rateAccommodation = decimal.RequireFromString("0.038")
	hundred           = decimal.NewFromInt(100)
	one               = decimal.NewFromInt(1)
)

// AddRevenue books turnover. rateOrCode is resolved in this order:
// a VAT code ("V26"), a rate type ("reduced"), a turnover line
// ("cifra312") or a legal rate (0.081, 2.6, 0); then accountCode through
// the revenue account table. Any other numeric rate is booked at the
// normal rate with a warning. The amount also counts in cifra200.
func (g *Generator) AddRevenue(amount decimal.Decimal, rateOrCode, description, accountCode string) (afc.Code, error) {
	code, err := g.resolveRevenue(rateOrCode, accountCode)
	if err != nil {
		return afc.CodeUnknown, err
	}
	g.accumulate(code, amount, description)
	g.accumulate(afc.Cifra200, amount, description)
	g.log.Debug().Str("line", code.String()).Str("amount", amount.StringFixed(2)).Msg("revenue added")
	return code, nil
}

func (g *Generator) resolveRevenue(rateOrCode, accountCode string) (afc.Code, error) {
	key := strings.TrimSpace(rateOrCode)

	if key != "" {
		if c, err := vat.ParseCode(key); err == nil {
			info := c.Info()
			if info.Type == vat.Output && info.FormField.Valid() {
				return info.FormField, nil
			}
			return afc.CodeUnknown, fmt.Errorf("%w: %s is not a revenue VAT code", domain.ErrInvalidInput, c)
		}
		if rt, err := vat.ParseRateType(key); err == nil {
			return lineForRateType(rt), nil
		}
		if c, err := afc.Parse(key); err == nil {
			if isTurnoverLine(c) {
				return c, nil
			}
			return afc.CodeUnknown, fmt.Errorf("%w: %s is not a turnover line", domain.ErrInvalidAFCCode, c)
		}
		if c, ok := lineForRate(key); ok {
			return c, nil
		}
	}

	if c, ok := revenueAccounts[strings.TrimSpace(accountCode)]; ok {
		return c, nil
	}

	if key == "" {
		return afc.CodeUnknown, fmt.Errorf("%w: no VAT rate, code or revenue account given", domain.ErrInvalidInput)
	}
	rate, err := parseRate(key)
	if err != nil {
		return afc.CodeUnknown, fmt.Errorf("%w: unrecognised VAT rate or code %q", domain.ErrInvalidInput, rateOrCode)
	}
	g.warn(fmt.Sprintf("unusual VAT rate %s booked at the normal rate (cifra302)", rate.String()))
	return afc.Cifra302, nil
}

// parseRate reads a rate given as a fraction (0.081) or a percentage (8.1).
func parseRate(s string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if rate.GreaterThan(one) {
		rate = rate.Div(hundred)
	}
	return rate, nil
}

// lineForRate maps the legal rates and zero to their turnover line.
func lineForRate(s string) (afc.Code, bool) {
	rate, err := parseRate(s)
	if err != nil {
		return afc.CodeUnknown, false
	}
	switch {
	case rate.Equal(rateNormal):
		return afc.Cifra302, true
	case rate.Equal(rateReduced):
		return afc.Cifra312, true
	case rate.Equal(rateAccommodation):
		return afc.Cifra342, true
	case rate.IsZero():
		return afc.Cifra221, true
	}
	return afc.CodeUnknown, false
}

func lineForRateType(rt vat.RateType) afc.Code {
	switch rt {
	case vat.RateReduced:
		return afc.Cifra312
	case vat.RateAccommodation:
		return afc.Cifra342
	default:
		return afc.Cifra302
	}
}

func isTurnoverLine(c afc.Code) bool {
	for _, t := range afc.TurnoverCodes() {
		if t == c {
			return true
		}
	}
	return false
}

// AddInputVAT books deductible input tax on cifra400, or on the correction
// line selected by ct. Subsidy reductions are always stored negative.
func (g *Generator) AddInputVAT(amount decimal.Decimal, description string, ct CorrectionType) (afc.Code, error) {
	var code afc.Code
	switch ct {
	case CorrectionNone:
		code = afc.Cifra400
	case CorrectionMixedUse:
		code = afc.Cifra405
	case CorrectionSubsequentRelief:
		code = afc.Cifra410
	case CorrectionSubsidyReduction:
		code = afc.Cifra415
		amount = amount.Abs().Neg()
	case CorrectionOther:
		code = afc.Cifra420
	default:
		return afc.CodeUnknown, fmt.Errorf("%w: correction type %q", domain.ErrInvalidInput, ct)
	}
	g.accumulate(code, amount, description)
	g.log.Debug().Str("line", code.String()).Str("amount", amount.StringFixed(2)).Msg("input VAT added")
	return code, nil
}

// AddExemptRevenue books a non-taxed supply on 220/221/225/230 and in cifra200.
func (g *Generator) AddExemptRevenue(amount decimal.Decimal, et ExemptType, description string) (afc.Code, error) {
	var code afc.Code
	switch et {
	case ExemptExcluded:
		code = afc.Cifra220
	case ExemptExport:
		code = afc.Cifra221
	case ExemptTransfer:
		code = afc.Cifra225
	case ExemptUnpaid:
		code = afc.Cifra230
	default:
		return afc.CodeUnknown, fmt.Errorf("%w: exempt type %q", domain.ErrInvalidInput, et)
	}
	g.accumulate(code, amount, description)
	g.accumulate(afc.Cifra200, amount, description)
	return code, nil
}

// AddDeductions books reductions of consideration on cifra235. They reduce
// turnover and are therefore not added to cifra200.
func (g *Generator) AddDeductions(amount decimal.Decimal, description string) {
	g.accumulate(afc.Cifra235, amount, description)
}

// AddEntry adds amount to any non-calculated line identified by key
// ("cifra510" or "510"), applying the line's amount validator.
func (g *Generator) AddEntry(key string, amount decimal.Decimal, description string) error {
	code, err := afc.Parse(key)
	if err != nil {
		return err
	}
	def := afc.MustDefine(code)
	if def.Calculated {
		return fmt.Errorf("%w: %s is calculated and cannot be set", domain.ErrInvalidAFCCode, code)
	}
	if err := def.ValidateAmount(amount); err != nil {
		return err
	}
	g.accumulate(code, amount, description)
	return nil
}

func (g *Generator) accumulate(code afc.Code, amount decimal.Decimal, description string) {
	e, ok := g.entries[code]
	if !ok {
		e = &Entry{Code: code, Description: afc.MustDefine(code).Description}
		g.entries[code] = e
	}
	e.Amount = e.Amount.Add(amount)
	e.Details = append(e.Details, Detail{Amount: amount, Description: description, Timestamp: g.now()})
	g.state = StatePopulated
}

func (g *Generator) warn(msg string) {
	g.notes = append(g.notes, msg)
	g.log.Warn().Msg(msg)
}
