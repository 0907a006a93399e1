package qrbill

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/hypervisual/swiss-compliance/internal/domain"
	"github.com/hypervisual/swiss-compliance/internal/domain/entity"
	"github.com/hypervisual/swiss-compliance/pkg/swiss"
)

// ImageRenderer draws the QR code of a payload. Implementations use error
// correction level M, 166 px (46 mm) and no quiet zone.
type ImageRenderer interface {
	RenderQR(ctx context.Context, content string) ([]byte, error)
}

// PaymentPartRenderer prints the payment part of a bill.
type PaymentPartRenderer interface {
	RenderPaymentPart(ctx context.Context, part *PaymentPart) ([]byte, error)
}

// PaymentPart is what a renderer needs to print the payment part.
type PaymentPart struct {
	Payload  *Payload
	QRString string
}

// Engine generates QR-bills for one creditor. The errors and warnings of
// the latest operation are kept on the engine, so an Engine belongs to a
// single caller at a time.
type Engine struct {
	creditor entity.Party
	currency string
	notes    []string // creditor warnings, carried into every operation

	errors   []string
	warnings []string

	newReference func() string
	images       ImageRenderer
	log          zerolog.Logger
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger attaches a logger (default: disabled).
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithDefaultCurrency sets the currency used when InvoiceData has none.
func WithDefaultCurrency(currency string) Option {
	return func(e *Engine) { e.currency = strings.ToUpper(strings.TrimSpace(currency)) }
}

// WithReferenceGenerator replaces swiss.GenerateQRReference for QRR bills
// without a reference.
func WithReferenceGenerator(fn func() string) Option {
	return func(e *Engine) { e.newReference = fn }
}

// WithImageRenderer sets the renderer used by GenerateQRCode.
func WithImageRenderer(r ImageRenderer) Option {
	return func(e *Engine) { e.images = r }
}

// NewEngine validates the creditor and returns an engine issuing bills in
// its name. Name, postal code, city and a valid CH/LI IBAN are required.
func NewEngine(creditor entity.Party, opts ...Option) (*Engine, error) {
	e := &Engine{
		currency:     CurrencyCHF,
		newReference: swiss.GenerateQRReference,
		log:          zerolog.Nop(),
	}
	for _, o := range opts {
		o(e)
	}
	if !validCurrency(e.currency) {
		return nil, fmt.Errorf("%w: default currency %q", domain.ErrInvalidCurrency, e.currency)
	}

	if strings.TrimSpace(creditor.IBAN) == "" {
		return nil, fmt.Errorf("%w: IBAN is required", domain.ErrInvalidCreditor)
	}
	if err := swiss.ValidateIBAN(creditor.IBAN); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCreditor, err)
	}

	f := &fitter{}
	c := f.party("creditor", creditor)
	c.IBAN = swiss.NormalizeIBAN(creditor.IBAN)
	if c.AddressType != entity.AddressTypeStructured {
		return nil, fmt.Errorf("%w: creditor address type must be %q", domain.ErrInvalidCreditor, entity.AddressTypeStructured)
	}
	if m := missing(c); len(m) > 0 {
		return nil, fmt.Errorf("%w: %s required", domain.ErrInvalidCreditor, strings.Join(m, ", "))
	}

	e.creditor = c
	e.notes = f.warnings
	e.log = e.log.With().Str("component", "qrbill").Str("iban", swiss.FormatIBAN(c.IBAN)).Logger()
	for _, w := range e.notes {
		e.log.Warn().Msg(w)
	}
	return e, nil
}

// Creditor returns the cleaned creditor.
func (e *Engine) Creditor() entity.Party { return e.creditor }

// Errors returns the errors of the latest operation.
func (e *Engine) Errors() []string { return append([]string(nil), e.errors...) }

// Warnings returns the warnings of the latest operation.
func (e *Engine) Warnings() []string { return append([]string(nil), e.warnings...) }

func (e *Engine) reset() {
	e.errors = nil
	e.warnings = append([]string(nil), e.notes...)
}

func validCurrency(c string) bool {
	return c == CurrencyCHF || c == CurrencyEUR
}

// ValidateAmount checks an amount and currency and formats the amount with
// two decimals. A nil amount is an open amount and yields "". An empty
// currency falls back to the engine default. The currency is checked even
// for open amounts, so a nil amount with an unknown currency still returns
// ErrInvalidCurrency.
func (e *Engine) ValidateAmount(amount *decimal.Decimal, currency string) (string, string, error) {
	cur := strings.ToUpper(strings.TrimSpace(currency))
	if cur == "" {
		cur = e.currency
	}
	if !validCurrency(cur) {
		return "", "", fmt.Errorf("%w: %q (CHF or EUR)", domain.ErrInvalidCurrency, currency)
	}
	if amount == nil {
		return "", cur, nil
	}
	if amount.IsNegative() || amount.GreaterThan(maxAmount) {
		return "", "", fmt.Errorf("%w: %s outside 0 to %s", domain.ErrInvalidAmount, amount.String(), maxAmount.StringFixed(2))
	}
	return amount.StringFixed(2), cur, nil
}

// GeneratePayload validates data and assembles the structured payload.
// Text fields are truncated with a warning, never rejected.
func (e *Engine) GeneratePayload(data InvoiceData) (*Payload, error) {
	e.reset()
	p, err := e.payload(data)
	if err != nil {
		e.errors = append(e.errors, err.Error())
		e.log.Warn().Err(err).Msg("QR-bill rejected")
		return nil, err
	}
	return p, nil
}

// GenerateQRString returns the 31 newline-separated fields of a bill.
func (e *Engine) GenerateQRString(data InvoiceData) (string, error) {
	p, err := e.GeneratePayload(data)
	if err != nil {
		return "", err
	}
	s := p.Encode()
	e.log.Debug().
		Str("reference_type", string(p.Reference.Type)).
		Str("currency", p.Payment.Currency).
		Int("warnings", len(e.warnings)).
		Msg("QR-bill generated")
	return s, nil
}

// GenerateQRCode renders the QR code image of a bill with the configured
// ImageRenderer.
func (e *Engine) GenerateQRCode(ctx context.Context, data InvoiceData) ([]byte, error) {
	if e.images == nil {
		return nil, fmt.Errorf("%w: no image renderer configured", domain.ErrInvalidInput)
	}
	s, err := e.GenerateQRString(data)
	if err != nil {
		return nil, err
	}
	img, err := e.images.RenderQR(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("qrbill: render QR code: %w", err)
	}
	return img, nil
}

// RenderPaymentPart prints the payment part of a bill with renderer.
func (e *Engine) RenderPaymentPart(ctx context.Context, renderer PaymentPartRenderer, data InvoiceData) ([]byte, error) {
	p, err := e.GeneratePayload(data)
	if err != nil {
		return nil, err
	}
	out, err := renderer.RenderPaymentPart(ctx, &PaymentPart{Payload: p, QRString: p.Encode()})
	if err != nil {
		return nil, fmt.Errorf("qrbill: render payment part: %w", err)
	}
	return out, nil
}

func (e *Engine) payload(data InvoiceData) (*Payload, error) {
	amount, currency, err := e.ValidateAmount(data.Amount, data.Currency)
	if err != nil {
		return nil, err
	}
	ref, err := e.reference(data.ReferenceType, data.Reference)
	if err != nil {
		return nil, err
	}

	f := &fitter{}
	var debtor *entity.Party
	if !data.Debtor.IsEmpty() {
		d := f.party("debtor", *data.Debtor)
		d.IBAN = ""
		if d.AddressType != entity.AddressTypeStructured && d.AddressType != entity.AddressTypeCombined {
			return nil, fmt.Errorf("%w: debtor address type %q must be S or K", domain.ErrInvalidInput, d.AddressType)
		}
		if m := missing(d); len(m) > 0 {
			return nil, fmt.Errorf("%w: debtor %s required", domain.ErrInvalidInput, strings.Join(m, ", "))
		}
		debtor = &d
	}
	msg := f.fit("message", data.Message, MaxMessageLength)
	bill := f.fit("bill information", data.BillInformation, MaxMessageLength)
	e.warnings = append(e.warnings, f.warnings...)

	var amt *decimal.Decimal
	if amount != "" {
		v := decimal.RequireFromString(amount)
		amt = &v
	}
	return &Payload{
		Header:         Header{QRType: QRType, Version: Version, Coding: CodingType},
		Creditor:       e.creditor,
		Payment:        Payment{Amount: amt, Currency: currency},
		Debtor:         debtor,
		Reference:      ref,
		AdditionalInfo: AdditionalInfo{Message: msg, BillInformation: bill},
	}, nil
}

// reference resolves and validates the reference block. An empty type is
// QRR for a QR-IBAN, SCOR for an "RF" value, QRR for any other value and
// NON without value.
func (e *Engine) reference(t ReferenceType, value string) (Reference, error) {
	value = strings.TrimSpace(value)
	qrIBAN := swiss.IsQRIBAN(e.creditor.IBAN)
	if t == "" {
		switch {
		case qrIBAN:
			t = ReferenceQRR
		case value == "":
			t = ReferenceNone
		case strings.HasPrefix(strings.ToUpper(value), "RF"):
			t = ReferenceSCOR
		default:
			t = ReferenceQRR
		}
	}

	var ref Reference
	switch t {
	case ReferenceQRR:
		if value == "" {
			value = e.newReference()
		}
		if err := swiss.ValidateQRReference(value); err != nil {
			return ref, fmt.Errorf("%w: %w", domain.ErrInvalidReference, err)
		}
		ref = Reference{Type: t, Value: strings.ReplaceAll(value, " ", "")}
	case ReferenceSCOR:
		if err := swiss.ValidateCreditorReference(value); err != nil {
			return ref, fmt.Errorf("%w: %w", domain.ErrInvalidReference, err)
		}
		ref = Reference{Type: t, Value: swiss.NormalizeCreditorReference(value)}
	case ReferenceNone:
		if value != "" {
			return ref, fmt.Errorf("%w: reference type NON carries no reference, got %q", domain.ErrInvalidReference, value)
		}
		ref = Reference{Type: t}
	default:
		return ref, fmt.Errorf("%w: unknown reference type %q", domain.ErrInvalidReference, t)
	}

	switch {
	case qrIBAN && ref.Type != ReferenceQRR:
		e.warnings = append(e.warnings, fmt.Sprintf("QR-IBAN used with reference type %s; banks expect QRR", ref.Type))
	case !qrIBAN && ref.Type == ReferenceQRR:
		e.warnings = append(e.warnings, "QRR reference used with a regular IBAN; banks expect a QR-IBAN")
	}
	return ref, nil
}

// ValidateInvoice checks data without generating anything. It never fails;
// problems are reported in the result.
func (e *Engine) ValidateInvoice(data InvoiceData) ValidationResult {
	e.reset()

	if _, _, err := e.ValidateAmount(data.Amount, data.Currency); err != nil {
		e.errors = append(e.errors, err.Error())
	}

	value := strings.TrimSpace(data.Reference)
	switch data.ReferenceType {
	case ReferenceQRR:
		if value != "" {
			e.checkReference(swiss.ValidateQRReference(value))
		}
	case ReferenceSCOR:
		e.checkReference(swiss.ValidateCreditorReference(value))
	case ReferenceNone:
		if value != "" {
			e.errors = append(e.errors, "reference type NON carries no reference")
		}
	case "":
	default:
		e.errors = append(e.errors, fmt.Sprintf("unknown reference type %q", data.ReferenceType))
	}

	f := &fitter{}
	if !data.Debtor.IsEmpty() {
		d := f.party("debtor", *data.Debtor)
		if d.AddressType != entity.AddressTypeStructured && d.AddressType != entity.AddressTypeCombined {
			e.errors = append(e.errors, fmt.Sprintf("debtor address type %q must be S or K", d.AddressType))
		}
		if m := missing(d); len(m) > 0 {
			e.errors = append(e.errors, "debtor "+strings.Join(m, ", ")+" required")
		}
	}
	f.fit("message", data.Message, MaxMessageLength)
	f.fit("bill information", data.BillInformation, MaxMessageLength)
	e.warnings = append(e.warnings, f.warnings...)

	return ValidationResult{
		IsValid:  len(e.errors) == 0,
		Errors:   e.Errors(),
		Warnings: e.Warnings(),
	}
}

func (e *Engine) checkReference(err error) {
	if err == nil {
		return
	}
	var refErr *swiss.InvalidReferenceError
	if errors.As(err, &refErr) {
		e.errors = append(e.errors, fmt.Sprintf("invalid reference %q: %v", refErr.Reference, refErr.Err))
		return
	}
	e.errors = append(e.errors, err.Error())
}
