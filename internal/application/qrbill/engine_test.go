package qrbill_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hypervisual/swiss-compliance/internal/application/qrbill"
	"github.com/hypervisual/swiss-compliance/internal/domain"
	"github.com/hypervisual/swiss-compliance/internal/domain/entity"
	"github.com/hypervisual/swiss-compliance/pkg/swiss"
)

const (
	testIBAN        = "CH9300762011623852957"
	testQRIBAN      = "CH4431999123000889012"
	testQRReference = "210000000003139471430009017"
	testSCOR        = "RF18539007547034"
)

func creditor(iban string) entity.Party {
	return entity.Party{
		IBAN:        iban,
		Name:        "Hypervisual SA",
		Street:      "Rue de Lausanne",
		HouseNumber: "12",
		PostalCode:  "1003",
		City:        "Lausanne",
		Country:     "CH",
	}
}

func debtor() *entity.Party {
	return &entity.Party{
		Name:        "Pia Rutschmann",
		Street:      "Marktgasse",
		HouseNumber: "28",
		PostalCode:  "9400",
		City:        "Rorschach",
		Country:     "CH",
	}
}

func newEngine(t *testing.T, iban string, opts ...qrbill.Option) *qrbill.Engine {
	t.Helper()
	opts = append([]qrbill.Option{qrbill.WithReferenceGenerator(func() string { return testQRReference })}, opts...)
	e, err := qrbill.NewEngine(creditor(iban), opts...)
	require.NoError(t, err)
	return e
}

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func fields(t *testing.T, s string) []string {
	t.Helper()
	f := strings.Split(s, "\n")
	require.Len(t, f, qrbill.FieldCount)
	return f
}

// ──────────────────────────────────────────────────────────────────────────────
// NewEngine
// ──────────────────────────────────────────────────────────────────────────────

func TestNewEngine_RejectsCreditor(t *testing.T) {
	cases := map[string]func(p *entity.Party){
		"no IBAN":        func(p *entity.Party) { p.IBAN = "" },
		"foreign IBAN":   func(p *entity.Party) { p.IBAN = "DE89370400440532013000" },
		"bad checksum":   func(p *entity.Party) { p.IBAN = "CH9400762011623852957" },
		"no name":        func(p *entity.Party) { p.Name = "  " },
		"no postal code": func(p *entity.Party) { p.PostalCode = "" },
		"no city":        func(p *entity.Party) { p.City = "" },
		"combined":       func(p *entity.Party) { p.AddressType = entity.AddressTypeCombined },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := creditor(testIBAN)
			mutate(&p)
			_, err := qrbill.NewEngine(p)
			assert.ErrorIs(t, err, domain.ErrInvalidCreditor)
		})
	}
}

func TestNewEngine_WrapsIBANError(t *testing.T) {
	_, err := qrbill.NewEngine(creditor("CH9400762011623852957"))
	require.Error(t, err)
	assert.ErrorIs(t, err, swiss.ErrChecksumMismatch)

	var ibanErr *swiss.InvalidIBANError
	require.True(t, errors.As(err, &ibanErr))
	assert.Equal(t, "CH9400762011623852957", ibanErr.IBAN)
}

func TestNewEngine_NormalisesCreditor(t *testing.T) {
	p := creditor("ch93 0076 2011 6238 5295 7")
	p.Country = "ch"
	e, err := qrbill.NewEngine(p)
	require.NoError(t, err)

	c := e.Creditor()
	assert.Equal(t, testIBAN, c.IBAN)
	assert.Equal(t, "CH", c.Country)
	assert.Equal(t, entity.AddressTypeStructured, c.AddressType)
}

func TestNewEngine_TruncatesWithWarning(t *testing.T) {
	p := creditor(testIBAN)
	p.Name = strings.Repeat("N", 80)
	p.City = strings.Repeat("C", 40)
	e, err := qrbill.NewEngine(p)
	require.NoError(t, err)

	assert.Len(t, e.Creditor().Name, qrbill.MaxNameLength)
	assert.Len(t, e.Creditor().City, qrbill.MaxCityLength)

	_, err = e.GenerateQRString(qrbill.InvoiceData{Amount: amount("10")})
	require.NoError(t, err)
	assert.Contains(t, e.Warnings(), "creditor name truncated to 70 characters")
	assert.Contains(t, e.Warnings(), "creditor city truncated to 35 characters")
}

func TestNewEngine_InvalidDefaultCurrency(t *testing.T) {
	_, err := qrbill.NewEngine(creditor(testIBAN), qrbill.WithDefaultCurrency("USD"))
	assert.ErrorIs(t, err, domain.ErrInvalidCurrency)
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidateAmount
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateAmount(t *testing.T) {
	e := newEngine(t, testIBAN)

	cases := []struct {
		name         string
		amount       *decimal.Decimal
		currency     string
		wantAmount   string
		wantCurrency string
		wantErr      error
	}{
		{"open amount", nil, "", "", "CHF", nil},
		{"open amount in EUR", nil, "EUR", "", "EUR", nil},
		{"integer", amount("10"), "CHF", "10.00", "CHF", nil},
		{"rounds to cents", amount("12.345"), "", "12.35", "CHF", nil},
		{"zero", amount("0"), "CHF", "0.00", "CHF", nil},
		{"maximum", amount("999999999.99"), "CHF", "999999999.99", "CHF", nil},
		{"lower-case currency", amount("5"), "eur", "5.00", "EUR", nil},
		{"negative", amount("-0.01"), "CHF", "", "", domain.ErrInvalidAmount},
		{"too large", amount("1000000000"), "CHF", "", "", domain.ErrInvalidAmount},
		{"currency", amount("5"), "USD", "", "", domain.ErrInvalidCurrency},
		{"open amount in unknown currency", nil, "USD", "", "", domain.ErrInvalidCurrency},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amt, cur, err := e.ValidateAmount(tc.amount, tc.currency)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantAmount, amt)
			assert.Equal(t, tc.wantCurrency, cur)
		})
	}
}

func TestValidateAmount_DefaultCurrency(t *testing.T) {
	e := newEngine(t, testIBAN, qrbill.WithDefaultCurrency("eur"))
	_, cur, err := e.ValidateAmount(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "EUR", cur)
}

// ──────────────────────────────────────────────────────────────────────────────
// GenerateQRString
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateQRString_Layout(t *testing.T) {
	e := newEngine(t, testIBAN)

	s, err := e.GenerateQRString(qrbill.InvoiceData{Amount: amount("1949.75"), Currency: "CHF"})
	require.NoError(t, err)
	f := fields(t, s)

	assert.Equal(t, []string{"SPC", "0200", "1"}, f[0:3])
	assert.Equal(t, testIBAN, f[3])
	assert.Equal(t, []string{"S", "Hypervisual SA", "Rue de Lausanne", "12", "1003", "Lausanne", "CH"}, f[4:11])
	assert.Equal(t, make([]string, 6), f[11:17], "ultimate creditor is reserved")
	assert.Equal(t, "1949.75", f[17])
	assert.Equal(t, "CHF", f[18])
	assert.Equal(t, make([]string, 7), f[19:26], "no debtor")
	assert.Equal(t, "NON", f[26])
	assert.Empty(t, f[27])
	assert.Empty(t, f[28])
	assert.Equal(t, "EPD", f[29])
	assert.Empty(t, f[30])
	assert.Empty(t, e.Warnings())
	assert.Empty(t, e.Errors())
}

func TestGenerateQRString_OpenAmount(t *testing.T) {
	e := newEngine(t, testIBAN)
	s, err := e.GenerateQRString(qrbill.InvoiceData{})
	require.NoError(t, err)
	f := fields(t, s)
	assert.Empty(t, f[17])
	assert.Equal(t, "CHF", f[18])
}

func TestGenerateQRString_Debtor(t *testing.T) {
	e := newEngine(t, testIBAN)
	s, err := e.GenerateQRString(qrbill.InvoiceData{Amount: amount("100"), Debtor: debtor()})
	require.NoError(t, err)
	f := fields(t, s)
	assert.Equal(t, []string{"S", "Pia Rutschmann", "Marktgasse", "28", "9400", "Rorschach", "CH"}, f[19:26])
}

func TestGenerateQRString_CombinedDebtorKeepsLongSecondLine(t *testing.T) {
	e := newEngine(t, testIBAN)
	d := &entity.Party{
		AddressType: entity.AddressTypeCombined,
		Name:        "Pia Rutschmann",
		Street:      "Marktgasse 28",
		HouseNumber: "9400 Rorschach am Bodensee",
	}
	s, err := e.GenerateQRString(qrbill.InvoiceData{Amount: amount("100"), Debtor: d})
	require.NoError(t, err)
	f := fields(t, s)
	assert.Equal(t, []string{"K", "Pia Rutschmann", "Marktgasse 28", "9400 Rorschach am Bodensee", "", "", "CH"}, f[19:26])
	assert.Empty(t, e.Warnings())

	d.HouseNumber = strings.Repeat("x", 71)
	s, err = e.GenerateQRString(qrbill.InvoiceData{Amount: amount("100"), Debtor: d})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 70), fields(t, s)[22])
	assert.Equal(t, []string{"debtor address line 2 truncated to 70 characters"}, e.Warnings())
}

func TestGenerateQRString_IncompleteDebtor(t *testing.T) {
	e := newEngine(t, testIBAN)
	d := debtor()
	d.City = ""
	_, err := e.GenerateQRString(qrbill.InvoiceData{Amount: amount("100"), Debtor: d})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, e.Errors(), 1)
}

func TestGenerateQRString_GeneratesQRReference(t *testing.T) {
	e := newEngine(t, testQRIBAN)
	s, err := e.GenerateQRString(qrbill.InvoiceData{Amount: amount("50")})
	require.NoError(t, err)
	f := fields(t, s)
	assert.Equal(t, "QRR", f[26], "a QR-IBAN implies QRR")
	assert.Equal(t, testQRReference, f[27])
	assert.Empty(t, e.Warnings())
}

func TestGenerateQRString_DefaultGeneratorProducesValidReference(t *testing.T) {
	e, err := qrbill.NewEngine(creditor(testQRIBAN))
	require.NoError(t, err)
	s, err := e.GenerateQRString(qrbill.InvoiceData{ReferenceType: qrbill.ReferenceQRR})
	require.NoError(t, err)
	assert.NoError(t, swiss.ValidateQRReference(fields(t, s)[27]))
}

func TestGenerateQRString_SuppliedQRReference(t *testing.T) {
	e := newEngine(t, testQRIBAN)
	s, err := e.GenerateQRString(qrbill.InvoiceData{
		ReferenceType: qrbill.ReferenceQRR,
		Reference:     "21 00000 00003 13947 14300 09017",
	})
	require.NoError(t, err)
	assert.Equal(t, testQRReference, fields(t, s)[27], "spaces are removed")

	_, err = e.GenerateQRString(qrbill.InvoiceData{
		ReferenceType: qrbill.ReferenceQRR,
		Reference:     "210000000003139471430009018",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
	assert.ErrorIs(t, err, swiss.ErrChecksumMismatch)
}

func TestGenerateQRString_CreditorReference(t *testing.T) {
	e := newEngine(t, testIBAN)
	s, err := e.GenerateQRString(qrbill.InvoiceData{Reference: "rf18 5390 0754 7034"})
	require.NoError(t, err)
	f := fields(t, s)
	assert.Equal(t, "SCOR", f[26], "an RF value implies SCOR")
	assert.Equal(t, testSCOR, f[27])
	assert.Empty(t, e.Warnings())

	_, err = e.GenerateQRString(qrbill.InvoiceData{ReferenceType: qrbill.ReferenceSCOR, Reference: "RF19539007547034"})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}

func TestGenerateQRString_ReferenceTypeRules(t *testing.T) {
	e := newEngine(t, testIBAN)

	_, err := e.GenerateQRString(qrbill.InvoiceData{ReferenceType: qrbill.ReferenceNone, Reference: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidReference, "NON carries no value")

	_, err = e.GenerateQRString(qrbill.InvoiceData{ReferenceType: "IPI"})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	_, err = e.GenerateQRString(qrbill.InvoiceData{ReferenceType: qrbill.ReferenceQRR})
	require.NoError(t, err)
	assert.Contains(t, e.Warnings(), "QRR reference used with a regular IBAN; banks expect a QR-IBAN")

	q := newEngine(t, testQRIBAN)
	_, err = q.GenerateQRString(qrbill.InvoiceData{ReferenceType: qrbill.ReferenceSCOR, Reference: testSCOR})
	require.NoError(t, err)
	assert.Contains(t, q.Warnings(), "QR-IBAN used with reference type SCOR; banks expect QRR")
}

func TestGenerateQRString_Messages(t *testing.T) {
	e := newEngine(t, testIBAN)
	long := strings.Repeat("é", 150)

	s, err := e.GenerateQRString(qrbill.InvoiceData{Message: long, BillInformation: "//S1/10/10201409"})
	require.NoError(t, err)
	f := fields(t, s)
	assert.Equal(t, strings.Repeat("é", 140), f[28], "truncated by characters, not bytes")
	assert.Equal(t, "//S1/10/10201409", f[30])
	assert.Equal(t, []string{"message truncated to 140 characters"}, e.Warnings())
}

func TestGenerateQRString_NormalisesText(t *testing.T) {
	e := newEngine(t, testIBAN)
	s, err := e.GenerateQRString(qrbill.InvoiceData{Message: "  Mu\u0308ller  "})
	require.NoError(t, err)
	assert.Equal(t, "M\u00fcller", fields(t, s)[28])

	_, err = e.GenerateQRString(qrbill.InvoiceData{Message: "Danke 😀"})
	require.NoError(t, err)
	assert.Equal(t, []string{"message contains characters outside the Latin-9 set"}, e.Warnings())
}

func TestGenerateQRString_ReplacesLineBreaks(t *testing.T) {
	e := newEngine(t, testIBAN)
	d := debtor()
	d.Street = "Marktgasse\r\nHinterhaus"
	s, err := e.GenerateQRString(qrbill.InvoiceData{
		Amount:          amount("10"),
		Debtor:          d,
		ReferenceType:   qrbill.ReferenceNone,
		Message:         "Invoice 42\nthanks",
		BillInformation: "//S1/10/42\t",
	})
	require.NoError(t, err)

	f := fields(t, s)
	assert.Equal(t, "Marktgasse Hinterhaus", f[21])
	assert.Equal(t, "Invoice 42 thanks", f[28])
	assert.Equal(t, "EPD", f[29])
	assert.Equal(t, "//S1/10/42", f[30], "trailing control characters are trimmed")
	assert.ElementsMatch(t, []string{
		"debtor street: line breaks and control characters replaced by spaces",
		"message: line breaks and control characters replaced by spaces",
	}, e.Warnings())

	p, err := qrbill.ParseQRString(s)
	require.NoError(t, err)
	assert.Equal(t, "Invoice 42 thanks", p.AdditionalInfo.Message)
}

func TestGenerateQRString_ResetsWarningsPerCall(t *testing.T) {
	e := newEngine(t, testIBAN)
	_, err := e.GenerateQRString(qrbill.InvoiceData{Message: strings.Repeat("x", 141)})
	require.NoError(t, err)
	require.Len(t, e.Warnings(), 1)

	_, err = e.GenerateQRString(qrbill.InvoiceData{Message: "ok"})
	require.NoError(t, err)
	assert.Empty(t, e.Warnings())

	_, err = e.GenerateQRString(qrbill.InvoiceData{Amount: amount("-1")})
	require.Error(t, err)
	assert.Len(t, e.Errors(), 1)

	_, err = e.GenerateQRString(qrbill.InvoiceData{})
	require.NoError(t, err)
	assert.Empty(t, e.Errors())
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidateInvoice
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateInvoice_Valid(t *testing.T) {
	e := newEngine(t, testQRIBAN)
	res := e.ValidateInvoice(qrbill.InvoiceData{
		Amount:        amount("1949.75"),
		Debtor:        debtor(),
		ReferenceType: qrbill.ReferenceQRR,
		Reference:     testQRReference,
	})
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestValidateInvoice_CollectsEverything(t *testing.T) {
	e := newEngine(t, testIBAN)
	d := debtor()
	d.Name = ""
	d.AddressType = "X"

	res := e.ValidateInvoice(qrbill.InvoiceData{
		Amount:        amount("-5"),
		Currency:      "USD",
		Debtor:        d,
		ReferenceType: qrbill.ReferenceQRR,
		Reference:     "210000000003139471430009018",
		Message:       strings.Repeat("m", 141),
	})
	assert.False(t, res.IsValid)
	require.Len(t, res.Errors, 4)
	assert.Contains(t, res.Errors[0], "invalid currency")
	assert.Contains(t, res.Errors[1], "checksum mismatch")
	assert.Contains(t, res.Errors[2], "address type")
	assert.Equal(t, "debtor name required", res.Errors[3])
	assert.Equal(t, []string{"message truncated to 140 characters"}, res.Warnings)
}

func TestValidateInvoice_ReferenceRules(t *testing.T) {
	e := newEngine(t, testIBAN)

	assert.True(t, e.ValidateInvoice(qrbill.InvoiceData{ReferenceType: qrbill.ReferenceQRR}).IsValid,
		"a missing QRR value is generated later")
	assert.False(t, e.ValidateInvoice(qrbill.InvoiceData{ReferenceType: qrbill.ReferenceSCOR}).IsValid)
	assert.False(t, e.ValidateInvoice(qrbill.InvoiceData{ReferenceType: qrbill.ReferenceNone, Reference: "1"}).IsValid)
	assert.False(t, e.ValidateInvoice(qrbill.InvoiceData{ReferenceType: "XYZ"}).IsValid)
}

// ──────────────────────────────────────────────────────────────────────────────
// Renderers
// ──────────────────────────────────────────────────────────────────────────────

type fakeImages struct{ content string }

func (f *fakeImages) RenderQR(_ context.Context, content string) ([]byte, error) {
	f.content = content
	return []byte("png"), nil
}

type fakePaymentPart struct{ part *qrbill.PaymentPart }

func (f *fakePaymentPart) RenderPaymentPart(_ context.Context, part *qrbill.PaymentPart) ([]byte, error) {
	f.part = part
	return []byte("%PDF"), nil
}

func TestGenerateQRCode(t *testing.T) {
	images := &fakeImages{}
	e := newEngine(t, testIBAN, qrbill.WithImageRenderer(images))

	img, err := e.GenerateQRCode(context.Background(), qrbill.InvoiceData{Amount: amount("1949.75")})
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), img)
	assert.Equal(t, "1949.75", fields(t, images.content)[17])
}

func TestGenerateQRCode_NoRenderer(t *testing.T) {
	e := newEngine(t, testIBAN)
	_, err := e.GenerateQRCode(context.Background(), qrbill.InvoiceData{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRenderPaymentPart(t *testing.T) {
	r := &fakePaymentPart{}
	e := newEngine(t, testQRIBAN)

	out, err := e.RenderPaymentPart(context.Background(), r, qrbill.InvoiceData{Amount: amount("20")})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), out)
	require.NotNil(t, r.part)
	assert.Equal(t, r.part.Payload.Encode(), r.part.QRString)
	assert.Equal(t, qrbill.ReferenceQRR, r.part.Payload.Reference.Type)
}
