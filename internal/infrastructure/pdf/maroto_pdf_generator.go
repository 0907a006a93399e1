// Package pdf prints Form 200 declarations and QR-bill payment parts.
//
// Declaration page (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: company + UID / VAT no.  │  Form 200 + period       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SECTIONS: No. | Description | Amount (one row per line)     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESULT: amount payable or credit                            │
//	│  WARNINGS                                                    │
//	└─────────────────────────────────────────────────────────────┘
//
// Payment part (A4, bottom 105 mm):
//
//	┌──────────────┬───────────────┬──────────────────────────────┐
//	│  Receipt     │ Payment part  │ Account / Payable to         │
//	│              │ [ QR code ]   │ Reference / Additional info  │
//	│              │ Currency Amt  │ Payable by                   │
//	└──────────────┴───────────────┴──────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/linestyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/hypervisual/swiss-compliance/internal/application/form200"
	"github.com/hypervisual/swiss-compliance/internal/application/qrbill"
	"github.com/hypervisual/swiss-compliance/internal/domain/entity"
	"github.com/hypervisual/swiss-compliance/pkg/swiss"
)

// ── Palette ───────────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 200, Green: 16, Blue: 46}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorBlack   = &props.Color{Red: 0, Green: 0, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implements form200.PDFRenderer and
// qrbill.PaymentPartRenderer with Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator builds the generator.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

func newDocument(title, author string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(author, true).
		Build()
	return maroto.New(cfg)
}

// RenderDeclaration prints a calculated Form 200.
func (g *MarotoPDFGenerator) RenderDeclaration(ctx context.Context, data *form200.PDFData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := newDocument("VAT declaration (Form 200)", data.CompanyName)

	m.AddRows(declarationHeaderRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	for _, s := range data.Sections {
		m.AddRows(sectionRows(s)...)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(resultRow(data.Summary))
	if len(data.Warnings) > 0 {
		m.AddRows(warningRows(data.Warnings)...)
	}
	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New("Generated "+data.GeneratedAt.Format("02.01.2006 15:04"), props.Text{
			Size: 7, Color: colorGray, Align: align.Right,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate declaration: %w", err)
	}
	return doc.GetBytes(), nil
}

// RenderPaymentPart prints the receipt and payment part of a QR-bill.
func (g *MarotoPDFGenerator) RenderPaymentPart(ctx context.Context, part *qrbill.PaymentPart) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := part.Payload
	m := newDocument("QR-bill", p.Creditor.Name)

	m.AddRows(row.New(170))
	m.AddRows(line.NewRow(1, props.Line{Color: colorBlack, Thickness: 0.2, Style: linestyle.Dashed}))
	m.AddRows(row.New(100).Add(
		col.New(3).Add(receipt(p)...),
		col.New(3).Add(qrColumn(part)...),
		col.New(6).Add(paymentDetails(p)...),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate payment part: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Declaration sections ──────────────────────────────────────────────────────

func declarationHeaderRow(d *form200.PDFData) core.Row {
	period := d.PeriodStart.Format("02.01.2006") + " – " + d.PeriodEnd.Format("02.01.2006")
	return row.New(18).Add(
		col.New(7).Add(
			text.New(d.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(d.VATNumber, swiss.FormatUID(d.UID)), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("VAT DECLARATION · FORM 200", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(period, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New("Period: "+string(d.DeclarationType), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func sectionRows(s form200.PDFSection) []core.Row {
	rows := []core.Row{
		row.New(8).Add(col.New(12).Add(
			text.New(s.Title, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 3}),
		)),
	}
	for _, l := range s.Lines {
		style := fontstyle.Normal
		if l.Calculated {
			style = fontstyle.Bold
		}
		rows = append(rows, row.New(6).Add(
			col.New(1).Add(text.New(l.Number, props.Text{Size: 8, Style: style, Top: 1})),
			col.New(8).Add(text.New(l.Description, props.Text{Size: 8, Style: style, Top: 1, Left: 1})),
			col.New(3).Add(text.New(swiss.FormatAmount(l.Amount), props.Text{
				Size: 8, Style: style, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	return rows
}

func resultRow(s form200.Summary) core.Row {
	label := "Credit in favour of the taxable person"
	if s.IsDue {
		label = "Amount payable to the AFC"
	}
	return row.New(10).Add(
		col.New(9).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2,
		})),
		col.New(3).Add(text.New("CHF "+swiss.FormatAmount(s.FinalAmount.Abs()), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

func warningRows(warnings []string) []core.Row {
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New("Notes", props.Text{Style: fontstyle.Bold, Size: 8, Top: 2}),
		)),
	}
	for _, w := range warnings {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("• "+w, props.Text{Size: 7, Color: colorGray, Left: 2}),
		)))
	}
	return rows
}

// ── Payment part ──────────────────────────────────────────────────────────────

// block is a heading followed by its lines, stacked from top.
type block struct {
	heading string
	lines   []string
}

func stack(top float64, size float64, blocks ...block) []core.Component {
	var out []core.Component
	for _, b := range blocks {
		if len(b.lines) == 0 {
			continue
		}
		out = append(out, text.New(b.heading, props.Text{Style: fontstyle.Bold, Size: size - 2, Top: top}))
		top += size / 2
		for _, l := range b.lines {
			out = append(out, text.New(l, props.Text{Size: size, Top: top}))
			top += size / 2
		}
		top += size / 3
	}
	return out
}

func receipt(p *qrbill.Payload) []core.Component {
	out := []core.Component{text.New("Receipt", props.Text{Style: fontstyle.Bold, Size: 11, Top: 5})}
	out = append(out, stack(14, 8,
		block{"Account / Payable to", append([]string{swiss.FormatIBAN(p.Creditor.IBAN)}, address(&p.Creditor)...)},
		block{"Reference", referenceLines(p.Reference)},
		block{"Payable by", address(p.Debtor)},
	)...)
	out = append(out, amountBlock(p, 8, 70)...)
	return out
}

func qrColumn(part *qrbill.PaymentPart) []core.Component {
	return append([]core.Component{
		text.New("Payment part", props.Text{Style: fontstyle.Bold, Size: 11, Top: 5}),
		code.NewQr(part.QRString, props.Rect{Top: 14, Percent: 90, Center: false}),
	}, amountBlock(part.Payload, 10, 70)...)
}

func paymentDetails(p *qrbill.Payload) []core.Component {
	var info []string
	if p.AdditionalInfo.Message != "" {
		info = append(info, p.AdditionalInfo.Message)
	}
	if p.AdditionalInfo.BillInformation != "" {
		info = append(info, p.AdditionalInfo.BillInformation)
	}
	return stack(5, 10,
		block{"Account / Payable to", append([]string{swiss.FormatIBAN(p.Creditor.IBAN)}, address(&p.Creditor)...)},
		block{"Reference", referenceLines(p.Reference)},
		block{"Additional information", info},
		block{"Payable by", address(p.Debtor)},
	)
}

func amountBlock(p *qrbill.Payload, size, top float64) []core.Component {
	amount := "________________"
	if p.Payment.Amount != nil {
		amount = strings.ReplaceAll(swiss.FormatAmount(*p.Payment.Amount), "'", " ")
	}
	return []core.Component{
		text.New("Currency    Amount", props.Text{Style: fontstyle.Bold, Size: size - 2, Top: top}),
		text.New(p.Payment.Currency+"    "+amount, props.Text{Size: size, Top: top + size/2}),
	}
}

func address(p *entity.Party) []string {
	if p.IsEmpty() {
		return nil
	}
	out := []string{p.Name}
	if p.AddressType == entity.AddressTypeCombined {
		return append(out, p.Street, p.HouseNumber)
	}
	if street := strings.TrimSpace(p.Street + " " + p.HouseNumber); street != "" {
		out = append(out, street)
	}
	place := strings.TrimSpace(p.PostalCode + " " + p.City)
	if p.Country != "" && p.Country != "CH" {
		place = p.Country + "-" + place
	}
	return append(out, place)
}

func referenceLines(r qrbill.Reference) []string {
	if r.Value == "" {
		return nil
	}
	return []string{swiss.FormatQRReference(r.Value)}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
