package form200

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hypervisual/swiss-compliance/internal/domain"
	"github.com/hypervisual/swiss-compliance/internal/domain/afc"
	"github.com/hypervisual/swiss-compliance/internal/infrastructure/ech0217"
)

// PDFRenderer turns the PDF-ready structure into a document.
type PDFRenderer interface {
	RenderDeclaration(ctx context.Context, data *PDFData) ([]byte, error)
}

// PDFData is the printable view of a declaration grouped by form section.
type PDFData struct {
	CompanyName     string
	UID             string
	VATNumber       string
	PeriodStart     time.Time
	PeriodEnd       time.Time
	DeclarationType DeclarationType
	GeneratedAt     time.Time
	Sections        []PDFSection
	Summary         Summary
	Warnings        []string
}

// PDFSection is one block of the form ("Turnover", "Tax", ...).
type PDFSection struct {
	Title string
	Lines []PDFLine
}

// PDFLine is one printed line.
type PDFLine struct {
	Number      string
	Description string
	Amount      decimal.Decimal
	Calculated  bool
}

var sectionTitles = []struct {
	section afc.Section
	title   string
}{
	{afc.SectionTurnover, "I. Turnover"},
	{afc.SectionTax, "II. Tax calculation"},
	{afc.SectionInputTax, "III. Input tax"},
	{afc.SectionResult, "IV. Result"},
	{afc.SectionOther, "V. Other cash flows"},
}

// ready checks the export gate and marks the declaration exported.
func (g *Generator) ready() error {
	if g.state != StateCalculated && g.state != StateExported {
		return fmt.Errorf("%w: calculate the declaration first", domain.ErrDeclarationInvalid)
	}
	if !g.report.IsValid {
		return fmt.Errorf("%w: %s", domain.ErrDeclarationInvalid, strings.Join(g.report.Errors, "; "))
	}
	g.state = StateExported
	return nil
}

type jsonDocument struct {
	Company struct {
		Name      string `json:"name"`
		UID       string `json:"uid"`
		VATNumber string `json:"vatNumber,omitempty"`
	} `json:"company"`
	Period struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"period"`
	DeclarationType DeclarationType      `json:"declarationType"`
	GeneratedAt     time.Time            `json:"generatedAt"`
	Entries         map[string]jsonEntry `json:"entries"`
	Summary         jsonSummary          `json:"summary"`
	Warnings        []string             `json:"warnings"`
}

type jsonEntry struct {
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Amount      string   `json:"amount"`
	Details     []Detail `json:"details,omitempty"`
}

type jsonSummary struct {
	TotalTurnover string `json:"totalTurnover"`
	TotalTaxDue   string `json:"totalTaxDue"`
	TotalInputTax string `json:"totalInputTax"`
	FinalAmount   string `json:"finalAmount"`
	IsDue         bool   `json:"isDue"`
}

// ExportJSON serialises the declaration with every line keyed "cifraNNN".
func (g *Generator) ExportJSON() ([]byte, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}
	var doc jsonDocument
	doc.Company.Name = g.company.Name
	doc.Company.UID = g.company.UID
	doc.Company.VATNumber = g.company.VATNumber
	doc.Period.Start = g.start.Format("2006-01-02")
	doc.Period.End = g.end.Format("2006-01-02")
	doc.DeclarationType = g.declType
	doc.GeneratedAt = g.now().UTC()
	doc.Entries = make(map[string]jsonEntry, len(g.entries))
	for _, e := range g.Entries() {
		doc.Entries[e.Code.String()] = jsonEntry{
			Code:        e.Code.Number(),
			Description: e.Description,
			Amount:      e.Amount.StringFixed(2),
			Details:     e.Details,
		}
	}
	s := g.report.Summary
	doc.Summary = jsonSummary{
		TotalTurnover: s.TotalTurnover.StringFixed(2),
		TotalTaxDue:   s.TotalTaxDue.StringFixed(2),
		TotalInputTax: s.TotalInputTax.StringFixed(2),
		FinalAmount:   s.FinalAmount.StringFixed(2),
		IsDue:         s.IsDue,
	}
	doc.Warnings = append([]string{}, g.report.Warnings...)

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("form200: encode JSON: %w", err)
	}
	return out, nil
}

// GeneratePDFData groups the non-zero lines by form section.
func (g *Generator) GeneratePDFData() (*PDFData, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}
	data := &PDFData{
		CompanyName:     g.company.Name,
		UID:             g.company.UID,
		VATNumber:       g.company.VATNumber,
		PeriodStart:     g.start,
		PeriodEnd:       g.end,
		DeclarationType: g.declType,
		GeneratedAt:     g.now(),
		Summary:         g.report.Summary,
		Warnings:        append([]string(nil), g.report.Warnings...),
	}
	for _, st := range sectionTitles {
		sec := PDFSection{Title: st.title}
		for _, e := range g.Entries() {
			def := afc.MustDefine(e.Code)
			if def.Section != st.section || (e.Amount.IsZero() && !def.Calculated) {
				continue
			}
			sec.Lines = append(sec.Lines, PDFLine{
				Number:      def.Number,
				Description: def.Description,
				Amount:      e.Amount,
				Calculated:  def.Calculated,
			})
		}
		if len(sec.Lines) > 0 {
			data.Sections = append(data.Sections, sec)
		}
	}
	return data, nil
}

// GenerateECH0217XML renders the declaration as eCH-0217 XML.
func (g *Generator) GenerateECH0217XML() ([]byte, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}
	return g.xml.Build(g.echDeclaration())
}

func (g *Generator) echDeclaration() *ech0217.Declaration {
	d := &ech0217.Declaration{
		Header: ech0217.Header{
			CompanyName:     g.company.Name,
			UID:             g.company.UID,
			VATNumber:       g.company.VATNumber,
			PeriodStart:     g.start,
			PeriodEnd:       g.end,
			DeclarationType: string(g.declType),
			GeneratedAt:     g.now(),
		},
	}
	for _, e := range g.Entries() {
		d.Entries = append(d.Entries, ech0217.Entry{
			Code:        e.Code.Number(),
			Amount:      e.Amount,
			Description: e.Description,
		})
	}
	s := g.report.Summary
	d.Summary = ech0217.Summary{
		TotalTurnover: s.TotalTurnover,
		TotalTaxDue:   s.TotalTaxDue,
		TotalInputTax: s.TotalInputTax,
		FinalAmount:   s.FinalAmount,
		PaymentDue:    s.IsDue,
	}
	return d
}

// SubmissionPackage zips the eCH-0217 XML with its canonical digest.
func (g *Generator) SubmissionPackage() (*ech0217.Package, error) {
	xmlBytes, err := g.GenerateECH0217XML()
	if err != nil {
		return nil, err
	}
	pkg, err := ech0217.BuildPackage(xmlBytes, ech0217.BaseFilename(g.company.UID, g.start, g.end))
	if err != nil {
		return nil, fmt.Errorf("form200: build package: %w", err)
	}
	g.log.Info().Str("file", pkg.Filename).Str("digest", pkg.Digest).Msg("submission package built")
	return pkg, nil
}

// RenderPDF hands the PDF-ready structure to renderer.
func (g *Generator) RenderPDF(ctx context.Context, renderer PDFRenderer) ([]byte, error) {
	data, err := g.GeneratePDFData()
	if err != nil {
		return nil, err
	}
	out, err := renderer.RenderDeclaration(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("form200: render PDF: %w", err)
	}
	return out, nil
}
