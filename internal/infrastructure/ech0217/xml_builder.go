package ech0217

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// XMLBuilderService writes the eCH-0217 document. Text content goes through
// xml.CharData, so & < > " ' are always escaped.
type XMLBuilderService struct{}

// NewXMLBuilderService creates the service.
func NewXMLBuilderService() *XMLBuilderService {
	return &XMLBuilderService{}
}

// Build renders d as an indented UTF-8 document with an XML declaration.
func (s *XMLBuilderService) Build(d *Declaration) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("ech0217: nil declaration")
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	root := xml.StartElement{Name: xml.Name{Space: Namespace, Local: "VAT_Declaration"}}
	if err := enc.EncodeToken(root); err != nil {
		return nil, fmt.Errorf("ech0217: write root: %w", err)
	}

	s.writeHeader(enc, &d.Header)
	s.writeEntries(enc, d.Entries)
	s.writeSummary(enc, &d.Summary)

	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, fmt.Errorf("ech0217: close root: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("ech0217: flush: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func (s *XMLBuilderService) writeHeader(enc *xml.Encoder, h *Header) {
	open(enc, "Header")

	open(enc, "Company")
	writeElem(enc, "Name", h.CompanyName)
	writeElem(enc, "UID", h.UID)
	if h.VATNumber != "" {
		writeElem(enc, "VATNumber", h.VATNumber)
	}
	closeElem(enc, "Company")

	open(enc, "Period")
	writeElem(enc, "Start", h.PeriodStart.Format(dateLayout))
	writeElem(enc, "End", h.PeriodEnd.Format(dateLayout))
	closeElem(enc, "Period")

	if h.DeclarationType != "" {
		writeElem(enc, "DeclarationType", h.DeclarationType)
	}
	writeElem(enc, "GeneratedAt", h.GeneratedAt.UTC().Format(time.RFC3339))

	closeElem(enc, "Header")
}

// writeEntries writes one <Entry> per non-zero line.
func (s *XMLBuilderService) writeEntries(enc *xml.Encoder, entries []Entry) {
	open(enc, "Declaration")
	for _, e := range entries {
		if e.Amount.IsZero() {
			continue
		}
		open(enc, "Entry")
		writeElem(enc, "Code", e.Code)
		writeElem(enc, "Amount", amount(e.Amount))
		writeElem(enc, "Description", e.Description)
		closeElem(enc, "Entry")
	}
	closeElem(enc, "Declaration")
}

func (s *XMLBuilderService) writeSummary(enc *xml.Encoder, sum *Summary) {
	open(enc, "Summary")
	writeElem(enc, "TotalTurnover", amount(sum.TotalTurnover))
	writeElem(enc, "TotalTaxDue", amount(sum.TotalTaxDue))
	writeElem(enc, "TotalInputTax", amount(sum.TotalInputTax))
	writeElem(enc, "FinalAmount", amount(sum.FinalAmount))
	writeElem(enc, "PaymentDue", strconv.FormatBool(sum.PaymentDue))
	closeElem(enc, "Summary")
}

func open(enc *xml.Encoder, local string) {
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: local}})
}

func closeElem(enc *xml.Encoder, local string) {
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: local}})
}

func writeElem(enc *xml.Encoder, local, value string) {
	open(enc, local)
	_ = enc.EncodeToken(xml.CharData(value))
	closeElem(enc, local)
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
