package ech0217

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
)

// Parse reads back a document produced by Build. Element lookup ignores
// namespace prefixes.
func Parse(data []byte) (*Declaration, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("ech0217: parse XML: %w", err)
	}
	root := doc.Root()
	if root == nil || localName(root.Tag) != "VAT_Declaration" {
		return nil, fmt.Errorf("ech0217: root element VAT_Declaration not found")
	}
	if ns := root.SelectAttrValue("xmlns", ""); ns != Namespace {
		return nil, fmt.Errorf("ech0217: unexpected namespace %q", ns)
	}

	var d Declaration
	var err error

	if h := child(root, "Header"); h != nil {
		if c := child(h, "Company"); c != nil {
			d.Header.CompanyName = text(c, "Name")
			d.Header.UID = text(c, "UID")
			d.Header.VATNumber = text(c, "VATNumber")
		}
		if p := child(h, "Period"); p != nil {
			if d.Header.PeriodStart, err = parseDate(text(p, "Start")); err != nil {
				return nil, err
			}
			if d.Header.PeriodEnd, err = parseDate(text(p, "End")); err != nil {
				return nil, err
			}
		}
		d.Header.DeclarationType = text(h, "DeclarationType")
		if ts := text(h, "GeneratedAt"); ts != "" {
			if d.Header.GeneratedAt, err = time.Parse(time.RFC3339, ts); err != nil {
				return nil, fmt.Errorf("ech0217: GeneratedAt: %w", err)
			}
		}
	}

	if decl := child(root, "Declaration"); decl != nil {
		for _, el := range decl.ChildElements() {
			if localName(el.Tag) != "Entry" {
				continue
			}
			amt, err := parseAmount(text(el, "Amount"))
			if err != nil {
				return nil, err
			}
			d.Entries = append(d.Entries, Entry{
				Code:        text(el, "Code"),
				Amount:      amt,
				Description: text(el, "Description"),
			})
		}
	}

	if s := child(root, "Summary"); s != nil {
		fields := []struct {
			name string
			dst  *decimal.Decimal
		}{
			{"TotalTurnover", &d.Summary.TotalTurnover},
			{"TotalTaxDue", &d.Summary.TotalTaxDue},
			{"TotalInputTax", &d.Summary.TotalInputTax},
			{"FinalAmount", &d.Summary.FinalAmount},
		}
		for _, f := range fields {
			if *f.dst, err = parseAmount(text(s, f.name)); err != nil {
				return nil, err
			}
		}
		if d.Summary.PaymentDue, err = strconv.ParseBool(text(s, "PaymentDue")); err != nil {
			return nil, fmt.Errorf("ech0217: PaymentDue: %w", err)
		}
	}
	return &d, nil
}

func child(el *etree.Element, local string) *etree.Element {
	for _, c := range el.ChildElements() {
		if localName(c.Tag) == local {
			return c
		}
	}
	return nil
}

func text(el *etree.Element, local string) string {
	if c := child(el, local); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

func localName(tag string) string {
	if i := strings.LastIndexByte(tag, ':'); i >= 0 {
		return tag[i+1:]
	}
	return tag
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("ech0217: date %q: %w", s, err)
	}
	return t, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ech0217: amount %q: %w", s, err)
	}
	return d, nil
}
