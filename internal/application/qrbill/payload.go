package qrbill

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hypervisual/swiss-compliance/internal/domain"
	"github.com/hypervisual/swiss-compliance/internal/domain/entity"
)

// Fields returns the 31 fields of the payload in wire order.
func (p *Payload) Fields() []string {
	f := make([]string, FieldCount)
	f[0], f[1], f[2] = p.Header.QRType, p.Header.Version, p.Header.Coding
	f[fieldIBAN] = p.Creditor.IBAN
	putParty(f[fieldCreditor:fieldCreditor+partyFields], &p.Creditor)
	if p.Payment.Amount != nil {
		f[fieldAmount] = p.Payment.Amount.StringFixed(2)
	}
	f[fieldCurrency] = p.Payment.Currency
	putParty(f[fieldDebtor:fieldDebtor+partyFields], p.Debtor)
	f[fieldReferenceType] = string(p.Reference.Type)
	f[fieldReference] = p.Reference.Value
	f[fieldMessage] = p.AdditionalInfo.Message
	f[fieldTrailer] = Trailer
	f[fieldBillInformation] = p.AdditionalInfo.BillInformation
	return f
}

// Encode joins the fields with "\n".
func (p *Payload) Encode() string {
	return strings.Join(p.Fields(), "\n")
}

func putParty(dst []string, p *entity.Party) {
	if p.IsEmpty() {
		return
	}
	dst[0] = p.AddressType
	dst[1] = p.Name
	dst[2] = p.Street
	dst[3] = p.HouseNumber
	dst[4] = p.PostalCode
	dst[5] = p.City
	dst[6] = p.Country
}

func readParty(src []string) *entity.Party {
	p := &entity.Party{
		AddressType: src[0],
		Name:        src[1],
		Street:      src[2],
		HouseNumber: src[3],
		PostalCode:  src[4],
		City:        src[5],
		Country:     src[6],
	}
	if p.AddressType == "" && p.IsEmpty() {
		return nil
	}
	return p
}

// ParseQRString reads a payload produced by GenerateQRString or by any
// other v2 QR-bill issuer. Lines may end in "\n" or "\r\n". Fields are
// returned as found; no checksum is verified.
func ParseQRString(s string) (*Payload, error) {
	lines := strings.Split(strings.TrimPrefix(s, "\ufeff"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	if len(lines) < FieldCount {
		return nil, fmt.Errorf("%w: %d fields, at least %d expected", domain.ErrMalformedQRString, len(lines), FieldCount)
	}
	if lines[0] != QRType {
		return nil, fmt.Errorf("%w: QR type %q, expected %q", domain.ErrMalformedQRString, lines[0], QRType)
	}
	if !strings.HasPrefix(lines[1], "02") {
		return nil, fmt.Errorf("%w: unsupported version %q", domain.ErrMalformedQRString, lines[1])
	}
	if lines[fieldTrailer] != Trailer {
		return nil, fmt.Errorf("%w: trailer %q, expected %q", domain.ErrMalformedQRString, lines[fieldTrailer], Trailer)
	}

	p := &Payload{
		Header: Header{QRType: lines[0], Version: lines[1], Coding: lines[2]},
		Payment: Payment{
			Currency: lines[fieldCurrency],
		},
		Debtor: readParty(lines[fieldDebtor : fieldDebtor+partyFields]),
		Reference: Reference{
			Type:  ReferenceType(lines[fieldReferenceType]),
			Value: lines[fieldReference],
		},
		AdditionalInfo: AdditionalInfo{
			Message:         lines[fieldMessage],
			BillInformation: lines[fieldBillInformation],
		},
	}
	if c := readParty(lines[fieldCreditor : fieldCreditor+partyFields]); c != nil {
		p.Creditor = *c
	}
	p.Creditor.IBAN = lines[fieldIBAN]

	if raw := lines[fieldAmount]; raw != "" {
		amt, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: amount %q", domain.ErrMalformedQRString, raw)
		}
		p.Payment.Amount = &amt
	}
	return p, nil
}
