package entity

// Address types of the QR-bill (SIX IG 4.2.2): structured or combined lines.
const (
	AddressTypeStructured = "S"
	AddressTypeCombined   = "K"
)

// Party is a creditor or debtor as printed on a QR-bill.
type Party struct {
	IBAN        string // only meaningful for the creditor
	AddressType string // S (default) or K
	Name        string
	Street      string
	HouseNumber string
	PostalCode  string
	City        string
	Country     string // ISO 3166-1 alpha-2
}

// IsEmpty reports whether no address field is set.
func (p *Party) IsEmpty() bool {
	return p == nil || (p.Name == "" && p.Street == "" && p.HouseNumber == "" &&
		p.PostalCode == "" && p.City == "" && p.Country == "")
}
