package entity

// Company is a tenant of the platform: one legal entity registered for Swiss VAT.
type Company struct {
	ID          string
	Name        string
	UID         string // CHE-123.456.788
	VATNumber   string // UID + register suffix: "CHE-123.456.788 MWST"
	Street      string
	HouseNumber string
	PostalCode  string
	City        string
	Country     string // ISO 3166-1 alpha-2, default CH
}

// VATID returns the VAT number, or the bare UID when no VAT number is set.
func (c *Company) VATID() string {
	if c.VATNumber != "" {
		return c.VATNumber
	}
	return c.UID
}
