package qrbill

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"

	"github.com/hypervisual/swiss-compliance/internal/domain/entity"
)

// cleanText trims s and brings it to Unicode NFC. Line breaks and other
// control characters would split the payload's fields, so each is replaced
// by a space; replaced reports whether that happened.
func cleanText(s string) (cleaned string, replaced bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\r\n", "\n")
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			replaced = true
			return ' '
		}
		return r
	}, s)
	return norm.NFC.String(s), replaced
}

// truncate cuts s to max characters (runes).
func truncate(s string, max int) (string, bool) {
	r := []rune(s)
	if len(r) <= max {
		return s, false
	}
	return string(r[:max]), true
}

// inLatin9 reports whether every character of s can be printed with the
// Latin-9 repertoire used by Swiss banks.
func inLatin9(s string) bool {
	_, err := charmap.ISO8859_15.NewEncoder().String(s)
	return err == nil
}

// fitter cleans and truncates text fields, collecting warnings.
type fitter struct {
	warnings []string
}

func (f *fitter) fit(field, value string, max int) string {
	v, replaced := cleanText(value)
	if replaced {
		f.warnings = append(f.warnings, fmt.Sprintf("%s: line breaks and control characters replaced by spaces", field))
	}
	if cut, ok := truncate(v, max); ok {
		f.warnings = append(f.warnings, fmt.Sprintf("%s truncated to %d characters", field, max))
		v = cut
	}
	if !inLatin9(v) {
		f.warnings = append(f.warnings, fmt.Sprintf("%s contains characters outside the Latin-9 set", field))
	}
	return v
}

// party returns a cleaned copy of p with every field fitted to its limit.
func (f *fitter) party(role string, p entity.Party) entity.Party {
	p.AddressType = strings.ToUpper(strings.TrimSpace(p.AddressType))
	if p.AddressType == "" {
		p.AddressType = entity.AddressTypeStructured
	}
	p.Name = f.fit(role+" name", p.Name, MaxNameLength)
	if p.AddressType == entity.AddressTypeCombined {
		p.Street = f.fit(role+" address line 1", p.Street, MaxAddressLineLength)
		p.HouseNumber = f.fit(role+" address line 2", p.HouseNumber, MaxAddressLineLength)
	} else {
		p.Street = f.fit(role+" street", p.Street, MaxStreetLength)
		p.HouseNumber = f.fit(role+" house number", p.HouseNumber, MaxHouseNumberLength)
	}
	p.PostalCode = f.fit(role+" postal code", p.PostalCode, MaxPostalCodeLength)
	p.City = f.fit(role+" city", p.City, MaxCityLength)
	p.Country = strings.ToUpper(strings.TrimSpace(p.Country))
	if p.Country == "" {
		p.Country = "CH"
	}
	return p
}

// missing lists the mandatory address fields that are empty. Combined (K)
// addresses carry their second line in the house number field and leave
// postal code and city empty.
func missing(p entity.Party) []string {
	var out []string
	if p.Name == "" {
		out = append(out, "name")
	}
	if p.AddressType == entity.AddressTypeCombined {
		if p.HouseNumber == "" {
			out = append(out, "address line 2")
		}
		return out
	}
	if p.PostalCode == "" {
		out = append(out, "postal code")
	}
	if p.City == "" {
		out = append(out, "city")
	}
	return out
}
