package vat

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hypervisual/swiss-compliance/internal/domain"
)

var twenty = decimal.NewFromInt(20)

// RoundCHF rounds to the nearest 5 centimes, halves away from zero.
func RoundCHF(x decimal.Decimal) decimal.Decimal {
	return x.Mul(twenty).Round(0).Div(twenty).Round(2)
}

// Breakdown is a net/VAT/gross split for one code.
type Breakdown struct {
	Net     decimal.Decimal
	VAT     decimal.Decimal
	Gross   decimal.Decimal
	Rate    decimal.Decimal
	Percent decimal.Decimal
	Code    Code
}

// FromNet computes VAT on a net amount: vat = net*rate, gross = net+vat.
func FromNet(net decimal.Decimal, code Code) (Breakdown, error) {
	info, err := lookup(code)
	if err != nil {
		return Breakdown{}, err
	}
	n := RoundCHF(net)
	v := RoundCHF(net.Mul(info.Rate))
	return Breakdown{
		Net:     n,
		VAT:     v,
		Gross:   RoundCHF(n.Add(v)),
		Rate:    info.Rate,
		Percent: info.Percent,
		Code:    code,
	}, nil
}

// FromGross extracts the VAT contained in a gross amount:
// vat = gross*rate/(1+rate), net = gross-vat.
func FromGross(gross decimal.Decimal, code Code) (Breakdown, error) {
	info, err := lookup(code)
	if err != nil {
		return Breakdown{}, err
	}
	g := RoundCHF(gross)
	v := RoundCHF(gross.Mul(info.Rate).Div(decimal.NewFromInt(1).Add(info.Rate)))
	return Breakdown{
		Net:     RoundCHF(g.Sub(v)),
		VAT:     v,
		Gross:   g,
		Rate:    info.Rate,
		Percent: info.Percent,
		Code:    code,
	}, nil
}

func lookup(code Code) (Info, error) {
	if !code.Valid() {
		return Info{}, fmt.Errorf("%w: unknown VAT code %s", domain.ErrInvalidInput, code)
	}
	return code.Info(), nil
}
