// Package vat resolves Swiss VAT codes and rates and computes net/VAT/gross
// breakdowns rounded to the 5-centime rule.
package vat

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hypervisual/swiss-compliance/internal/domain"
	"github.com/hypervisual/swiss-compliance/internal/domain/afc"
)

// Code is a VAT code of the chart of accounts. Closed enumeration.
type Code uint8

const (
	CodeUnknown Code = iota
	V81              // Output VAT, normal rate 8.1%
	V26              // Output VAT, reduced rate 2.6%
	V38              // Output VAT, accommodation rate 3.8%
	A81              // Input VAT, normal rate 8.1%
	A26              // Input VAT, reduced rate 2.6%
	A38              // Input VAT, accommodation rate 3.8%
	VEXP             // Export, 0%
	VEX              // Exempt sale (art. 21)
	AEX              // Exempt purchase
	V77              // Output VAT, normal rate before 2024 (7.7%)
	V25              // Output VAT, reduced rate before 2024 (2.5%)
	V37              // Output VAT, accommodation rate before 2024 (3.7%)
	A77              // Input VAT, normal rate before 2024
	A25              // Input VAT, reduced rate before 2024
	A37              // Input VAT, accommodation rate before 2024
	codeCount
)

// Direction of a VAT code.
type Direction string

const (
	Output Direction = "output" // VAT due on sales
	Input  Direction = "input"  // deductible VAT on purchases
)

// Info is the static record behind a Code. Rate == Percent/100.
type Info struct {
	Code          Code
	ID            string
	Rate          decimal.Decimal
	Percent       decimal.Decimal
	Type          Direction
	FormField     afc.Code // Form 200 line fed by this code; CodeUnknown if none
	AccountDebit  string
	AccountCredit string
	Description   string
}

// Chart-of-accounts codes referenced by the VAT table.
const (
	accountDebtors    = "1100"
	accountInputVAT   = "1170"
	accountInvestVAT  = "1171"
	accountCreditors  = "2000"
	accountOutputVAT  = "2200"
	accountSalesGoods = "3200"
)

var table [codeCount]Info

func init() {
	def := func(c Code, id, percent string, dir Direction, field afc.Code, debit, credit, desc string) {
		p := decimal.RequireFromString(percent)
		table[c] = Info{
			Code:          c,
			ID:            id,
			Rate:          p.Div(decimal.NewFromInt(100)),
			Percent:       p,
			Type:          dir,
			FormField:     field,
			AccountDebit:  debit,
			AccountCredit: credit,
			Description:   desc,
		}
	}
	def(V81, "V81", "8.1", Output, afc.Cifra302, accountDebtors, accountOutputVAT, "Output VAT normal rate")
	def(V26, "V26", "2.6", Output, afc.Cifra312, accountDebtors, accountOutputVAT, "Output VAT reduced rate")
	def(V38, "V38", "3.8", Output, afc.Cifra342, accountDebtors, accountOutputVAT, "Output VAT accommodation rate")
	def(A81, "A81", "8.1", Input, afc.Cifra400, accountInputVAT, accountCreditors, "Input VAT normal rate")
	def(A26, "A26", "2.6", Input, afc.Cifra400, accountInputVAT, accountCreditors, "Input VAT reduced rate")
	def(A38, "A38", "3.8", Input, afc.Cifra400, accountInputVAT, accountCreditors, "Input VAT accommodation rate")
	def(VEXP, "VEXP", "0", Output, afc.Cifra221, accountDebtors, accountSalesGoods, "Export, zero rated")
	def(VEX, "VEX", "0", Output, afc.Cifra220, accountDebtors, accountSalesGoods, "Exempt supply")
	def(AEX, "AEX", "0", Input, afc.CodeUnknown, accountInputVAT, accountCreditors, "Exempt purchase")
	def(V77, "V77", "7.7", Output, afc.Cifra302, accountDebtors, accountOutputVAT, "Output VAT normal rate (until 2023)")
	def(V25, "V25", "2.5", Output, afc.Cifra312, accountDebtors, accountOutputVAT, "Output VAT reduced rate (until 2023)")
	def(V37, "V37", "3.7", Output, afc.Cifra342, accountDebtors, accountOutputVAT, "Output VAT accommodation rate (until 2023)")
	def(A77, "A77", "7.7", Input, afc.Cifra400, accountInputVAT, accountCreditors, "Input VAT normal rate (until 2023)")
	def(A25, "A25", "2.5", Input, afc.Cifra400, accountInputVAT, accountCreditors, "Input VAT reduced rate (until 2023)")
	def(A37, "A37", "3.7", Input, afc.Cifra400, accountInputVAT, accountCreditors, "Input VAT accommodation rate (until 2023)")
}

// Info returns the static record of c. Unknown codes yield a zero Info.
func (c Code) Info() Info {
	if c == CodeUnknown || c >= codeCount {
		return Info{}
	}
	return table[c]
}

// Valid reports whether c is defined.
func (c Code) Valid() bool {
	return c > CodeUnknown && c < codeCount
}

func (c Code) String() string {
	if !c.Valid() {
		return fmt.Sprintf("vat.Code(%d)", uint8(c))
	}
	return table[c].ID
}

// Codes returns every defined code.
func Codes() []Code {
	out := make([]Code, 0, codeCount-1)
	for c := V81; c < codeCount; c++ {
		out = append(out, c)
	}
	return out
}

// ParseCode resolves "V81", "a26", ... to a Code.
func ParseCode(s string) (Code, error) {
	id := strings.ToUpper(strings.TrimSpace(s))
	for _, c := range Codes() {
		if table[c].ID == id {
			return c, nil
		}
	}
	return CodeUnknown, fmt.Errorf("%w: unknown VAT code %q", domain.ErrInvalidInput, s)
}

// InvestmentAccount is the input VAT account for investments (1171), used
// by templates booking capital goods.
func InvestmentAccount() string { return accountInvestVAT }
