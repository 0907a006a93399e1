// Package accounting holds the Swiss SME chart of accounts, journal entry
// validation, a caller-owned ledger store and booking templates.
package accounting

import (
	"sort"
	"strings"
)

// AccountType classifies an account for reporting.
type AccountType string

const (
	TypeAsset     AccountType = "asset"
	TypeLiability AccountType = "liability"
	TypeEquity    AccountType = "equity"
	TypeRevenue   AccountType = "revenue"
	TypeExpense   AccountType = "expense"
)

// Account is one line of the chart of accounts.
type Account struct {
	Code string
	Name string
	Type AccountType
}

// Class returns the first digit of the account code ("3" for revenue).
func (a Account) Class() string {
	if a.Code == "" {
		return ""
	}
	return a.Code[:1]
}

// Well-known accounts used by templates and the Form 200 generator.
const (
	AccountCash           = "1000"
	AccountBank           = "1020"
	AccountDebtors        = "1100"
	AccountInputVAT       = "1170"
	AccountInputVATInvest = "1171"
	AccountCreditors      = "2000"
	AccountOutputVAT      = "2200"
	AccountSalesGoods     = "3200"
	AccountSalesServices  = "3400"
)

// Chart is an immutable lookup table of accounts.
type Chart struct {
	accounts map[string]Account
}

// NewChart builds a chart from the given accounts. Later duplicates win.
func NewChart(accounts []Account) *Chart {
	m := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		m[strings.TrimSpace(a.Code)] = a
	}
	return &Chart{accounts: m}
}

// Lookup finds an account by code.
func (c *Chart) Lookup(code string) (Account, bool) {
	a, ok := c.accounts[strings.TrimSpace(code)]
	return a, ok
}

// Has reports whether code exists in the chart.
func (c *Chart) Has(code string) bool {
	_, ok := c.Lookup(code)
	return ok
}

// Accounts returns all accounts ordered by code.
func (c *Chart) Accounts() []Account {
	out := make([]Account, 0, len(c.accounts))
	for _, a := range c.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

var defaultChart = NewChart([]Account{
	// 1 Assets
	{Code: "1000", Name: "Cash", Type: TypeAsset},
	{Code: "1020", Name: "Bank", Type: TypeAsset},
	{Code: "1060", Name: "Securities", Type: TypeAsset},
	{Code: "1100", Name: "Trade receivables", Type: TypeAsset},
	{Code: "1109", Name: "Allowance for doubtful receivables", Type: TypeAsset},
	{Code: "1170", Name: "Input VAT on materials and services", Type: TypeAsset},
	{Code: "1171", Name: "Input VAT on investments", Type: TypeAsset},
	{Code: "1176", Name: "Withholding tax receivable", Type: TypeAsset},
	{Code: "1200", Name: "Inventory", Type: TypeAsset},
	{Code: "1300", Name: "Prepaid expenses", Type: TypeAsset},
	{Code: "1500", Name: "Machinery and equipment", Type: TypeAsset},
	{Code: "1510", Name: "Furniture and fixtures", Type: TypeAsset},
	{Code: "1520", Name: "Office equipment and IT", Type: TypeAsset},
	{Code: "1530", Name: "Vehicles", Type: TypeAsset},
	// 2 Liabilities and equity
	{Code: "2000", Name: "Trade payables", Type: TypeLiability},
	{Code: "2030", Name: "Customer advances", Type: TypeLiability},
	{Code: "2100", Name: "Bank loans", Type: TypeLiability},
	{Code: "2200", Name: "Output VAT due", Type: TypeLiability},
	{Code: "2201", Name: "VAT settlement account", Type: TypeLiability},
	{Code: "2270", Name: "Social security payable", Type: TypeLiability},
	{Code: "2300", Name: "Accrued liabilities", Type: TypeLiability},
	{Code: "2800", Name: "Share capital", Type: TypeEquity},
	{Code: "2900", Name: "Legal reserves", Type: TypeEquity},
	{Code: "2979", Name: "Profit or loss for the year", Type: TypeEquity},
	// 3 Operating revenue
	{Code: "3000", Name: "Production revenue", Type: TypeRevenue},
	{Code: "3200", Name: "Sales of goods", Type: TypeRevenue},
	{Code: "3210", Name: "Sales of goods, reduced rate", Type: TypeRevenue},
	{Code: "3400", Name: "Services revenue", Type: TypeRevenue},
	{Code: "3410", Name: "Accommodation revenue", Type: TypeRevenue},
	{Code: "3600", Name: "Other operating revenue", Type: TypeRevenue},
	{Code: "3800", Name: "Sales deductions", Type: TypeRevenue},
	{Code: "3900", Name: "Export revenue", Type: TypeRevenue},
	// 4 Cost of materials and services
	{Code: "4000", Name: "Cost of materials", Type: TypeExpense},
	{Code: "4200", Name: "Cost of goods purchased", Type: TypeExpense},
	{Code: "4400", Name: "Subcontracted services", Type: TypeExpense},
	// 5 Personnel
	{Code: "5000", Name: "Salaries", Type: TypeExpense},
	{Code: "5700", Name: "Social security contributions", Type: TypeExpense},
	// 6 Other operating expenses
	{Code: "6000", Name: "Rent", Type: TypeExpense},
	{Code: "6100", Name: "Maintenance and repairs", Type: TypeExpense},
	{Code: "6200", Name: "Vehicle expenses", Type: TypeExpense},
	{Code: "6300", Name: "Insurance", Type: TypeExpense},
	{Code: "6400", Name: "Energy", Type: TypeExpense},
	{Code: "6500", Name: "Administrative expenses", Type: TypeExpense},
	{Code: "6570", Name: "IT and software", Type: TypeExpense},
	{Code: "6600", Name: "Advertising", Type: TypeExpense},
	{Code: "6800", Name: "Depreciation", Type: TypeExpense},
	{Code: "6900", Name: "Financial expenses", Type: TypeExpense},
	// 8 and 9
	{Code: "8000", Name: "Non-operating expenses", Type: TypeExpense},
	{Code: "8900", Name: "Direct taxes", Type: TypeExpense},
	{Code: "9200", Name: "Profit or loss", Type: TypeEquity},
})

// DefaultChart returns the Swiss SME chart of accounts shared process-wide.
func DefaultChart() *Chart { return defaultChart }
