package accounting

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hypervisual/swiss-compliance/internal/domain"
	"github.com/hypervisual/swiss-compliance/internal/domain/entity"
	"github.com/hypervisual/swiss-compliance/internal/domain/vat"
)

// SaleEntry books an invoice issued to a customer:
//
//	1100 Debtors        gross
//	    3xxx Revenue           net
//	    2200 Output VAT        vat
//
// revenueAccount defaults to 3200. The VAT line is omitted for 0% codes.
func SaleEntry(date time.Time, label string, net decimal.Decimal, code vat.Code, revenueAccount string) (*entity.JournalEntry, error) {
	info := code.Info()
	if !code.Valid() || info.Type != vat.Output {
		return nil, fmt.Errorf("%w: %s is not an output VAT code", domain.ErrInvalidInput, code)
	}
	if err := requirePositive(net); err != nil {
		return nil, err
	}
	if revenueAccount == "" {
		revenueAccount = AccountSalesGoods
	}
	b, err := vat.FromNet(net, code)
	if err != nil {
		return nil, err
	}

	lines := []entity.JournalLine{
		{Account: info.AccountDebit, Label: label, Debit: b.Gross},
		{Account: revenueAccount, Label: label, Credit: b.Net},
	}
	if !b.VAT.IsZero() {
		lines = append(lines, entity.JournalLine{
			Account: AccountOutputVAT, Label: vatLabel(label, info), Credit: b.VAT,
		})
	}
	return newEntry(date, label, lines), nil
}

// PurchaseEntry books a supplier invoice:
//
//	xxxx Expense/asset  net
//	1170 Input VAT      vat   (1171 for fixed assets 15xx)
//	    2000 Creditors         gross
func PurchaseEntry(date time.Time, label string, net decimal.Decimal, code vat.Code, expenseAccount string) (*entity.JournalEntry, error) {
	info := code.Info()
	if !code.Valid() || info.Type != vat.Input {
		return nil, fmt.Errorf("%w: %s is not an input VAT code", domain.ErrInvalidInput, code)
	}
	if err := requirePositive(net); err != nil {
		return nil, err
	}
	if expenseAccount == "" {
		return nil, fmt.Errorf("%w: expense account required", domain.ErrInvalidInput)
	}
	b, err := vat.FromNet(net, code)
	if err != nil {
		return nil, err
	}

	vatAccount := AccountInputVAT
	if strings.HasPrefix(expenseAccount, "15") {
		vatAccount = AccountInputVATInvest
	}
	lines := []entity.JournalLine{
		{Account: expenseAccount, Label: label, Debit: b.Net},
	}
	if !b.VAT.IsZero() {
		lines = append(lines, entity.JournalLine{
			Account: vatAccount, Label: vatLabel(label, info), Debit: b.VAT,
		})
	}
	lines = append(lines, entity.JournalLine{Account: AccountCreditors, Label: label, Credit: b.Gross})
	return newEntry(date, label, lines), nil
}

// PaymentReceived books a customer payment: bank to debtors.
func PaymentReceived(date time.Time, label string, amount decimal.Decimal) (*entity.JournalEntry, error) {
	if err := requirePositive(amount); err != nil {
		return nil, err
	}
	return newEntry(date, label, []entity.JournalLine{
		{Account: AccountBank, Label: label, Debit: amount},
		{Account: AccountDebtors, Label: label, Credit: amount},
	}), nil
}

// PaymentMade books a supplier payment: creditors to bank.
func PaymentMade(date time.Time, label string, amount decimal.Decimal) (*entity.JournalEntry, error) {
	if err := requirePositive(amount); err != nil {
		return nil, err
	}
	return newEntry(date, label, []entity.JournalLine{
		{Account: AccountCreditors, Label: label, Debit: amount},
		{Account: AccountBank, Label: label, Credit: amount},
	}), nil
}

func newEntry(date time.Time, label string, lines []entity.JournalLine) *entity.JournalEntry {
	return &entity.JournalEntry{
		Date:        date,
		Description: label,
		Lines:       lines,
		Status:      entity.EntryStatusDraft,
	}
}

func requirePositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", domain.ErrInvalidAmount, amount)
	}
	return nil
}

func vatLabel(label string, info vat.Info) string {
	return fmt.Sprintf("%s (VAT %s%%)", label, info.Percent)
}
