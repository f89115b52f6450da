package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCreditCard AccountType = "credit_card"
	AccountTypeLoan       AccountType = "loan"
)

// AccountTypes lists every account type in display order
var AccountTypes = []AccountType{
	AccountTypeChecking,
	AccountTypeSavings,
	AccountTypeCreditCard,
	AccountTypeLoan,
}

// Label returns the human-readable name of the account type
func (t AccountType) Label() string {
	switch t {
	case AccountTypeChecking:
		return "Checking"
	case AccountTypeSavings:
		return "Savings"
	case AccountTypeCreditCard:
		return "Credit Card"
	case AccountTypeLoan:
		return "Loan"
	}
	return string(t)
}

// IsValid reports whether t is a known account type
func (t AccountType) IsValid() bool {
	_, ok := AccountFieldRules[t]
	return ok
}

// IsRestricted reports whether accounts of this type only accept payment and charge transactions
func (t AccountType) IsRestricted() bool {
	return t == AccountTypeCreditCard || t == AccountTypeLoan
}

type Account struct {
	ID            int32            `json:"id"`
	Name          string           `json:"name"`
	AccountNumber string           `json:"accountNumber"`
	AccountType   AccountType      `json:"accountType"`
	RoutingNumber string           `json:"routingNumber,omitempty"`
	InterestRate  *decimal.Decimal `json:"interestRate,omitempty"`
	DueDate       *time.Time       `json:"dueDate,omitempty"`
	Balance       decimal.Decimal  `json:"balance"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// String mirrors how accounts appear in pickers, e.g. "Everyday (Checking)"
func (a *Account) String() string {
	return a.Name + " (" + a.AccountType.Label() + ")"
}

// Normalize trims free-text fields and rounds decimals to two places.
func (a *Account) Normalize() {
	a.Name = strings.TrimSpace(a.Name)
	a.AccountNumber = strings.TrimSpace(a.AccountNumber)
	a.RoutingNumber = strings.TrimSpace(a.RoutingNumber)
	a.Balance = a.Balance.Round(2)
	if a.InterestRate != nil {
		rate := a.InterestRate.Round(2)
		a.InterestRate = &rate
	}
	if a.DueDate != nil {
		d := time.Date(a.DueDate.Year(), a.DueDate.Month(), a.DueDate.Day(), 0, 0, 0, 0, time.UTC)
		a.DueDate = &d
	}
}

type AccountRepository interface {
	Create(ctx context.Context, account *Account) (*Account, error)
	GetByID(ctx context.Context, id int32) (*Account, error)
	GetAll(ctx context.Context) ([]*Account, error)
	Update(ctx context.Context, account *Account) (*Account, error)
	// Delete removes the account together with its transactions
	Delete(ctx context.Context, id int32) error
}
