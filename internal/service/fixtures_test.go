package service

import (
	"time"

	"github.com/dafibh/household/household-backend/internal/domain"
	"github.com/dafibh/household/household-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func int32Ptr(v int32) *int32 { return &v }

func boolPtr(v bool) *bool { return &v }

func newChecking(id int32, name string) *domain.Account {
	return &domain.Account{
		ID:            id,
		Name:          name,
		AccountNumber: "CHK-" + name,
		AccountType:   domain.AccountTypeChecking,
		RoutingNumber: "011000015",
		Balance:       decimal.RequireFromString("100.00"),
	}
}

func newCreditCard(id int32, name string) *domain.Account {
	due := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	return &domain.Account{
		ID:            id,
		Name:          name,
		AccountNumber: "CC-" + name,
		AccountType:   domain.AccountTypeCreditCard,
		InterestRate:  decimalPtr("19.99"),
		DueDate:       &due,
	}
}

func newCategory(id int32, name string) *domain.Category {
	c := domain.NewCategory(name)
	c.ID = id
	return c
}

// transactionFixture wires linked in-memory repositories with two checking
// accounts, a credit card and two categories
type transactionFixture struct {
	accounts     *testutil.MockAccountRepository
	transactions *testutil.MockTransactionRepository
	categories   *testutil.MockCategoryRepository
	publisher    *testutil.MockEventPublisher
	service      *TransactionService
}

func newTransactionFixture() *transactionFixture {
	accounts, transactions, categories := testutil.NewLinkedRepositories()
	accounts.AddAccount(newChecking(1, "Everyday"))
	accounts.AddAccount(newChecking(2, "Bills"))
	accounts.AddAccount(newCreditCard(3, "Visa"))
	categories.AddCategory(newCategory(1, "General"))
	categories.AddCategory(newCategory(2, "Groceries"))

	publisher := testutil.NewMockEventPublisher()
	svc := NewTransactionService(transactions, accounts, categories)
	svc.SetEventPublisher(publisher)

	return &transactionFixture{
		accounts:     accounts,
		transactions: transactions,
		categories:   categories,
		publisher:    publisher,
		service:      svc,
	}
}

func validTransactionInput(accountID int32, txType domain.TransactionType) TransactionInput {
	return TransactionInput{
		AccountID:       accountID,
		TransactionType: txType,
		Amount:          decimal.RequireFromString("42.50"),
		CategoryID:      1,
		Memo:            "Lunch",
		PostedAt:        time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
	}
}
