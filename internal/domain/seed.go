package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SeedTransaction references its account and category by natural key so a seed
// can be written before any ids exist
type SeedTransaction struct {
	AccountNumber   string
	CategoryName    string
	TransactionType TransactionType
	Amount          decimal.Decimal
	PostedAt        time.Time
	Memo            string
	IsCleared       bool
}

// SeedData is a complete set of demo records
type SeedData struct {
	Categories   []string
	Accounts     []*Account
	Transactions []SeedTransaction
}

// SeedResult counts what a seed run wrote
type SeedResult struct {
	CategoriesCreated   int  `json:"categoriesCreated"`
	AccountsUpserted    int  `json:"accountsUpserted"`
	TransactionsCreated int  `json:"transactionsCreated"`
	TransactionsUpdated int  `json:"transactionsUpdated"`
	DryRun              bool `json:"dryRun"`
}

// SeedRepository writes seed data atomically. Categories are matched by name,
// accounts by account number and transactions by
// (account, posted at, type, amount, category). With dryRun set every write is
// rolled back after the counts are taken.
type SeedRepository interface {
	Apply(ctx context.Context, data *SeedData, dryRun bool) (*SeedResult, error)
}
