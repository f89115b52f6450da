package service

import (
	"context"
	"time"

	"github.com/dafibh/household/household-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SeedService loads the demo data set
type SeedService struct {
	seedRepo domain.SeedRepository
	location *time.Location
}

// NewSeedService creates a new SeedService. Seed transactions post at midnight in
// location; nil means UTC.
func NewSeedService(seedRepo domain.SeedRepository, location *time.Location) *SeedService {
	if location == nil {
		location = time.UTC
	}
	return &SeedService{seedRepo: seedRepo, location: location}
}

// Seed upserts DefaultSeedData. Running it again updates rather than duplicates,
// and dryRun rolls every write back.
func (s *SeedService) Seed(ctx context.Context, dryRun bool) (*domain.SeedResult, error) {
	result, err := s.seedRepo.Apply(ctx, DefaultSeedData(s.location), dryRun)
	if err != nil {
		return nil, err
	}

	log.Info().
		Bool("dry_run", dryRun).
		Int("categories_created", result.CategoriesCreated).
		Int("accounts_upserted", result.AccountsUpserted).
		Int("transactions_created", result.TransactionsCreated).
		Int("transactions_updated", result.TransactionsUpdated).
		Msg("Seed data applied")
	return result, nil
}

const (
	seedCheckingNumber = "123456789"
	seedSavingsNumber  = "987654321"
)

// DefaultSeedData is a checking and a savings account with a few January 2026
// transactions posted at midnight in loc
func DefaultSeedData(loc *time.Location) *domain.SeedData {
	interest := decimal.RequireFromString("1.50")

	return &domain.SeedData{
		Categories: []string{"Income", "Household", "Interest", "Transfers"},
		Accounts: []*domain.Account{
			{
				Name:          "Demo Checking",
				AccountNumber: seedCheckingNumber,
				AccountType:   domain.AccountTypeChecking,
				RoutingNumber: "987654321",
				Balance:       decimal.RequireFromString("1000.00"),
			},
			{
				Name:          "Demo Savings",
				AccountNumber: seedSavingsNumber,
				AccountType:   domain.AccountTypeSavings,
				RoutingNumber: "123456789",
				InterestRate:  &interest,
				Balance:       decimal.RequireFromString("5000.00"),
			},
		},
		Transactions: []domain.SeedTransaction{
			seedTransaction(loc, seedCheckingNumber, 15, domain.TransactionTypeIncome, "2000.00", "Income", "Paycheck"),
			seedTransaction(loc, seedCheckingNumber, 20, domain.TransactionTypeExpense, "150.00", "Household", "Groceries"),
			seedTransaction(loc, seedSavingsNumber, 25, domain.TransactionTypeIncome, "50.00", "Interest", "Interest"),
			seedTransaction(loc, seedSavingsNumber, 28, domain.TransactionTypeExpense, "100.00", "Transfers", "Transfer to Checking"),
		},
	}
}

func seedTransaction(loc *time.Location, accountNumber string, day int, txType domain.TransactionType, amount, category, memo string) domain.SeedTransaction {
	return domain.SeedTransaction{
		AccountNumber:   accountNumber,
		CategoryName:    category,
		TransactionType: txType,
		Amount:          decimal.RequireFromString(amount),
		PostedAt:        time.Date(2026, time.January, day, 0, 0, 0, 0, loc),
		Memo:            memo,
		IsCleared:       true,
	}
}
