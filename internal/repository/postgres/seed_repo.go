package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/household/household-backend/db/sqlc"
	"github.com/dafibh/household/household-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedRepository implements domain.SeedRepository using PostgreSQL
type SeedRepository struct {
	pool    *pgxpool.Pool
	queries *sqlc.Queries
}

// NewSeedRepository creates a new SeedRepository
func NewSeedRepository(pool *pgxpool.Pool) *SeedRepository {
	return &SeedRepository{
		pool:    pool,
		queries: sqlc.New(pool),
	}
}

// Apply upserts the seed inside one database transaction
func (r *SeedRepository) Apply(ctx context.Context, data *domain.SeedData, dryRun bool) (*domain.SeedResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := r.queries.WithTx(tx)
	result := &domain.SeedResult{DryRun: dryRun}

	categoryIDs := make(map[string]int32, len(data.Categories))
	for _, name := range data.Categories {
		id, created, err := seedCategory(ctx, qtx, name)
		if err != nil {
			return nil, err
		}
		categoryIDs[name] = id
		if created {
			result.CategoriesCreated++
		}
	}

	accountIDs := make(map[string]int32, len(data.Accounts))
	for _, account := range data.Accounts {
		account.Normalize()
		if err := domain.ValidateAccount(account).Err(); err != nil {
			return nil, fmt.Errorf("seed account %s: %w", account.AccountNumber, err)
		}
		params, err := accountParams(account)
		if err != nil {
			return nil, err
		}
		saved, err := qtx.UpsertAccountByNumber(ctx, sqlc.UpsertAccountByNumberParams{
			Name:          params.Name,
			AccountNumber: params.AccountNumber,
			AccountType:   params.AccountType,
			RoutingNumber: params.RoutingNumber,
			InterestRate:  params.InterestRate,
			DueDate:       params.DueDate,
			Balance:       params.Balance,
		})
		if err != nil {
			return nil, fmt.Errorf("upsert account %s: %w", account.AccountNumber, err)
		}
		accountIDs[account.AccountNumber] = saved.ID
		result.AccountsUpserted++
	}

	for _, st := range data.Transactions {
		created, err := seedTransaction(ctx, qtx, st, accountIDs, categoryIDs)
		if err != nil {
			return nil, err
		}
		if created {
			result.TransactionsCreated++
		} else {
			result.TransactionsUpdated++
		}
	}

	if dryRun {
		return result, nil
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit seed: %w", err)
	}
	return result, nil
}

func seedCategory(ctx context.Context, qtx *sqlc.Queries, name string) (int32, bool, error) {
	existing, err := qtx.GetCategoryByName(ctx, name)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, fmt.Errorf("find category %s: %w", name, err)
	}

	category := domain.NewCategory(name)
	created, err := qtx.CreateCategory(ctx, sqlc.CreateCategoryParams{
		Name:     category.Name,
		Slug:     category.Slug,
		IsActive: category.IsActive,
	})
	if err != nil {
		return 0, false, fmt.Errorf("create category %s: %w", name, err)
	}
	return created.ID, true, nil
}

func seedTransaction(ctx context.Context, qtx *sqlc.Queries, st domain.SeedTransaction, accountIDs, categoryIDs map[string]int32) (bool, error) {
	accountID, ok := accountIDs[st.AccountNumber]
	if !ok {
		return false, fmt.Errorf("seed transaction references unknown account %s", st.AccountNumber)
	}
	categoryID, ok := categoryIDs[st.CategoryName]
	if !ok {
		return false, fmt.Errorf("seed transaction references unknown category %s", st.CategoryName)
	}

	amount, err := decimalToPgNumeric(st.Amount.Round(2))
	if err != nil {
		return false, err
	}
	postedAt := timeToPgTimestamptz(st.PostedAt)

	id, err := qtx.FindSeedTransaction(ctx, sqlc.FindSeedTransactionParams{
		AccountID:       accountID,
		PostedAt:        postedAt,
		TransactionType: string(st.TransactionType),
		Amount:          amount,
		CategoryID:      categoryID,
	})
	switch {
	case err == nil:
		return false, qtx.UpdateTransactionNotes(ctx, sqlc.UpdateTransactionNotesParams{
			ID:        id,
			Memo:      stringToPgText(st.Memo),
			IsCleared: st.IsCleared,
		})
	case !errors.Is(err, pgx.ErrNoRows):
		return false, fmt.Errorf("find seed transaction: %w", err)
	}

	_, err = qtx.CreateTransaction(ctx, sqlc.CreateTransactionParams{
		AccountID:       accountID,
		TransactionType: string(st.TransactionType),
		Amount:          amount,
		CategoryID:      categoryID,
		Memo:            stringToPgText(st.Memo),
		PostedAt:        postedAt,
		IsCleared:       st.IsCleared,
	})
	if err != nil {
		return false, fmt.Errorf("create seed transaction: %w", err)
	}
	return true, nil
}
