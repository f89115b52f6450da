package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dafibh/household/household-backend/db/sqlc"
	"github.com/dafibh/household/household-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool    *pgxpool.Pool
	queries *sqlc.Queries
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{
		pool:    pool,
		queries: sqlc.New(pool),
	}
}

// Create validates the transaction against its account and inserts it in one database transaction
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	qtx := r.queries.WithTx(tx)

	if err := validateTransactionWithTx(ctx, qtx, transaction); err != nil {
		return nil, err
	}

	params, err := transactionParams(transaction)
	if err != nil {
		return nil, err
	}

	created, err := qtx.CreateTransaction(ctx, sqlc.CreateTransactionParams{
		AccountID:       params.AccountID,
		TransactionType: params.TransactionType,
		Amount:          params.Amount,
		CategoryID:      params.CategoryID,
		Memo:            params.Memo,
		Reference:       params.Reference,
		PostedAt:        params.PostedAt,
		IsCleared:       params.IsCleared,
	})
	if err != nil {
		return nil, mapTransactionWriteError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return sqlcTransactionToDomain(created, ""), nil
}

// GetByID retrieves a transaction by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	row, err := r.queries.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return sqlcTransactionToDomain(row.Transaction, row.CategoryName), nil
}

// List retrieves transactions with optional filters and pagination, newest first
func (r *TransactionRepository) List(ctx context.Context, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	page, pageSize, offset := filters.Window()
	if filters == nil {
		filters = &domain.TransactionFilters{}
	}

	countParams := sqlc.CountTransactionsParams{
		AccountID: int32PtrToPgInt4(filters.AccountID),
		StartAt:   timePtrToPgTimestamptz(filters.StartDate),
		EndAt:     timePtrToPgTimestamptz(filters.EndDate),
	}

	totalItems, err := r.queries.CountTransactions(ctx, countParams)
	if err != nil {
		return nil, err
	}

	rows, err := r.queries.ListTransactions(ctx, sqlc.ListTransactionsParams{
		AccountID: countParams.AccountID,
		StartAt:   countParams.StartAt,
		EndAt:     countParams.EndAt,
		Limit:     pageSize,
		Offset:    offset,
	})
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Transaction, len(rows))
	for i, row := range rows {
		result[i] = sqlcTransactionToDomain(row.Transaction, row.CategoryName)
	}

	return &domain.PaginatedTransactions{
		Data:       result,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: domain.PageCount(totalItems, pageSize),
	}, nil
}

// ListByAccountBetween returns one account's transactions inside the inclusive [start, end] range
func (r *TransactionRepository) ListByAccountBetween(ctx context.Context, accountID int32, start, end time.Time) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListAccountTransactionsBetween(ctx, sqlc.ListAccountTransactionsBetweenParams{
		AccountID: accountID,
		StartAt:   timeToPgTimestamptz(start),
		EndAt:     timeToPgTimestamptz(end),
	})
	if err != nil {
		return nil, err
	}
	result := make([]*domain.Transaction, len(rows))
	for i, row := range rows {
		result[i] = sqlcTransactionToDomain(row.Transaction, row.CategoryName)
	}
	return result, nil
}

// Update validates and overwrites a transaction in one database transaction.
// There is no version check; the last write wins.
func (r *TransactionRepository) Update(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	qtx := r.queries.WithTx(tx)

	if err := validateTransactionWithTx(ctx, qtx, transaction); err != nil {
		return nil, err
	}

	params, err := transactionParams(transaction)
	if err != nil {
		return nil, err
	}
	params.ID = transaction.ID

	updated, err := qtx.UpdateTransaction(ctx, params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, mapTransactionWriteError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return sqlcTransactionToDomain(updated, ""), nil
}

// Delete permanently removes a transaction
func (r *TransactionRepository) Delete(ctx context.Context, id int32) error {
	rows, err := r.queries.DeleteTransaction(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// Helper functions

// accountReader is the lookup validateTransactionWithTx needs; *sqlc.Queries
// bound to the write transaction satisfies it
type accountReader interface {
	GetAccountByID(ctx context.Context, id int32) (sqlc.Account, error)
}

// validateTransactionWithTx runs the shared transaction rules with the account read inside the same database transaction
func validateTransactionWithTx(ctx context.Context, qtx accountReader, transaction *domain.Transaction) error {
	var account *domain.Account
	if transaction.AccountID > 0 {
		a, err := qtx.GetAccountByID(ctx, transaction.AccountID)
		switch {
		case err == nil:
			account = sqlcAccountToDomain(a)
		case !errors.Is(err, pgx.ErrNoRows):
			return err
		}
	}

	errs := domain.ValidateTransaction(transaction, account)
	if transaction.AccountID > 0 && account == nil {
		errs.Add(domain.FieldAccount, "Select a valid account.")
	}
	return errs.Err()
}

// mapTransactionWriteError turns constraint failures into field errors
func mapTransactionWriteError(err error) error {
	if isPgForeignKeyViolation(err) {
		errs := domain.ValidationErrors{}
		switch pgConstraintName(err) {
		case "transactions_category_id_fkey":
			errs.Add(domain.FieldCategory, "Select a valid category.")
		default:
			errs.Add(domain.FieldAccount, "Select a valid account.")
		}
		return errs
	}
	return err
}

func transactionParams(t *domain.Transaction) (sqlc.UpdateTransactionParams, error) {
	amount, err := decimalToPgNumeric(t.Amount)
	if err != nil {
		return sqlc.UpdateTransactionParams{}, fmt.Errorf("invalid amount: %w", err)
	}
	return sqlc.UpdateTransactionParams{
		AccountID:       t.AccountID,
		TransactionType: string(t.TransactionType),
		Amount:          amount,
		CategoryID:      t.CategoryID,
		Memo:            stringToPgText(t.Memo),
		Reference:       stringToPgText(t.Reference),
		PostedAt:        timeToPgTimestamptz(t.PostedAt),
		IsCleared:       t.IsCleared,
	}, nil
}

func sqlcTransactionToDomain(t sqlc.Transaction, categoryName string) *domain.Transaction {
	return &domain.Transaction{
		ID:              t.ID,
		AccountID:       t.AccountID,
		TransactionType: domain.TransactionType(t.TransactionType),
		Amount:          pgNumericToDecimal(t.Amount),
		CategoryID:      t.CategoryID,
		CategoryName:    categoryName,
		Memo:            t.Memo.String,
		Reference:       t.Reference.String,
		PostedAt:        t.PostedAt.Time,
		IsCleared:       t.IsCleared,
		CreatedAt:       t.CreatedAt.Time,
		UpdatedAt:       t.UpdatedAt.Time,
	}
}
