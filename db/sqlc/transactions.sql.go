// Queries from db/queries/transactions.sql

package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const countTransactions = `-- name: CountTransactions :one
SELECT COUNT(*) FROM transactions t
WHERE ($1::int IS NULL OR t.account_id = $1)
  AND ($2::timestamptz IS NULL OR t.posted_at >= $2)
  AND ($3::timestamptz IS NULL OR t.posted_at <= $3)
`

type CountTransactionsParams struct {
	AccountID pgtype.Int4
	StartAt   pgtype.Timestamptz
	EndAt     pgtype.Timestamptz
}

func (q *Queries) CountTransactions(ctx context.Context, arg CountTransactionsParams) (int64, error) {
	row := q.db.QueryRow(ctx, countTransactions, arg.AccountID, arg.StartAt, arg.EndAt)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createTransaction = `-- name: CreateTransaction :one
INSERT INTO transactions (account_id, transaction_type, amount, category_id, memo, reference, posted_at, is_cleared)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, account_id, transaction_type, amount, category_id, memo, reference, posted_at, is_cleared, created_at, updated_at
`

type CreateTransactionParams struct {
	AccountID       int32
	TransactionType string
	Amount          pgtype.Numeric
	CategoryID      int32
	Memo            pgtype.Text
	Reference       pgtype.Text
	PostedAt        pgtype.Timestamptz
	IsCleared       bool
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRow(ctx, createTransaction,
		arg.AccountID,
		arg.TransactionType,
		arg.Amount,
		arg.CategoryID,
		arg.Memo,
		arg.Reference,
		arg.PostedAt,
		arg.IsCleared,
	)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.TransactionType,
		&i.Amount,
		&i.CategoryID,
		&i.Memo,
		&i.Reference,
		&i.PostedAt,
		&i.IsCleared,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteTransaction = `-- name: DeleteTransaction :execrows
DELETE FROM transactions
WHERE id = $1
`

func (q *Queries) DeleteTransaction(ctx context.Context, id int32) (int64, error) {
	result, err := q.db.Exec(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const findSeedTransaction = `-- name: FindSeedTransaction :one
SELECT id FROM transactions
WHERE account_id = $1
  AND posted_at = $2
  AND transaction_type = $3
  AND amount = $4
  AND category_id = $5
ORDER BY id
LIMIT 1
`

type FindSeedTransactionParams struct {
	AccountID       int32
	PostedAt        pgtype.Timestamptz
	TransactionType string
	Amount          pgtype.Numeric
	CategoryID      int32
}

func (q *Queries) FindSeedTransaction(ctx context.Context, arg FindSeedTransactionParams) (int32, error) {
	row := q.db.QueryRow(ctx, findSeedTransaction,
		arg.AccountID,
		arg.PostedAt,
		arg.TransactionType,
		arg.Amount,
		arg.CategoryID,
	)
	var id int32
	err := row.Scan(&id)
	return id, err
}

const getTransactionByID = `-- name: GetTransactionByID :one
SELECT t.id, t.account_id, t.transaction_type, t.amount, t.category_id, t.memo, t.reference, t.posted_at, t.is_cleared, t.created_at, t.updated_at, c.name AS category_name
FROM transactions t
JOIN categories c ON c.id = t.category_id
WHERE t.id = $1
`

type GetTransactionByIDRow struct {
	Transaction  Transaction
	CategoryName string
}

func (q *Queries) GetTransactionByID(ctx context.Context, id int32) (GetTransactionByIDRow, error) {
	row := q.db.QueryRow(ctx, getTransactionByID, id)
	var i GetTransactionByIDRow
	err := row.Scan(
		&i.Transaction.ID,
		&i.Transaction.AccountID,
		&i.Transaction.TransactionType,
		&i.Transaction.Amount,
		&i.Transaction.CategoryID,
		&i.Transaction.Memo,
		&i.Transaction.Reference,
		&i.Transaction.PostedAt,
		&i.Transaction.IsCleared,
		&i.Transaction.CreatedAt,
		&i.Transaction.UpdatedAt,
		&i.CategoryName,
	)
	return i, err
}

const listAccountTransactionsBetween = `-- name: ListAccountTransactionsBetween :many
SELECT t.id, t.account_id, t.transaction_type, t.amount, t.category_id, t.memo, t.reference, t.posted_at, t.is_cleared, t.created_at, t.updated_at, c.name AS category_name
FROM transactions t
JOIN categories c ON c.id = t.category_id
WHERE t.account_id = $1
  AND t.posted_at BETWEEN $2 AND $3
ORDER BY t.posted_at DESC, t.id DESC
`

type ListAccountTransactionsBetweenParams struct {
	AccountID int32
	StartAt   pgtype.Timestamptz
	EndAt     pgtype.Timestamptz
}

type ListAccountTransactionsBetweenRow struct {
	Transaction  Transaction
	CategoryName string
}

func (q *Queries) ListAccountTransactionsBetween(ctx context.Context, arg ListAccountTransactionsBetweenParams) ([]ListAccountTransactionsBetweenRow, error) {
	rows, err := q.db.Query(ctx, listAccountTransactionsBetween, arg.AccountID, arg.StartAt, arg.EndAt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListAccountTransactionsBetweenRow
	for rows.Next() {
		var i ListAccountTransactionsBetweenRow
		if err := rows.Scan(
			&i.Transaction.ID,
			&i.Transaction.AccountID,
			&i.Transaction.TransactionType,
			&i.Transaction.Amount,
			&i.Transaction.CategoryID,
			&i.Transaction.Memo,
			&i.Transaction.Reference,
			&i.Transaction.PostedAt,
			&i.Transaction.IsCleared,
			&i.Transaction.CreatedAt,
			&i.Transaction.UpdatedAt,
			&i.CategoryName,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listTransactions = `-- name: ListTransactions :many
SELECT t.id, t.account_id, t.transaction_type, t.amount, t.category_id, t.memo, t.reference, t.posted_at, t.is_cleared, t.created_at, t.updated_at, c.name AS category_name
FROM transactions t
JOIN categories c ON c.id = t.category_id
WHERE ($1::int IS NULL OR t.account_id = $1)
  AND ($2::timestamptz IS NULL OR t.posted_at >= $2)
  AND ($3::timestamptz IS NULL OR t.posted_at <= $3)
ORDER BY t.posted_at DESC, t.id DESC
LIMIT $4 OFFSET $5
`

type ListTransactionsParams struct {
	AccountID pgtype.Int4
	StartAt   pgtype.Timestamptz
	EndAt     pgtype.Timestamptz
	Limit     int32
	Offset    int32
}

type ListTransactionsRow struct {
	Transaction  Transaction
	CategoryName string
}

func (q *Queries) ListTransactions(ctx context.Context, arg ListTransactionsParams) ([]ListTransactionsRow, error) {
	rows, err := q.db.Query(ctx, listTransactions,
		arg.AccountID,
		arg.StartAt,
		arg.EndAt,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListTransactionsRow
	for rows.Next() {
		var i ListTransactionsRow
		if err := rows.Scan(
			&i.Transaction.ID,
			&i.Transaction.AccountID,
			&i.Transaction.TransactionType,
			&i.Transaction.Amount,
			&i.Transaction.CategoryID,
			&i.Transaction.Memo,
			&i.Transaction.Reference,
			&i.Transaction.PostedAt,
			&i.Transaction.IsCleared,
			&i.Transaction.CreatedAt,
			&i.Transaction.UpdatedAt,
			&i.CategoryName,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateTransaction = `-- name: UpdateTransaction :one
UPDATE transactions
SET account_id = $2,
    transaction_type = $3,
    amount = $4,
    category_id = $5,
    memo = $6,
    reference = $7,
    posted_at = $8,
    is_cleared = $9,
    updated_at = NOW()
WHERE id = $1
RETURNING id, account_id, transaction_type, amount, category_id, memo, reference, posted_at, is_cleared, created_at, updated_at
`

type UpdateTransactionParams struct {
	ID              int32
	AccountID       int32
	TransactionType string
	Amount          pgtype.Numeric
	CategoryID      int32
	Memo            pgtype.Text
	Reference       pgtype.Text
	PostedAt        pgtype.Timestamptz
	IsCleared       bool
}

func (q *Queries) UpdateTransaction(ctx context.Context, arg UpdateTransactionParams) (Transaction, error) {
	row := q.db.QueryRow(ctx, updateTransaction,
		arg.ID,
		arg.AccountID,
		arg.TransactionType,
		arg.Amount,
		arg.CategoryID,
		arg.Memo,
		arg.Reference,
		arg.PostedAt,
		arg.IsCleared,
	)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.TransactionType,
		&i.Amount,
		&i.CategoryID,
		&i.Memo,
		&i.Reference,
		&i.PostedAt,
		&i.IsCleared,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateTransactionNotes = `-- name: UpdateTransactionNotes :exec
UPDATE transactions
SET memo = $2,
    is_cleared = $3,
    updated_at = NOW()
WHERE id = $1
`

type UpdateTransactionNotesParams struct {
	ID        int32
	Memo      pgtype.Text
	IsCleared bool
}

func (q *Queries) UpdateTransactionNotes(ctx context.Context, arg UpdateTransactionNotesParams) error {
	_, err := q.db.Exec(ctx, updateTransactionNotes, arg.ID, arg.Memo, arg.IsCleared)
	return err
}
