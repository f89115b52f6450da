// Queries from db/queries/accounts.sql

package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createAccount = `-- name: CreateAccount :one
INSERT INTO accounts (name, account_number, account_type, routing_number, interest_rate, due_date, balance)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, name, account_number, account_type, routing_number, interest_rate, due_date, balance, created_at, updated_at
`

type CreateAccountParams struct {
	Name          string
	AccountNumber string
	AccountType   string
	RoutingNumber pgtype.Text
	InterestRate  pgtype.Numeric
	DueDate       pgtype.Date
	Balance       pgtype.Numeric
}

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) (Account, error) {
	row := q.db.QueryRow(ctx, createAccount,
		arg.Name,
		arg.AccountNumber,
		arg.AccountType,
		arg.RoutingNumber,
		arg.InterestRate,
		arg.DueDate,
		arg.Balance,
	)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.AccountNumber,
		&i.AccountType,
		&i.RoutingNumber,
		&i.InterestRate,
		&i.DueDate,
		&i.Balance,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteAccount = `-- name: DeleteAccount :execrows
DELETE FROM accounts
WHERE id = $1
`

func (q *Queries) DeleteAccount(ctx context.Context, id int32) (int64, error) {
	result, err := q.db.Exec(ctx, deleteAccount, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getAccountByID = `-- name: GetAccountByID :one
SELECT id, name, account_number, account_type, routing_number, interest_rate, due_date, balance, created_at, updated_at FROM accounts
WHERE id = $1
`

func (q *Queries) GetAccountByID(ctx context.Context, id int32) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByID, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.AccountNumber,
		&i.AccountType,
		&i.RoutingNumber,
		&i.InterestRate,
		&i.DueDate,
		&i.Balance,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listAccounts = `-- name: ListAccounts :many
SELECT id, name, account_number, account_type, routing_number, interest_rate, due_date, balance, created_at, updated_at FROM accounts
ORDER BY name, id
`

func (q *Queries) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := q.db.Query(ctx, listAccounts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.AccountNumber,
			&i.AccountType,
			&i.RoutingNumber,
			&i.InterestRate,
			&i.DueDate,
			&i.Balance,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const updateAccount = `-- name: UpdateAccount :one
UPDATE accounts
SET name = $2,
    account_number = $3,
    account_type = $4,
    routing_number = $5,
    interest_rate = $6,
    due_date = $7,
    balance = $8,
    updated_at = NOW()
WHERE id = $1
RETURNING id, name, account_number, account_type, routing_number, interest_rate, due_date, balance, created_at, updated_at
`

type UpdateAccountParams struct {
	ID            int32
	Name          string
	AccountNumber string
	AccountType   string
	RoutingNumber pgtype.Text
	InterestRate  pgtype.Numeric
	DueDate       pgtype.Date
	Balance       pgtype.Numeric
}

func (q *Queries) UpdateAccount(ctx context.Context, arg UpdateAccountParams) (Account, error) {
	row := q.db.QueryRow(ctx, updateAccount,
		arg.ID,
		arg.Name,
		arg.AccountNumber,
		arg.AccountType,
		arg.RoutingNumber,
		arg.InterestRate,
		arg.DueDate,
		arg.Balance,
	)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.AccountNumber,
		&i.AccountType,
		&i.RoutingNumber,
		&i.InterestRate,
		&i.DueDate,
		&i.Balance,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertAccountByNumber = `-- name: UpsertAccountByNumber :one
INSERT INTO accounts (name, account_number, account_type, routing_number, interest_rate, due_date, balance)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (account_number) DO UPDATE
SET name = EXCLUDED.name,
    account_type = EXCLUDED.account_type,
    routing_number = EXCLUDED.routing_number,
    interest_rate = EXCLUDED.interest_rate,
    due_date = EXCLUDED.due_date,
    balance = EXCLUDED.balance,
    updated_at = NOW()
RETURNING id, name, account_number, account_type, routing_number, interest_rate, due_date, balance, created_at, updated_at
`

type UpsertAccountByNumberParams struct {
	Name          string
	AccountNumber string
	AccountType   string
	RoutingNumber pgtype.Text
	InterestRate  pgtype.Numeric
	DueDate       pgtype.Date
	Balance       pgtype.Numeric
}

func (q *Queries) UpsertAccountByNumber(ctx context.Context, arg UpsertAccountByNumberParams) (Account, error) {
	row := q.db.QueryRow(ctx, upsertAccountByNumber,
		arg.Name,
		arg.AccountNumber,
		arg.AccountType,
		arg.RoutingNumber,
		arg.InterestRate,
		arg.DueDate,
		arg.Balance,
	)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.AccountNumber,
		&i.AccountType,
		&i.RoutingNumber,
		&i.InterestRate,
		&i.DueDate,
		&i.Balance,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
