package sqlc

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Account struct {
	ID            int32
	Name          string
	AccountNumber string
	AccountType   string
	RoutingNumber pgtype.Text
	InterestRate  pgtype.Numeric
	DueDate       pgtype.Date
	Balance       pgtype.Numeric
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

type Category struct {
	ID        int32
	Name      string
	Slug      string
	IsActive  bool
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type Transaction struct {
	ID              int32
	AccountID       int32
	TransactionType string
	Amount          pgtype.Numeric
	CategoryID      int32
	Memo            pgtype.Text
	Reference       pgtype.Text
	PostedAt        pgtype.Timestamptz
	IsCleared       bool
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}
