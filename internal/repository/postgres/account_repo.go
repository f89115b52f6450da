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

// AccountRepository implements domain.AccountRepository using PostgreSQL
type AccountRepository struct {
	pool    *pgxpool.Pool
	queries *sqlc.Queries
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{
		pool:    pool,
		queries: sqlc.New(pool),
	}
}

// Create validates and inserts a new account
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if err := domain.ValidateAccount(account).Err(); err != nil {
		return nil, err
	}

	params, err := accountParams(account)
	if err != nil {
		return nil, err
	}

	created, err := r.queries.CreateAccount(ctx, sqlc.CreateAccountParams{
		Name:          params.Name,
		AccountNumber: params.AccountNumber,
		AccountType:   params.AccountType,
		RoutingNumber: params.RoutingNumber,
		InterestRate:  params.InterestRate,
		DueDate:       params.DueDate,
		Balance:       params.Balance,
	})
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, domain.ErrAccountNumberTaken
		}
		return nil, err
	}
	return sqlcAccountToDomain(created), nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id int32) (*domain.Account, error) {
	account, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return sqlcAccountToDomain(account), nil
}

// GetAll retrieves every account ordered by name
func (r *AccountRepository) GetAll(ctx context.Context) ([]*domain.Account, error) {
	accounts, err := r.queries.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*domain.Account, len(accounts))
	for i, a := range accounts {
		result[i] = sqlcAccountToDomain(a)
	}
	return result, nil
}

// Update validates and overwrites every editable field of an account
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if err := domain.ValidateAccount(account).Err(); err != nil {
		return nil, err
	}

	params, err := accountParams(account)
	if err != nil {
		return nil, err
	}
	params.ID = account.ID

	updated, err := r.queries.UpdateAccount(ctx, params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		if isPgUniqueViolation(err) {
			return nil, domain.ErrAccountNumberTaken
		}
		return nil, err
	}
	return sqlcAccountToDomain(updated), nil
}

// Delete permanently removes an account; its transactions go with it (ON DELETE CASCADE)
func (r *AccountRepository) Delete(ctx context.Context, id int32) error {
	rows, err := r.queries.DeleteAccount(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// Helper functions

// accountParams converts the domain account into query parameters shared by insert and update
func accountParams(a *domain.Account) (sqlc.UpdateAccountParams, error) {
	balance, err := decimalToPgNumeric(a.Balance)
	if err != nil {
		return sqlc.UpdateAccountParams{}, fmt.Errorf("invalid balance: %w", err)
	}
	interestRate, err := decimalPtrToPgNumeric(a.InterestRate)
	if err != nil {
		return sqlc.UpdateAccountParams{}, fmt.Errorf("invalid interest rate: %w", err)
	}
	return sqlc.UpdateAccountParams{
		Name:          a.Name,
		AccountNumber: a.AccountNumber,
		AccountType:   string(a.AccountType),
		RoutingNumber: stringToPgText(a.RoutingNumber),
		InterestRate:  interestRate,
		DueDate:       timePtrToPgDate(a.DueDate),
		Balance:       balance,
	}, nil
}

func sqlcAccountToDomain(a sqlc.Account) *domain.Account {
	account := &domain.Account{
		ID:            a.ID,
		Name:          a.Name,
		AccountNumber: a.AccountNumber,
		AccountType:   domain.AccountType(a.AccountType),
		RoutingNumber: a.RoutingNumber.String,
		Balance:       pgNumericToDecimal(a.Balance),
		CreatedAt:     a.CreatedAt.Time,
		UpdatedAt:     a.UpdatedAt.Time,
	}
	if a.InterestRate.Valid {
		rate := pgNumericToDecimal(a.InterestRate)
		account.InterestRate = &rate
	}
	if a.DueDate.Valid {
		dueDate := a.DueDate.Time
		account.DueDate = &dueDate
	}
	return account
}
