package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dafibh/household/household-backend/db/sqlc"
	"github.com/dafibh/household/household-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// stubAccounts serves GetAccountByID from a map; missing ids are pgx.ErrNoRows
type stubAccounts struct {
	accounts map[int32]sqlc.Account
	err      error
	calls    int
}

func (s *stubAccounts) GetAccountByID(ctx context.Context, id int32) (sqlc.Account, error) {
	s.calls++
	if s.err != nil {
		return sqlc.Account{}, s.err
	}
	a, ok := s.accounts[id]
	if !ok {
		return sqlc.Account{}, pgx.ErrNoRows
	}
	return a, nil
}

func newStubAccounts() *stubAccounts {
	return &stubAccounts{accounts: map[int32]sqlc.Account{
		1: {
			ID:            1,
			Name:          "Everyday",
			AccountNumber: "CHK-001",
			AccountType:   string(domain.AccountTypeChecking),
			RoutingNumber: pgtype.Text{String: "021000021", Valid: true},
		},
		2: {
			ID:            2,
			Name:          "Visa",
			AccountNumber: "CC-002",
			AccountType:   string(domain.AccountTypeCreditCard),
			InterestRate:  mustNumeric("21.50"),
			DueDate:       pgtype.Date{Time: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), Valid: true},
		},
	}}
}

func mustNumeric(s string) pgtype.Numeric {
	n, err := decimalToPgNumeric(decimal.RequireFromString(s))
	if err != nil {
		panic(err)
	}
	return n
}

func storedTransaction(accountID int32, txType domain.TransactionType, amount string) *domain.Transaction {
	return &domain.Transaction{
		AccountID:       accountID,
		TransactionType: txType,
		Amount:          decimal.RequireFromString(amount),
		CategoryID:      1,
		PostedAt:        time.Date(2026, 2, 3, 10, 30, 0, 0, time.UTC),
	}
}

func TestValidateTransactionWithTx(t *testing.T) {
	tests := []struct {
		name        string
		transaction *domain.Transaction
		field       string
		msg         string
	}{
		{"valid expense on checking", storedTransaction(1, domain.TransactionTypeExpense, "12.00"), "", ""},
		{"charge on credit card", storedTransaction(2, domain.TransactionTypeCharge, "40.00"), "", ""},
		{"expense on credit card", storedTransaction(2, domain.TransactionTypeExpense, "40.00"), domain.FieldTransactionType, ""},
		{"zero amount", storedTransaction(1, domain.TransactionTypeIncome, "0"), domain.FieldAmount, ""},
		{"unknown account", storedTransaction(99, domain.TransactionTypeIncome, "5"), domain.FieldAccount, "Select a valid account."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTransactionWithTx(context.Background(), newStubAccounts(), tt.transaction)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			verrs, ok := domain.AsValidationErrors(err)
			if !ok {
				t.Fatalf("Expected validation errors, got %v", err)
			}
			msg, ok := verrs[tt.field]
			if !ok {
				t.Fatalf("Expected an error for %s, got %v", tt.field, verrs)
			}
			if tt.msg != "" && msg != tt.msg {
				t.Errorf("Expected %q, got %q", tt.msg, msg)
			}
		})
	}
}

func TestValidateTransactionWithTx_MissingAccountSkipsLookup(t *testing.T) {
	accounts := newStubAccounts()
	err := validateTransactionWithTx(context.Background(), accounts, storedTransaction(0, domain.TransactionTypeIncome, "5"))

	if _, ok := domain.AsValidationErrors(err); !ok {
		t.Fatalf("Expected validation errors, got %v", err)
	}
	if accounts.calls != 0 {
		t.Errorf("Expected no account lookup without an account id, got %d", accounts.calls)
	}
}

func TestValidateTransactionWithTx_LookupFailure(t *testing.T) {
	accounts := newStubAccounts()
	accounts.err = errors.New("connection reset")

	err := validateTransactionWithTx(context.Background(), accounts, storedTransaction(1, domain.TransactionTypeIncome, "5"))
	if !errors.Is(err, accounts.err) {
		t.Fatalf("Expected the lookup error, got %v", err)
	}
	if _, ok := domain.AsValidationErrors(err); ok {
		t.Error("A lookup failure must not be reported as a field error")
	}
}

func TestMapTransactionWriteError(t *testing.T) {
	fk := func(constraint string) error {
		return fmt.Errorf("insert transaction: %w", &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: constraint})
	}

	tests := []struct {
		name  string
		err   error
		field string
	}{
		{"category reference", fk("transactions_category_id_fkey"), domain.FieldCategory},
		{"account reference", fk("transactions_account_id_fkey"), domain.FieldAccount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verrs, ok := domain.AsValidationErrors(mapTransactionWriteError(tt.err))
			if !ok {
				t.Fatalf("Expected validation errors, got %v", tt.err)
			}
			if _, ok := verrs[tt.field]; !ok {
				t.Errorf("Expected an error for %s, got %v", tt.field, verrs)
			}
		})
	}

	other := errors.New("disk full")
	if got := mapTransactionWriteError(other); got != other {
		t.Errorf("Expected unrelated errors to pass through, got %v", got)
	}
}
