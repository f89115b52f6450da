package service

import (
	"context"
	"time"

	"github.com/dafibh/household/household-backend/internal/domain"
	"github.com/dafibh/household/household-backend/internal/util"
)

// ServerTimeLayout renders the display clock, e.g. "2026-01-15 09:30:00 UTC"
const ServerTimeLayout = "2006-01-02 15:04:05 MST"

// LedgerService builds month-by-month views of an account's transactions
// in the configured display timezone
type LedgerService struct {
	accountRepo     domain.AccountRepository
	transactionRepo domain.TransactionRepository
	location        *time.Location
	now             func() time.Time
}

// NewLedgerService creates a new LedgerService. A nil location means UTC.
func NewLedgerService(accountRepo domain.AccountRepository, transactionRepo domain.TransactionRepository, location *time.Location) *LedgerService {
	if location == nil {
		location = time.UTC
	}
	return &LedgerService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		location:        location,
		now:             time.Now,
	}
}

// SetClock replaces the time source (for tests)
func (s *LedgerService) SetClock(now func() time.Time) {
	s.now = now
}

// Location returns the display timezone
func (s *LedgerService) Location() *time.Location {
	return s.location
}

// GetAccountLedger lists the account's transactions posted in the month named by
// monthToken ("YYYY-M"). A missing or malformed token selects the current month.
func (s *LedgerService) GetAccountLedger(ctx context.Context, accountID int32, monthToken string) (*domain.AccountLedger, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	window := domain.ParseMonthToken(monthToken, now, s.location)

	transactions, err := s.transactionRepo.ListByAccountBetween(ctx, account.ID, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	return &domain.AccountLedger{
		Account:       account,
		Month:         window,
		Label:         window.Label(),
		PreviousMonth: window.Previous().Token(),
		NextMonth:     window.Next().Token(),
		IsCurrent:     util.IsCurrentMonth(window.Year, window.Month, now, s.location),
		Transactions:  transactions,
	}, nil
}

// ServerTime is the display clock
type ServerTime struct {
	Time     time.Time `json:"time"`
	Display  string    `json:"display"`
	TimeZone string    `json:"timeZone"`
}

// ServerTime reports the current time in the display timezone
func (s *LedgerService) ServerTime() ServerTime {
	now := s.now().In(s.location)
	return ServerTime{
		Time:     now,
		Display:  now.Format(ServerTimeLayout),
		TimeZone: s.location.String(),
	}
}
