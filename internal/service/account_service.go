package service

import (
	"context"
	"time"

	"github.com/dafibh/household/household-backend/internal/domain"
	"github.com/dafibh/household/household-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// AccountService handles account-related business logic
type AccountService struct {
	accountRepo    domain.AccountRepository
	eventPublisher websocket.EventPublisher
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo domain.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *AccountService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *AccountService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// AccountInput holds the editable fields of an account
type AccountInput struct {
	Name          string
	AccountNumber string
	AccountType   domain.AccountType
	RoutingNumber string
	InterestRate  *decimal.Decimal
	DueDate       *time.Time
	Balance       decimal.Decimal
}

// Account builds the normalized account the input describes, without an ID
func (in AccountInput) Account() *domain.Account {
	account := &domain.Account{}
	in.apply(account)
	return account
}

func (in AccountInput) apply(account *domain.Account) {
	account.Name = in.Name
	account.AccountNumber = in.AccountNumber
	account.AccountType = in.AccountType
	account.RoutingNumber = in.RoutingNumber
	account.InterestRate = in.InterestRate
	account.DueDate = in.DueDate
	account.Balance = in.Balance
	account.Normalize()
}

// CreateAccount validates the account against its type's field rules and stores it
func (s *AccountService) CreateAccount(ctx context.Context, input AccountInput) (*domain.Account, websocket.Event, error) {
	account := input.Account()

	if err := domain.ValidateAccount(account).Err(); err != nil {
		return nil, websocket.Event{}, err
	}

	created, err := s.accountRepo.Create(ctx, account)
	if err != nil {
		return nil, websocket.Event{}, err
	}

	event := websocket.AccountCreated(created.ID)
	s.publishEvent(event)
	return created, event, nil
}

// GetAccounts retrieves all accounts ordered by name
func (s *AccountService) GetAccounts(ctx context.Context) ([]*domain.Account, error) {
	return s.accountRepo.GetAll(ctx)
}

// GetAccountByID retrieves an account by ID
func (s *AccountService) GetAccountByID(ctx context.Context, id int32) (*domain.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

// UpdateAccount replaces every editable field of an existing account
func (s *AccountService) UpdateAccount(ctx context.Context, id int32, input AccountInput) (*domain.Account, websocket.Event, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, websocket.Event{}, err
	}
	input.apply(account)

	if err := domain.ValidateAccount(account).Err(); err != nil {
		return nil, websocket.Event{}, err
	}

	updated, err := s.accountRepo.Update(ctx, account)
	if err != nil {
		return nil, websocket.Event{}, err
	}

	event := websocket.AccountUpdated(updated.ID)
	s.publishEvent(event)
	return updated, event, nil
}

// DeleteAccount removes an account and every transaction posted to it
func (s *AccountService) DeleteAccount(ctx context.Context, id int32) (websocket.Event, error) {
	if err := s.accountRepo.Delete(ctx, id); err != nil {
		return websocket.Event{}, err
	}

	event := websocket.AccountDeleted(id)
	s.publishEvent(event)
	return event, nil
}

// FieldRules returns the per-type field requirement table in display order
func (s *AccountService) FieldRules() []AccountTypeRules {
	rules := make([]AccountTypeRules, 0, len(domain.AccountTypes))
	for _, t := range domain.AccountTypes {
		rules = append(rules, AccountTypeRules{
			AccountType: t,
			Label:       t.Label(),
			Fields:      domain.AccountFieldRules[t],
		})
	}
	return rules
}

// AccountTypeRules is one row of the field requirement table as served to clients
type AccountTypeRules struct {
	AccountType domain.AccountType     `json:"accountType"`
	Label       string                 `json:"label"`
	Fields      domain.AccountFieldRule `json:"fields"`
}
