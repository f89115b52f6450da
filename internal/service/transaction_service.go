package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/dafibh/household/household-backend/internal/domain"
	"github.com/dafibh/household/household-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	accountRepo     domain.AccountRepository
	categoryRepo    domain.CategoryRepository
	eventPublisher  websocket.EventPublisher
	now             func() time.Time
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, accountRepo domain.AccountRepository, categoryRepo domain.CategoryRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		categoryRepo:    categoryRepo,
		now:             time.Now,
	}
}

// SetClock replaces the time source blank posted times default to (for tests)
func (s *TransactionService) SetClock(now func() time.Time) {
	s.now = now
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *TransactionService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// TransactionInput holds the editable fields of a transaction
type TransactionInput struct {
	AccountID       int32
	TransactionType domain.TransactionType
	Amount          decimal.Decimal
	CategoryID      int32
	Memo            string
	Reference       string
	PostedAt        time.Time
	IsCleared       bool
}

// Transaction builds the normalized transaction the input describes, without an ID
func (in TransactionInput) Transaction() *domain.Transaction {
	t := &domain.Transaction{}
	in.apply(t)
	return t
}

func (in TransactionInput) apply(t *domain.Transaction) {
	t.AccountID = in.AccountID
	t.TransactionType = in.TransactionType
	t.Amount = in.Amount
	t.CategoryID = in.CategoryID
	t.Memo = in.Memo
	t.Reference = in.Reference
	t.PostedAt = in.PostedAt
	t.IsCleared = in.IsCleared
	t.Normalize()
}

// CreateTransaction validates the transaction against its account and stores it.
// A blank posted time means now.
func (s *TransactionService) CreateTransaction(ctx context.Context, input TransactionInput) (*domain.Transaction, websocket.Event, error) {
	transaction := input.Transaction()
	if transaction.PostedAt.IsZero() {
		transaction.PostedAt = s.now()
	}

	if err := s.validate(ctx, transaction); err != nil {
		return nil, websocket.Event{}, err
	}

	created, err := s.transactionRepo.Create(ctx, transaction)
	if err != nil {
		return nil, websocket.Event{}, err
	}

	event := websocket.TransactionCreated(created.ID, created.AccountID)
	s.publishEvent(event)
	return created, event, nil
}

// ValidateInput checks input without storing it, looking up the referenced account
// and category. A blank posted time is not an error.
func (s *TransactionService) ValidateInput(ctx context.Context, input TransactionInput) error {
	transaction := input.Transaction()
	if transaction.PostedAt.IsZero() {
		transaction.PostedAt = s.now()
	}
	return s.validate(ctx, transaction)
}

// GetTransaction retrieves a transaction by ID
func (s *TransactionService) GetTransaction(ctx context.Context, id int32) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(ctx, id)
}

// UpdateTransaction replaces every editable field except a blank posted time,
// which keeps the stored one. When the account changes the
// published event names both the old and the new account.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id int32, input TransactionInput) (*domain.Transaction, websocket.Event, error) {
	existing, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, websocket.Event{}, err
	}
	previousAccountID := existing.AccountID

	transaction := &domain.Transaction{ID: existing.ID, CreatedAt: existing.CreatedAt}
	input.apply(transaction)
	if transaction.PostedAt.IsZero() {
		transaction.PostedAt = existing.PostedAt
	}

	if err := s.validate(ctx, transaction); err != nil {
		return nil, websocket.Event{}, err
	}

	updated, err := s.transactionRepo.Update(ctx, transaction)
	if err != nil {
		return nil, websocket.Event{}, err
	}

	event := websocket.TransactionUpdated(updated.ID, previousAccountID, updated.AccountID)
	s.publishEvent(event)
	return updated, event, nil
}

// DeleteTransaction removes a transaction
func (s *TransactionService) DeleteTransaction(ctx context.Context, id int32) (websocket.Event, error) {
	existing, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return websocket.Event{}, err
	}

	if err := s.transactionRepo.Delete(ctx, id); err != nil {
		return websocket.Event{}, err
	}

	event := websocket.TransactionDeleted(id, existing.AccountID)
	s.publishEvent(event)
	return event, nil
}

// TransactionList is one page of the transaction listing plus the account filter
// it was narrowed by ("" when unfiltered)
type TransactionList struct {
	*domain.PaginatedTransactions
	SelectedAccount string `json:"selectedAccount"`
}

// ListTransactions lists transactions newest first. The account filter is the raw
// query value; "", "None" and malformed values list every account.
func (s *TransactionService) ListTransactions(ctx context.Context, account string, page, pageSize int32) (*TransactionList, error) {
	filters := &domain.TransactionFilters{
		AccountID: domain.ParseAccountFilter(account),
		Page:      page,
		PageSize:  pageSize,
	}

	result, err := s.transactionRepo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	list := &TransactionList{PaginatedTransactions: result}
	if filters.AccountID != nil {
		list.SelectedAccount = formatID(*filters.AccountID)
	}
	return list, nil
}

// FormOptionsInput carries the hints a transaction form can narrow its choices by
type FormOptionsInput struct {
	TransactionID      *int32
	InitialAccountID   *int32
	SubmittedAccountID *int32
}

// Choice is a value/label pair for a select input
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// TransactionFormOptions are the picker contents for a transaction form
type TransactionFormOptions struct {
	AccountID        *int32               `json:"accountId"`
	AccountSource    domain.AccountSource `json:"accountSource"`
	Account          *domain.Account      `json:"account,omitempty"`
	TransactionTypes []Choice             `json:"transactionTypes"`
	Categories       []*domain.Category   `json:"categories"`
}

// FormOptions resolves the form's account, then restricts the type choices to
// what that account allows. Without a known account every type is offered.
func (s *TransactionService) FormOptions(ctx context.Context, input FormOptionsInput) (*TransactionFormOptions, error) {
	hints := domain.FormAccountHints{
		Initial:   input.InitialAccountID,
		Submitted: input.SubmittedAccountID,
	}
	if input.TransactionID != nil {
		existing, err := s.transactionRepo.GetByID(ctx, *input.TransactionID)
		if err != nil {
			return nil, err
		}
		hints.Instance = &existing.AccountID
	}

	resolved := domain.ResolveFormAccount(hints)
	options := &TransactionFormOptions{AccountSource: resolved.Source}
	types := domain.TransactionTypes

	if resolved.Known() {
		account, err := s.accountRepo.GetByID(ctx, resolved.AccountID)
		switch {
		case err == nil:
			options.AccountID = &account.ID
			options.Account = account
			types = domain.AllowedTransactionTypes(account.AccountType)
		case errors.Is(err, domain.ErrAccountNotFound):
			options.AccountSource = domain.AccountSourceNone
		default:
			return nil, err
		}
	}

	options.TransactionTypes = make([]Choice, len(types))
	for i, t := range types {
		options.TransactionTypes[i] = Choice{Value: string(t), Label: t.Label()}
	}

	categories, err := s.categoryRepo.GetAll(ctx, true)
	if err != nil {
		return nil, err
	}
	options.Categories = categories
	return options, nil
}

// validate runs the transaction rules with the referenced account and category
// looked up, collecting every violation
func (s *TransactionService) validate(ctx context.Context, t *domain.Transaction) error {
	errs := domain.ValidationErrors{}

	var account *domain.Account
	if t.AccountID != 0 {
		found, err := s.accountRepo.GetByID(ctx, t.AccountID)
		switch {
		case err == nil:
			account = found
		case errors.Is(err, domain.ErrAccountNotFound):
			errs.Add(domain.FieldAccount, "Select a valid account.")
		default:
			return err
		}
	}

	if t.CategoryID != 0 {
		_, err := s.categoryRepo.GetByID(ctx, t.CategoryID)
		switch {
		case errors.Is(err, domain.ErrCategoryNotFound):
			errs.Add(domain.FieldCategory, "Select a valid category.")
		case err != nil:
			return err
		}
	}

	for field, msg := range domain.ValidateTransaction(t, account) {
		errs.Add(field, msg)
	}
	return errs.Err()
}

func formatID(id int32) string {
	return strconv.FormatInt(int64(id), 10)
}
