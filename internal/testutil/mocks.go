package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dafibh/household/household-backend/internal/domain"
	"github.com/dafibh/household/household-backend/internal/websocket"
)

// MockAccountRepository is a mock implementation of domain.AccountRepository
type MockAccountRepository struct {
	Accounts map[int32]*domain.Account
	NextID   int32
	// Transactions, when set, receives the cascade on Delete
	Transactions *MockTransactionRepository
	CreateFn     func(account *domain.Account) (*domain.Account, error)
	UpdateFn     func(account *domain.Account) (*domain.Account, error)
	GetAllFn     func() ([]*domain.Account, error)
}

// NewMockAccountRepository creates a new MockAccountRepository
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		Accounts: make(map[int32]*domain.Account),
		NextID:   1,
	}
}

// Create validates and stores the account, rejecting duplicate account numbers
func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if m.CreateFn != nil {
		return m.CreateFn(account)
	}
	if err := domain.ValidateAccount(account).Err(); err != nil {
		return nil, err
	}
	if m.numberTaken(account.AccountNumber, 0) {
		return nil, domain.ErrAccountNumberTaken
	}
	saved := *account
	saved.ID = m.NextID
	m.NextID++
	saved.CreatedAt = time.Now()
	saved.UpdatedAt = saved.CreatedAt
	m.Accounts[saved.ID] = &saved
	return copyAccount(&saved), nil
}

// GetByID retrieves an account by ID
func (m *MockAccountRepository) GetByID(ctx context.Context, id int32) (*domain.Account, error) {
	if account, ok := m.Accounts[id]; ok {
		return copyAccount(account), nil
	}
	return nil, domain.ErrAccountNotFound
}

// GetAll returns every account ordered by name
func (m *MockAccountRepository) GetAll(ctx context.Context) ([]*domain.Account, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn()
	}
	result := make([]*domain.Account, 0, len(m.Accounts))
	for _, account := range m.Accounts {
		result = append(result, copyAccount(account))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name == result[j].Name {
			return result[i].ID < result[j].ID
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// Update validates and replaces an existing account
func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(account)
	}
	existing, ok := m.Accounts[account.ID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if err := domain.ValidateAccount(account).Err(); err != nil {
		return nil, err
	}
	if m.numberTaken(account.AccountNumber, account.ID) {
		return nil, domain.ErrAccountNumberTaken
	}
	saved := *account
	saved.CreatedAt = existing.CreatedAt
	saved.UpdatedAt = time.Now()
	m.Accounts[saved.ID] = &saved
	return copyAccount(&saved), nil
}

// Delete removes the account and, when linked, its transactions
func (m *MockAccountRepository) Delete(ctx context.Context, id int32) error {
	if _, ok := m.Accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(m.Accounts, id)
	if m.Transactions != nil {
		for txID, t := range m.Transactions.Transactions {
			if t.AccountID == id {
				delete(m.Transactions.Transactions, txID)
			}
		}
	}
	return nil
}

// AddAccount adds an account to the mock repository (helper for tests)
func (m *MockAccountRepository) AddAccount(account *domain.Account) {
	m.Accounts[account.ID] = account
	if account.ID >= m.NextID {
		m.NextID = account.ID + 1
	}
}

func (m *MockAccountRepository) numberTaken(number string, exceptID int32) bool {
	for _, a := range m.Accounts {
		if a.ID != exceptID && a.AccountNumber == number {
			return true
		}
	}
	return false
}

func copyAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository.
// Accounts and Categories, when set, stand in for the foreign keys.
type MockTransactionRepository struct {
	Transactions map[int32]*domain.Transaction
	NextID       int32
	Accounts     *MockAccountRepository
	Categories   *MockCategoryRepository
	CreateFn     func(transaction *domain.Transaction) (*domain.Transaction, error)
	UpdateFn     func(transaction *domain.Transaction) (*domain.Transaction, error)
	ListFn       func(filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error)
	// LastFilters records the filters of the most recent List call
	LastFilters *domain.TransactionFilters
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		NextID:       1,
	}
}

// Create validates and stores the transaction
func (m *MockTransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	if err := m.validate(transaction); err != nil {
		return nil, err
	}
	saved := *transaction
	saved.ID = m.NextID
	m.NextID++
	saved.CreatedAt = time.Now()
	saved.UpdatedAt = saved.CreatedAt
	m.Transactions[saved.ID] = &saved
	return m.withCategoryName(&saved), nil
}

// GetByID retrieves a transaction by ID
func (m *MockTransactionRepository) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	if t, ok := m.Transactions[id]; ok {
		return m.withCategoryName(t), nil
	}
	return nil, domain.ErrTransactionNotFound
}

// List filters and paginates newest first
func (m *MockTransactionRepository) List(ctx context.Context, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	m.LastFilters = filters
	if m.ListFn != nil {
		return m.ListFn(filters)
	}
	page, pageSize, offset := filters.Window()
	if filters == nil {
		filters = &domain.TransactionFilters{}
	}

	var matched []*domain.Transaction
	for _, t := range m.Transactions {
		if filters.AccountID != nil && t.AccountID != *filters.AccountID {
			continue
		}
		if filters.StartDate != nil && t.PostedAt.Before(*filters.StartDate) {
			continue
		}
		if filters.EndDate != nil && t.PostedAt.After(*filters.EndDate) {
			continue
		}
		matched = append(matched, m.withCategoryName(t))
	}
	sortNewestFirst(matched)

	total := int64(len(matched))
	start := int(offset)
	if start > len(matched) {
		start = len(matched)
	}
	end := start + int(pageSize)
	if end > len(matched) {
		end = len(matched)
	}

	return &domain.PaginatedTransactions{
		Data:       matched[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: domain.PageCount(total, pageSize),
	}, nil
}

// ListByAccountBetween returns one account's transactions inside [start, end], newest first
func (m *MockTransactionRepository) ListByAccountBetween(ctx context.Context, accountID int32, start, end time.Time) ([]*domain.Transaction, error) {
	result := make([]*domain.Transaction, 0)
	for _, t := range m.Transactions {
		if t.AccountID != accountID || t.PostedAt.Before(start) || t.PostedAt.After(end) {
			continue
		}
		result = append(result, m.withCategoryName(t))
	}
	sortNewestFirst(result)
	return result, nil
}

// Update validates and replaces an existing transaction
func (m *MockTransactionRepository) Update(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(transaction)
	}
	existing, ok := m.Transactions[transaction.ID]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	if err := m.validate(transaction); err != nil {
		return nil, err
	}
	saved := *transaction
	saved.CreatedAt = existing.CreatedAt
	saved.UpdatedAt = time.Now()
	m.Transactions[saved.ID] = &saved
	return m.withCategoryName(&saved), nil
}

// Delete removes a transaction
func (m *MockTransactionRepository) Delete(ctx context.Context, id int32) error {
	if _, ok := m.Transactions[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	return nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	m.Transactions[transaction.ID] = transaction
	if transaction.ID >= m.NextID {
		m.NextID = transaction.ID + 1
	}
}

// CountByCategory counts transactions referencing a category
func (m *MockTransactionRepository) CountByCategory(categoryID int32) int64 {
	var count int64
	for _, t := range m.Transactions {
		if t.CategoryID == categoryID {
			count++
		}
	}
	return count
}

func (m *MockTransactionRepository) validate(t *domain.Transaction) error {
	var account *domain.Account
	errs := domain.ValidationErrors{}
	if m.Accounts != nil && t.AccountID != 0 {
		account = m.Accounts.Accounts[t.AccountID]
		if account == nil {
			errs.Add(domain.FieldAccount, "Select a valid account.")
		}
	}
	if m.Categories != nil && t.CategoryID != 0 {
		if _, ok := m.Categories.Categories[t.CategoryID]; !ok {
			errs.Add(domain.FieldCategory, "Select a valid category.")
		}
	}
	for field, msg := range domain.ValidateTransaction(t, account) {
		errs.Add(field, msg)
	}
	return errs.Err()
}

func (m *MockTransactionRepository) withCategoryName(t *domain.Transaction) *domain.Transaction {
	c := *t
	if m.Categories != nil {
		if category, ok := m.Categories.Categories[t.CategoryID]; ok {
			c.CategoryName = category.Name
		}
	}
	return &c
}

func sortNewestFirst(ts []*domain.Transaction) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].PostedAt.Equal(ts[j].PostedAt) {
			return ts[i].ID > ts[j].ID
		}
		return ts[i].PostedAt.After(ts[j].PostedAt)
	})
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[int32]*domain.Category
	NextID     int32
	// Transactions, when set, supplies reference counts and blocks deleting referenced categories
	Transactions *MockTransactionRepository
	CountFn      func(id int32) (int64, error)
	DeleteFn     func(id int32) error
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int32]*domain.Category),
		NextID:     1,
	}
}

// Create stores a category, rejecting duplicate names or slugs
func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	for _, c := range m.Categories {
		if strings.EqualFold(c.Name, category.Name) || c.Slug == category.Slug {
			return nil, domain.ErrCategoryExists
		}
	}
	saved := *category
	saved.ID = m.NextID
	m.NextID++
	saved.CreatedAt = time.Now()
	saved.UpdatedAt = saved.CreatedAt
	m.Categories[saved.ID] = &saved
	return copyCategory(&saved), nil
}

// GetByID retrieves a category by ID
func (m *MockCategoryRepository) GetByID(ctx context.Context, id int32) (*domain.Category, error) {
	if c, ok := m.Categories[id]; ok {
		return copyCategory(c), nil
	}
	return nil, domain.ErrCategoryNotFound
}

// GetByName retrieves a category by case-insensitive name
func (m *MockCategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	for _, c := range m.Categories {
		if strings.EqualFold(c.Name, name) {
			return copyCategory(c), nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

// SlugExists reports whether any category uses slug
func (m *MockCategoryRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	for _, c := range m.Categories {
		if c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

// GetAll returns categories ordered by name
func (m *MockCategoryRepository) GetAll(ctx context.Context, activeOnly bool) ([]*domain.Category, error) {
	result := make([]*domain.Category, 0, len(m.Categories))
	for _, c := range m.Categories {
		if activeOnly && !c.IsActive {
			continue
		}
		result = append(result, copyCategory(c))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Update changes name and active flag
func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	existing, ok := m.Categories[category.ID]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	existing.Name = category.Name
	existing.IsActive = category.IsActive
	existing.UpdatedAt = time.Now()
	return copyCategory(existing), nil
}

// CountTransactions counts transactions referencing the category
func (m *MockCategoryRepository) CountTransactions(ctx context.Context, id int32) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(id)
	}
	if m.Transactions == nil {
		return 0, nil
	}
	return m.Transactions.CountByCategory(id), nil
}

// Delete removes a category unless transactions still reference it
func (m *MockCategoryRepository) Delete(ctx context.Context, id int32) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(id)
	}
	if _, ok := m.Categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	if m.Transactions != nil && m.Transactions.CountByCategory(id) > 0 {
		return domain.ErrCategoryProtected
	}
	delete(m.Categories, id)
	return nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	m.Categories[category.ID] = category
	if category.ID >= m.NextID {
		m.NextID = category.ID + 1
	}
}

func copyCategory(c *domain.Category) *domain.Category {
	cc := *c
	return &cc
}

// MockSeedRepository is a mock implementation of domain.SeedRepository
type MockSeedRepository struct {
	Calls   []*domain.SeedData
	DryRuns []bool
	ApplyFn func(data *domain.SeedData, dryRun bool) (*domain.SeedResult, error)
}

// NewMockSeedRepository creates a new MockSeedRepository
func NewMockSeedRepository() *MockSeedRepository {
	return &MockSeedRepository{}
}

// Apply records the call and reports every record as created
func (m *MockSeedRepository) Apply(ctx context.Context, data *domain.SeedData, dryRun bool) (*domain.SeedResult, error) {
	m.Calls = append(m.Calls, data)
	m.DryRuns = append(m.DryRuns, dryRun)
	if m.ApplyFn != nil {
		return m.ApplyFn(data, dryRun)
	}
	return &domain.SeedResult{
		CategoriesCreated:   len(data.Categories),
		AccountsUpserted:    len(data.Accounts),
		TransactionsCreated: len(data.Transactions),
		DryRun:              dryRun,
	}, nil
}

// NewLinkedRepositories returns account, transaction and category mocks wired to
// each other the way foreign keys tie the tables together
func NewLinkedRepositories() (*MockAccountRepository, *MockTransactionRepository, *MockCategoryRepository) {
	accounts := NewMockAccountRepository()
	transactions := NewMockTransactionRepository()
	categories := NewMockCategoryRepository()

	accounts.Transactions = transactions
	transactions.Accounts = accounts
	transactions.Categories = categories
	categories.Transactions = transactions
	return accounts, transactions, categories
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []websocket.Event
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// Last returns the most recently published event
func (m *MockEventPublisher) Last() (websocket.Event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Events) == 0 {
		return websocket.Event{}, false
	}
	return m.Events[len(m.Events)-1], true
}
