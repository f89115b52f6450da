package domain

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeExpense    TransactionType = "expense"
	TransactionTypeIncome     TransactionType = "income"
	TransactionTypeCharge     TransactionType = "charge"
	TransactionTypePayment    TransactionType = "payment"
	TransactionTypeTransfer   TransactionType = "transfer"
	TransactionTypeAdjustment TransactionType = "adjustment"
)

// TransactionTypes lists every transaction type in display order
var TransactionTypes = []TransactionType{
	TransactionTypeExpense,
	TransactionTypeIncome,
	TransactionTypeCharge,
	TransactionTypePayment,
	TransactionTypeTransfer,
	TransactionTypeAdjustment,
}

// RestrictedTransactionTypes are the only types credit card and loan accounts accept
var RestrictedTransactionTypes = []TransactionType{
	TransactionTypePayment,
	TransactionTypeCharge,
}

// Label returns the human-readable name of the transaction type
func (t TransactionType) Label() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// IsValid reports whether t is a known transaction type
func (t TransactionType) IsValid() bool {
	for _, known := range TransactionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// AllowedTransactionTypes returns the transaction types offered for an account type.
// An empty account type means no account is known yet, so every type is offered.
func AllowedTransactionTypes(accountType AccountType) []TransactionType {
	if accountType.IsRestricted() {
		return RestrictedTransactionTypes
	}
	return TransactionTypes
}

// IsTransactionTypeAllowed reports whether txType may be recorded against accountType
func IsTransactionTypeAllowed(accountType AccountType, txType TransactionType) bool {
	for _, allowed := range AllowedTransactionTypes(accountType) {
		if allowed == txType {
			return true
		}
	}
	return false
}

type Transaction struct {
	ID              int32           `json:"id"`
	AccountID       int32           `json:"accountId"`
	TransactionType TransactionType `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"`
	CategoryID      int32           `json:"categoryId"`
	CategoryName    string          `json:"categoryName,omitempty"`
	Memo            string          `json:"memo,omitempty"`
	Reference       string          `json:"reference,omitempty"`
	PostedAt        time.Time       `json:"postedAt"`
	IsCleared       bool            `json:"isCleared"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// SignedAmount expresses the amount with the sign of its effect on the balance.
// Expenses and payments are negative, income and charges positive. Transfers and
// adjustments have no inherent direction, so they are returned as a positive
// magnitude and the caller decides how to present them.
func (t *Transaction) SignedAmount() decimal.Decimal {
	switch t.TransactionType {
	case TransactionTypeExpense, TransactionTypePayment:
		return t.Amount.Abs().Neg()
	default:
		return t.Amount.Abs()
	}
}

// Normalize trims free text and rounds the amount to two places.
func (t *Transaction) Normalize() {
	t.Memo = strings.TrimSpace(t.Memo)
	t.Reference = strings.TrimSpace(t.Reference)
	t.Amount = t.Amount.Round(2)
}

// Field names used as keys in ValidationErrors
const (
	FieldAccount         = "account"
	FieldTransactionType = "transaction_type"
	FieldAmount          = "amount"
	FieldCategory        = "category"
	FieldMemo            = "memo"
	FieldReference       = "reference"
	FieldPostedAt        = "posted_at"
)

var maxTransactionAmount = decimal.New(1, 10)

// ValidateTransaction checks a transaction against the rules that do not need the
// store beyond its owning account. account may be nil when the referenced account
// could not be found; the caller reports that separately.
func ValidateTransaction(t *Transaction, account *Account) ValidationErrors {
	errs := ValidationErrors{}

	if !t.Amount.IsPositive() {
		errs.Add(FieldAmount, "Amount must be greater than zero.")
	} else if t.Amount.GreaterThanOrEqual(maxTransactionAmount) {
		errs.Add(FieldAmount, "Amount must have at most 10 digits before the decimal point.")
	}

	if !t.TransactionType.IsValid() {
		errs.Add(FieldTransactionType, "Transaction type must be one of: expense, income, charge, payment, transfer, adjustment.")
	} else if account != nil && !IsTransactionTypeAllowed(account.AccountType, t.TransactionType) {
		errs.Add(FieldTransactionType, "Credit card and loan accounts only allow payment or charge transactions.")
	}

	if t.AccountID == 0 {
		errs.Add(FieldAccount, "Account is required.")
	}
	if t.CategoryID == 0 {
		errs.Add(FieldCategory, "Category is required.")
	}
	if t.PostedAt.IsZero() {
		errs.Add(FieldPostedAt, "Posted at is required.")
	}
	if utf8.RuneCountInString(t.Memo) > MaxTransactionMemoLen {
		errs.Add(FieldMemo, "Memo must be 255 characters or less.")
	}
	if utf8.RuneCountInString(t.Reference) > MaxTransactionRefLength {
		errs.Add(FieldReference, "Reference must be 100 characters or less.")
	}

	return errs
}

// AccountSource names where the account for a transaction form came from
type AccountSource string

const (
	AccountSourceInstance  AccountSource = "instance"
	AccountSourceInitial   AccountSource = "initial"
	AccountSourceSubmitted AccountSource = "submitted"
	AccountSourceNone      AccountSource = "none"
)

// FormAccountHints are the places a transaction form can learn its account from
type FormAccountHints struct {
	// Instance is the persisted account of the transaction being edited
	Instance *int32
	// Initial is a pre-selected account passed before any input is bound
	Initial *int32
	// Submitted is the account chosen in not-yet-validated input
	Submitted *int32
}

// ResolvedAccount is the outcome of ResolveFormAccount
type ResolvedAccount struct {
	AccountID int32
	Source    AccountSource
}

// Known reports whether an account was found
func (r ResolvedAccount) Known() bool {
	return r.Source != AccountSourceNone
}

// ResolveFormAccount picks the account that narrows a transaction form's type choices,
// trying the edited instance, then the initial hint, then submitted input.
func ResolveFormAccount(h FormAccountHints) ResolvedAccount {
	switch {
	case h.Instance != nil && *h.Instance > 0:
		return ResolvedAccount{AccountID: *h.Instance, Source: AccountSourceInstance}
	case h.Initial != nil && *h.Initial > 0:
		return ResolvedAccount{AccountID: *h.Initial, Source: AccountSourceInitial}
	case h.Submitted != nil && *h.Submitted > 0:
		return ResolvedAccount{AccountID: *h.Submitted, Source: AccountSourceSubmitted}
	}
	return ResolvedAccount{Source: AccountSourceNone}
}

// TransactionFilters narrows a transaction listing
type TransactionFilters struct {
	AccountID *int32
	StartDate *time.Time
	EndDate   *time.Time
	Page      int32
	PageSize  int32
}

// ParseAccountFilter reads the account query value of a listing. "", "None" and
// anything that is not a positive integer mean no filter.
func ParseAccountFilter(raw string) *int32 {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "None" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return nil
	}
	accountID := int32(id)
	return &accountID
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Window resolves the requested page against the listing defaults. A missing or
// non-positive page is 1, a missing page size is DefaultPageSize and sizes are
// capped at MaxPageSize. Page is clamped so offset never overflows an int32;
// such a page is past any real listing and comes back empty.
func (f *TransactionFilters) Window() (page, pageSize, offset int32) {
	page, pageSize = 1, DefaultPageSize
	if f != nil {
		if f.Page > 0 {
			page = f.Page
		}
		if f.PageSize > 0 {
			pageSize = min(f.PageSize, MaxPageSize)
		}
	}
	if maxSkipped := int32(math.MaxInt32 / pageSize); page-1 > maxSkipped {
		page = maxSkipped + 1
	}
	return page, pageSize, (page - 1) * pageSize
}

// PageCount is the number of pages total items fill at pageSize
func PageCount(total int64, pageSize int32) int32 {
	return int32((total + int64(pageSize) - 1) / int64(pageSize))
}

type PaginatedTransactions struct {
	Data       []*Transaction `json:"data"`
	Page       int32          `json:"page"`
	PageSize   int32          `json:"pageSize"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int32          `json:"totalPages"`
}

type TransactionRepository interface {
	Create(ctx context.Context, transaction *Transaction) (*Transaction, error)
	GetByID(ctx context.Context, id int32) (*Transaction, error)
	List(ctx context.Context, filters *TransactionFilters) (*PaginatedTransactions, error)
	// ListByAccountBetween returns an account's transactions posted inside [start, end],
	// newest first with id as the tie-break
	ListByAccountBetween(ctx context.Context, accountID int32, start, end time.Time) ([]*Transaction, error)
	Update(ctx context.Context, transaction *Transaction) (*Transaction, error)
	Delete(ctx context.Context, id int32) error
}
