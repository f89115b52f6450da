package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrValidation          = errors.New("validation failed")
	ErrInternalError       = errors.New("internal error")
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountNumberTaken  = errors.New("account number already exists")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryExists      = errors.New("category already exists")
	ErrCategoryProtected   = errors.New("category is referenced by transactions")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
	ErrInvalidAccountType  = errors.New("invalid account type")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidTxType       = errors.New("invalid transaction type")
	ErrRestrictedTxType    = errors.New("transaction type not allowed for account")
)

// Validation constants
const (
	MaxAccountNameLength    = 150
	MaxAccountNumberLength  = 50
	MaxRoutingNumberLength  = 20
	MaxCategoryNameLength   = 100
	MaxCategorySlugLength   = 120
	MaxTransactionMemoLen   = 255
	MaxTransactionRefLength = 100
)

// ValidationErrors maps a field name to a human-readable violation message.
// Every rule is evaluated, so one value carries all violations of a record.
type ValidationErrors map[string]string

// Add records a message for field unless one is already present.
func (v ValidationErrors) Add(field, message string) {
	if _, exists := v[field]; !exists {
		v[field] = message
	}
}

// Fields returns the failing field names in sorted order.
func (v ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Err returns nil when there are no violations.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, field := range v.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", field, v[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) match.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

// AsValidationErrors extracts field errors from err, if any.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// ProtectedError is returned when deleting a category that transactions still reference.
type ProtectedError struct {
	CategoryName     string
	TransactionCount int64
}

func (e *ProtectedError) Error() string {
	noun := "transactions"
	if e.TransactionCount == 1 {
		noun = "transaction"
	}
	return fmt.Sprintf("Cannot delete %q because it is used by %d %s. Reassign or remove them first.",
		e.CategoryName, e.TransactionCount, noun)
}

// Is makes errors.Is(err, ErrCategoryProtected) match.
func (e *ProtectedError) Is(target error) bool {
	return target == ErrCategoryProtected
}
