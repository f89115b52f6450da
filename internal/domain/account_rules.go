package domain

import (
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// FieldRule says whether an optional account field must or must not be set
type FieldRule string

const (
	FieldRequired  FieldRule = "required"
	FieldForbidden FieldRule = "forbidden"
)

// AccountFieldRule is one row of the account type table
type AccountFieldRule struct {
	RoutingNumber FieldRule `json:"routingNumber"`
	InterestRate  FieldRule `json:"interestRate"`
	DueDate       FieldRule `json:"dueDate"`
}

// AccountFieldRules drives which optional fields each account type carries.
// Adding an account type means adding a row here.
var AccountFieldRules = map[AccountType]AccountFieldRule{
	AccountTypeChecking:   {RoutingNumber: FieldRequired, InterestRate: FieldForbidden, DueDate: FieldForbidden},
	AccountTypeSavings:    {RoutingNumber: FieldRequired, InterestRate: FieldRequired, DueDate: FieldForbidden},
	AccountTypeCreditCard: {RoutingNumber: FieldForbidden, InterestRate: FieldRequired, DueDate: FieldRequired},
	AccountTypeLoan:       {RoutingNumber: FieldForbidden, InterestRate: FieldRequired, DueDate: FieldRequired},
}

// Field names used as keys in ValidationErrors
const (
	FieldName          = "name"
	FieldAccountNumber = "account_number"
	FieldAccountType   = "account_type"
	FieldRoutingNumber = "routing_number"
	FieldInterestRate  = "interest_rate"
	FieldDueDate       = "due_date"
	FieldBalance       = "balance"
)

// ValidateAccount checks an account against the field rules of its type.
// It is the single rule set used by both the request layer and the repository
// boundary, and reports every violation at once.
func ValidateAccount(a *Account) ValidationErrors {
	errs := ValidationErrors{}

	switch {
	case a.Name == "":
		errs.Add(FieldName, "Name is required.")
	case utf8.RuneCountInString(a.Name) > MaxAccountNameLength:
		errs.Add(FieldName, "Name must be 150 characters or less.")
	}

	switch {
	case a.AccountNumber == "":
		errs.Add(FieldAccountNumber, "Account number is required.")
	case utf8.RuneCountInString(a.AccountNumber) > MaxAccountNumberLength:
		errs.Add(FieldAccountNumber, "Account number must be 50 characters or less.")
	}

	if utf8.RuneCountInString(a.RoutingNumber) > MaxRoutingNumberLength {
		errs.Add(FieldRoutingNumber, "Routing number must be 20 characters or less.")
	}

	if !balanceFits(a.Balance) {
		errs.Add(FieldBalance, "Balance must have at most 10 digits before the decimal point.")
	}

	rule, ok := AccountFieldRules[a.AccountType]
	if !ok {
		errs.Add(FieldAccountType, "Account type must be one of: checking, savings, credit_card, loan.")
		return errs
	}

	switch rule.RoutingNumber {
	case FieldRequired:
		if a.RoutingNumber == "" {
			errs.Add(FieldRoutingNumber, "Routing number is required for this account type.")
		}
	case FieldForbidden:
		if a.RoutingNumber != "" {
			errs.Add(FieldRoutingNumber, "Routing number is only allowed for checking or savings accounts.")
		}
	}

	switch rule.InterestRate {
	case FieldRequired:
		if a.InterestRate == nil {
			errs.Add(FieldInterestRate, "Interest rate is required for this account type.")
		} else if a.InterestRate.IsNegative() {
			errs.Add(FieldInterestRate, "Interest rate must be zero or greater.")
		} else if !interestRateFits(*a.InterestRate) {
			errs.Add(FieldInterestRate, "Interest rate must be less than 1000.")
		}
	case FieldForbidden:
		if a.InterestRate != nil {
			errs.Add(FieldInterestRate, "Interest rate is only allowed for savings, credit card, or loan accounts.")
		}
	}

	switch rule.DueDate {
	case FieldRequired:
		if a.DueDate == nil || a.DueDate.IsZero() {
			errs.Add(FieldDueDate, "Due date is required for this account type.")
		}
	case FieldForbidden:
		if a.DueDate != nil && !a.DueDate.IsZero() {
			errs.Add(FieldDueDate, "Due date is only allowed for credit card or loan accounts.")
		}
	}

	return errs
}

var (
	maxBalance      = decimal.New(1, 10)
	maxInterestRate = decimal.NewFromInt(1000)
)

// balances are stored as NUMERIC(12,2)
func balanceFits(d decimal.Decimal) bool {
	return d.Abs().LessThan(maxBalance)
}

// interest rates are stored as NUMERIC(5,2)
func interestRateFits(d decimal.Decimal) bool {
	return d.LessThan(maxInterestRate)
}
