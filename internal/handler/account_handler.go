package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/dafibh/household/household-backend/internal/domain"
	"github.com/dafibh/household/household-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accountService *service.AccountService
	ledgerService  *service.LedgerService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *service.AccountService, ledgerService *service.LedgerService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		ledgerService:  ledgerService,
	}
}

// AccountRequest is the create and update account body. JSON uses camelCase keys,
// form posts use the snake_case field names errors are reported under.
type AccountRequest struct {
	Name          string    `json:"name" form:"name"`
	AccountNumber string    `json:"accountNumber" form:"account_number"`
	AccountType   string    `json:"accountType" form:"account_type"`
	RoutingNumber string    `json:"routingNumber" form:"routing_number"`
	InterestRate  textValue `json:"interestRate" form:"interest_rate"`
	DueDate       string    `json:"dueDate" form:"due_date"`
	Balance       textValue `json:"balance" form:"balance"`
}

func (r AccountRequest) values() map[string]string {
	return map[string]string{
		domain.FieldName:          r.Name,
		domain.FieldAccountNumber: r.AccountNumber,
		domain.FieldAccountType:   r.AccountType,
		domain.FieldRoutingNumber: r.RoutingNumber,
		domain.FieldInterestRate:  r.InterestRate.String(),
		domain.FieldDueDate:       r.DueDate,
		domain.FieldBalance:       r.Balance.String(),
	}
}

// input converts the request, collecting fields that could not be parsed
func (r AccountRequest) input() (service.AccountInput, domain.ValidationErrors) {
	errs := domain.ValidationErrors{}
	input := service.AccountInput{
		Name:          r.Name,
		AccountNumber: r.AccountNumber,
		AccountType:   domain.AccountType(r.AccountType),
		RoutingNumber: r.RoutingNumber,
		Balance:       decimal.Zero,
	}

	if rate, ok := parseDecimal(r.InterestRate.String()); ok {
		input.InterestRate = rate
	} else {
		errs.Add(domain.FieldInterestRate, "Enter a number.")
	}

	if due, ok := parseDate(r.DueDate); ok {
		input.DueDate = due
	} else {
		errs.Add(domain.FieldDueDate, "Enter a valid date.")
	}

	if balance, ok := parseDecimal(r.Balance.String()); !ok {
		errs.Add(domain.FieldBalance, "Enter a number.")
	} else if balance != nil {
		input.Balance = *balance
	}

	return input, errs
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID               int32   `json:"id"`
	Name             string  `json:"name"`
	AccountNumber    string  `json:"accountNumber"`
	AccountType      string  `json:"accountType"`
	AccountTypeLabel string  `json:"accountTypeLabel"`
	DisplayName      string  `json:"displayName"`
	RoutingNumber    *string `json:"routingNumber"`
	InterestRate     *string `json:"interestRate"`
	DueDate          *string `json:"dueDate"`
	Balance          string  `json:"balance"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

// AccountLedgerResponse is one account's transactions for a month
type AccountLedgerResponse struct {
	Account       AccountResponse       `json:"account"`
	Month         string                `json:"month"`
	Label         string                `json:"label"`
	Start         string                `json:"start"`
	End           string                `json:"end"`
	PreviousMonth string                `json:"previousMonth"`
	NextMonth     string                `json:"nextMonth"`
	IsCurrent     bool                  `json:"isCurrent"`
	Transactions  []TransactionResponse `json:"transactions"`
}

// GetAccounts handles GET /api/v1/accounts
func (h *AccountHandler) GetAccounts(c echo.Context) error {
	accounts, err := h.accountService.GetAccounts(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get accounts")
		return NewInternalError(c, "Failed to get accounts")
	}

	response := make([]AccountResponse, len(accounts))
	for i, account := range accounts {
		response[i] = toAccountResponse(account)
	}
	return c.JSON(http.StatusOK, response)
}

// GetFieldRules handles GET /api/v1/accounts/field-rules
func (h *AccountHandler) GetFieldRules(c echo.Context) error {
	return c.JSON(http.StatusOK, h.accountService.FieldRules())
}

// CreateAccount handles POST /api/v1/accounts
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	var req AccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, errs := req.input()
	if len(errs) > 0 {
		for field, msg := range domain.ValidateAccount(input.Account()) {
			errs.Add(field, msg)
		}
		return NewFieldValidationError(c, errs, req.values())
	}

	account, event, err := h.accountService.CreateAccount(c.Request().Context(), input)
	if err != nil {
		return h.mutationError(c, err, req, "create")
	}

	log.Info().Int32("account_id", account.ID).Str("name", account.Name).Msg("Account created")
	return respondChanged(c, event, true)
}

// GetAccount handles GET /api/v1/accounts/:id
func (h *AccountHandler) GetAccount(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	account, err := h.accountService.GetAccountByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return NewNotFoundError(c, "Account not found")
		}
		log.Error().Err(err).Int32("account_id", id).Msg("Failed to get account")
		return NewInternalError(c, "Failed to get account")
	}

	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// UpdateAccount handles PUT /api/v1/accounts/:id
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	var req AccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, errs := req.input()
	if len(errs) > 0 {
		for field, msg := range domain.ValidateAccount(input.Account()) {
			errs.Add(field, msg)
		}
		return NewFieldValidationError(c, errs, req.values())
	}

	account, event, err := h.accountService.UpdateAccount(c.Request().Context(), id, input)
	if err != nil {
		return h.mutationError(c, err, req, "update")
	}

	log.Info().Int32("account_id", account.ID).Msg("Account updated")
	return respondChanged(c, event, true)
}

// DeleteAccount handles DELETE /api/v1/accounts/:id. The account's transactions go with it.
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	event, err := h.accountService.DeleteAccount(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return NewNotFoundError(c, "Account not found")
		}
		log.Error().Err(err).Int32("account_id", id).Msg("Failed to delete account")
		return NewInternalError(c, "Failed to delete account")
	}

	log.Info().Int32("account_id", id).Msg("Account deleted")
	return respondChanged(c, event, true)
}

// GetLedger handles GET /api/v1/accounts/:id/transactions?month=YYYY-M
func (h *AccountHandler) GetLedger(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	ledger, err := h.ledgerService.GetAccountLedger(c.Request().Context(), id, c.QueryParam("month"))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return NewNotFoundError(c, "Account not found")
		}
		log.Error().Err(err).Int32("account_id", id).Msg("Failed to get account ledger")
		return NewInternalError(c, "Failed to get account ledger")
	}

	loc := h.ledgerService.Location()
	transactions := make([]TransactionResponse, len(ledger.Transactions))
	for i, t := range ledger.Transactions {
		transactions[i] = toTransactionResponse(t, loc)
	}

	return c.JSON(http.StatusOK, AccountLedgerResponse{
		Account:       toAccountResponse(ledger.Account),
		Month:         ledger.Month.Token(),
		Label:         ledger.Label,
		Start:         ledger.Month.Start.Format(time.RFC3339),
		End:           ledger.Month.End.Format(time.RFC3339Nano),
		PreviousMonth: ledger.PreviousMonth,
		NextMonth:     ledger.NextMonth,
		IsCurrent:     ledger.IsCurrent,
		Transactions:  transactions,
	})
}

func (h *AccountHandler) mutationError(c echo.Context, err error, req AccountRequest, action string) error {
	if errs, ok := domain.AsValidationErrors(err); ok {
		return NewFieldValidationError(c, errs, req.values())
	}
	if errors.Is(err, domain.ErrAccountNumberTaken) {
		errs := domain.ValidationErrors{}
		errs.Add(domain.FieldAccountNumber, "An account with this account number already exists.")
		return NewFieldValidationError(c, errs, req.values())
	}
	if errors.Is(err, domain.ErrAccountNotFound) {
		return NewNotFoundError(c, "Account not found")
	}
	log.Error().Err(err).Str("action", action).Msg("Failed to save account")
	return NewInternalError(c, "Failed to "+action+" account")
}

func toAccountResponse(account *domain.Account) AccountResponse {
	resp := AccountResponse{
		ID:               account.ID,
		Name:             account.Name,
		AccountNumber:    account.AccountNumber,
		AccountType:      string(account.AccountType),
		AccountTypeLabel: account.AccountType.Label(),
		DisplayName:      account.String(),
		Balance:          account.Balance.StringFixed(2),
		CreatedAt:        account.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        account.UpdatedAt.Format(time.RFC3339),
	}
	if account.RoutingNumber != "" {
		routing := account.RoutingNumber
		resp.RoutingNumber = &routing
	}
	if account.InterestRate != nil {
		rate := account.InterestRate.StringFixed(2)
		resp.InterestRate = &rate
	}
	if account.DueDate != nil {
		due := account.DueDate.Format(dateLayout)
		resp.DueDate = &due
	}
	return resp
}
