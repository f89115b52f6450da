package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dafibh/household/household-backend/internal/domain"
	"github.com/dafibh/household/household-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	location           *time.Location
}

// NewTransactionHandler creates a new TransactionHandler. Local date-times in
// requests and responses use location; nil means UTC.
func NewTransactionHandler(transactionService *service.TransactionService, location *time.Location) *TransactionHandler {
	if location == nil {
		location = time.UTC
	}
	return &TransactionHandler{
		transactionService: transactionService,
		location:           location,
	}
}

// TransactionRequest is the create and update transaction body
type TransactionRequest struct {
	AccountID       textValue `json:"accountId" form:"account"`
	TransactionType string    `json:"transactionType" form:"transaction_type"`
	Amount          textValue `json:"amount" form:"amount"`
	CategoryID      textValue `json:"categoryId" form:"category"`
	Memo            string    `json:"memo" form:"memo"`
	Reference       string    `json:"reference" form:"reference"`
	PostedAt        string    `json:"postedAt" form:"posted_at"`
	IsCleared       flag      `json:"isCleared" form:"is_cleared"`
}

func (r TransactionRequest) values() map[string]string {
	return map[string]string{
		domain.FieldAccount:         r.AccountID.String(),
		domain.FieldTransactionType: r.TransactionType,
		domain.FieldAmount:          r.Amount.String(),
		domain.FieldCategory:        r.CategoryID.String(),
		domain.FieldMemo:            r.Memo,
		domain.FieldReference:       r.Reference,
		domain.FieldPostedAt:        r.PostedAt,
		"is_cleared":                strconv.FormatBool(bool(r.IsCleared)),
	}
}

// input converts the request, collecting fields that could not be parsed
func (r TransactionRequest) input(loc *time.Location) (service.TransactionInput, domain.ValidationErrors) {
	errs := domain.ValidationErrors{}
	input := service.TransactionInput{
		TransactionType: domain.TransactionType(r.TransactionType),
		Memo:            r.Memo,
		Reference:       r.Reference,
		IsCleared:       bool(r.IsCleared),
	}

	if raw := strings.TrimSpace(r.AccountID.String()); raw != "" {
		if id, ok := parseID(raw); ok {
			input.AccountID = id
		} else {
			errs.Add(domain.FieldAccount, "Select a valid account.")
		}
	}

	if raw := strings.TrimSpace(r.CategoryID.String()); raw != "" {
		if id, ok := parseID(raw); ok {
			input.CategoryID = id
		} else {
			errs.Add(domain.FieldCategory, "Select a valid category.")
		}
	}

	switch amount, ok := parseDecimal(r.Amount.String()); {
	case !ok:
		errs.Add(domain.FieldAmount, "Enter a number.")
	case amount == nil:
		errs.Add(domain.FieldAmount, "Amount is required.")
	default:
		input.Amount = *amount
	}

	if postedAt, ok := parseDateTime(r.PostedAt, loc); ok {
		input.PostedAt = postedAt
	} else {
		errs.Add(domain.FieldPostedAt, "Enter a valid date/time.")
	}

	return input, errs
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID                   int32  `json:"id"`
	AccountID            int32  `json:"accountId"`
	TransactionType      string `json:"transactionType"`
	TransactionTypeLabel string `json:"transactionTypeLabel"`
	Amount               string `json:"amount"`
	SignedAmount         string `json:"signedAmount"`
	CategoryID           int32  `json:"categoryId"`
	CategoryName         string `json:"categoryName,omitempty"`
	Memo                 string `json:"memo"`
	Reference            string `json:"reference"`
	PostedAt             string `json:"postedAt"`
	IsCleared            bool   `json:"isCleared"`
	CreatedAt            string `json:"createdAt"`
	UpdatedAt            string `json:"updatedAt"`
}

// TransactionListResponse is one page of transactions
type TransactionListResponse struct {
	Data            []TransactionResponse `json:"data"`
	Page            int32                 `json:"page"`
	PageSize        int32                 `json:"pageSize"`
	TotalItems      int64                 `json:"totalItems"`
	TotalPages      int32                 `json:"totalPages"`
	SelectedAccount string                `json:"selectedAccount"`
}

// FormOptionsResponse holds the picker contents for a transaction form
type FormOptionsResponse struct {
	AccountID        *int32             `json:"accountId"`
	AccountSource    string             `json:"accountSource"`
	Restricted       bool               `json:"restricted"`
	TransactionTypes []service.Choice   `json:"transactionTypes"`
	Categories       []CategoryResponse `json:"categories"`
}

// GetTransactions handles GET /api/v1/transactions?account=&page=&pageSize=
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	page := parsePageParam(c.QueryParam("page"))
	pageSize := parsePageParam(c.QueryParam("pageSize"))

	list, err := h.transactionService.ListTransactions(c.Request().Context(), c.QueryParam("account"), page, pageSize)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list transactions")
		return NewInternalError(c, "Failed to list transactions")
	}

	data := make([]TransactionResponse, len(list.Data))
	for i, t := range list.Data {
		data[i] = toTransactionResponse(t, h.location)
	}

	return c.JSON(http.StatusOK, TransactionListResponse{
		Data:            data,
		Page:            list.Page,
		PageSize:        list.PageSize,
		TotalItems:      list.TotalItems,
		TotalPages:      list.TotalPages,
		SelectedAccount: list.SelectedAccount,
	})
}

// GetFormOptions handles GET /api/v1/transactions/form-options. The account that
// narrows the type choices comes from ?transaction= (the edited record), then
// ?initial= (a preselected account), then ?account= (the form's current value).
func (h *TransactionHandler) GetFormOptions(c echo.Context) error {
	input := service.FormOptionsInput{
		InitialAccountID:   parseOptionalID(c.QueryParam("initial")),
		SubmittedAccountID: parseOptionalID(c.QueryParam("account")),
	}
	if raw := c.QueryParam("transaction"); raw != "" {
		id, ok := parseID(raw)
		if !ok {
			return NewValidationError(c, "Invalid transaction ID", nil)
		}
		input.TransactionID = &id
	}

	options, err := h.transactionService.FormOptions(c.Request().Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Msg("Failed to build transaction form options")
		return NewInternalError(c, "Failed to build transaction form options")
	}

	categories := make([]CategoryResponse, len(options.Categories))
	for i, category := range options.Categories {
		categories[i] = toCategoryResponse(category)
	}

	return c.JSON(http.StatusOK, FormOptionsResponse{
		AccountID:        options.AccountID,
		AccountSource:    string(options.AccountSource),
		Restricted:       options.Account != nil && options.Account.AccountType.IsRestricted(),
		TransactionTypes: options.TransactionTypes,
		Categories:       categories,
	})
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, errs := req.input(h.location)
	if len(errs) > 0 {
		return h.inputError(c, input, errs, req)
	}

	transaction, event, err := h.transactionService.CreateTransaction(c.Request().Context(), input)
	if err != nil {
		return h.mutationError(c, err, req, "create")
	}

	log.Info().
		Int32("transaction_id", transaction.ID).
		Int32("account_id", transaction.AccountID).
		Str("type", string(transaction.TransactionType)).
		Msg("Transaction created")
	return respondChanged(c, event, true)
}

// GetTransaction handles GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransaction(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Int32("transaction_id", id).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction, h.location))
}

// UpdateTransaction handles PUT /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, errs := req.input(h.location)
	if len(errs) > 0 {
		return h.inputError(c, input, errs, req)
	}

	transaction, event, err := h.transactionService.UpdateTransaction(c.Request().Context(), id, input)
	if err != nil {
		return h.mutationError(c, err, req, "update")
	}

	log.Info().
		Int32("transaction_id", transaction.ID).
		Int32("account_id", transaction.AccountID).
		Msg("Transaction updated")
	return respondChanged(c, event, true)
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	event, err := h.transactionService.DeleteTransaction(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Int32("transaction_id", id).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	log.Info().Int32("transaction_id", id).Msg("Transaction deleted")
	return respondChanged(c, event, true)
}

// inputError reports unparseable fields together with every rule the rest of the
// input breaks
func (h *TransactionHandler) inputError(c echo.Context, input service.TransactionInput, errs domain.ValidationErrors, req TransactionRequest) error {
	err := h.transactionService.ValidateInput(c.Request().Context(), input)
	if err != nil {
		ruleErrs, ok := domain.AsValidationErrors(err)
		if !ok {
			log.Error().Err(err).Msg("Failed to validate transaction")
			return NewInternalError(c, "Failed to validate transaction")
		}
		for field, msg := range ruleErrs {
			errs.Add(field, msg)
		}
	}
	return NewFieldValidationError(c, errs, req.values())
}

func (h *TransactionHandler) mutationError(c echo.Context, err error, req TransactionRequest, action string) error {
	if errs, ok := domain.AsValidationErrors(err); ok {
		return NewFieldValidationError(c, errs, req.values())
	}
	if errors.Is(err, domain.ErrTransactionNotFound) {
		return NewNotFoundError(c, "Transaction not found")
	}
	log.Error().Err(err).Str("action", action).Msg("Failed to save transaction")
	return NewInternalError(c, "Failed to "+action+" transaction")
}

func toTransactionResponse(t *domain.Transaction, loc *time.Location) TransactionResponse {
	return TransactionResponse{
		ID:                   t.ID,
		AccountID:            t.AccountID,
		TransactionType:      string(t.TransactionType),
		TransactionTypeLabel: t.TransactionType.Label(),
		Amount:               t.Amount.StringFixed(2),
		SignedAmount:         t.SignedAmount().StringFixed(2),
		CategoryID:           t.CategoryID,
		CategoryName:         t.CategoryName,
		Memo:                 t.Memo,
		Reference:            t.Reference,
		PostedAt:             t.PostedAt.In(loc).Format(time.RFC3339),
		IsCleared:            t.IsCleared,
		CreatedAt:            t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            t.UpdatedAt.Format(time.RFC3339),
	}
}
