package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/household/household-backend/internal/domain"
	"github.com/dafibh/household/household-backend/internal/service"
	"github.com/dafibh/household/household-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// eastern is a fixed-offset display zone so tests do not depend on tzdata
var eastern = time.FixedZone("EST", -5*60*60)

// fixedNow is the clock the ledger and server-time tests run at
var fixedNow = time.Date(2026, 2, 20, 14, 0, 0, 0, time.UTC)

// testEnv wires every handler to linked in-memory repositories holding a
// checking account (1), a credit card (2) and two categories
type testEnv struct {
	e            *echo.Echo
	accounts     *testutil.MockAccountRepository
	transactions *testutil.MockTransactionRepository
	categories   *testutil.MockCategoryRepository
	publisher    *testutil.MockEventPublisher

	accountHandler     *AccountHandler
	transactionHandler *TransactionHandler
	categoryHandler    *CategoryHandler
	systemHandler      *SystemHandler
}

func newTestEnv() *testEnv {
	accounts, transactions, categories := testutil.NewLinkedRepositories()
	publisher := testutil.NewMockEventPublisher()

	due := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	rate := decimal.RequireFromString("21.50")
	accounts.AddAccount(&domain.Account{
		ID:            1,
		Name:          "Everyday",
		AccountNumber: "CHK-001",
		AccountType:   domain.AccountTypeChecking,
		RoutingNumber: "011000015",
		Balance:       decimal.RequireFromString("250.00"),
	})
	accounts.AddAccount(&domain.Account{
		ID:            2,
		Name:          "Visa",
		AccountNumber: "CC-002",
		AccountType:   domain.AccountTypeCreditCard,
		InterestRate:  &rate,
		DueDate:       &due,
	})

	groceries := domain.NewCategory("Groceries")
	groceries.ID = 1
	categories.AddCategory(groceries)
	archived := domain.NewCategory("Old Hobby")
	archived.ID = 2
	archived.IsActive = false
	categories.AddCategory(archived)

	accountService := service.NewAccountService(accounts)
	accountService.SetEventPublisher(publisher)
	transactionService := service.NewTransactionService(transactions, accounts, categories)
	transactionService.SetClock(func() time.Time { return fixedNow })
	transactionService.SetEventPublisher(publisher)
	categoryService := service.NewCategoryService(categories)
	categoryService.SetEventPublisher(publisher)
	ledgerService := service.NewLedgerService(accounts, transactions, eastern)
	ledgerService.SetClock(func() time.Time { return fixedNow })

	return &testEnv{
		e:                  echo.New(),
		accounts:           accounts,
		transactions:       transactions,
		categories:         categories,
		publisher:          publisher,
		accountHandler:     NewAccountHandler(accountService, ledgerService),
		transactionHandler: NewTransactionHandler(transactionService, eastern),
		categoryHandler:    NewCategoryHandler(categoryService),
		systemHandler:      NewSystemHandler(nil, ledgerService),
	}
}

// addTransaction stores a cleared transaction posted at postedAt
func (env *testEnv) addTransaction(id, accountID int32, txType domain.TransactionType, amount string, postedAt time.Time) {
	env.transactions.AddTransaction(&domain.Transaction{
		ID:              id,
		AccountID:       accountID,
		TransactionType: txType,
		Amount:          decimal.RequireFromString(amount),
		CategoryID:      1,
		PostedAt:        postedAt,
		IsCleared:       true,
	})
}

func (env *testEnv) jsonContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return env.e.NewContext(req, rec), rec
}

func (env *testEnv) formContext(method, target string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return env.e.NewContext(req, rec), rec
}

func (env *testEnv) getContext(target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return env.e.NewContext(req, rec), rec
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetails {
	t.Helper()
	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal problem details: %v", err)
	}
	return problem
}

func fieldErrors(problem ProblemDetails) map[string]string {
	fields := make(map[string]string, len(problem.Errors))
	for _, e := range problem.Errors {
		fields[e.Field] = e.Message
	}
	return fields
}

func decodeTrigger(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	header := rec.Header().Get("HX-Trigger")
	if header == "" {
		t.Fatal("Expected an HX-Trigger header")
	}
	var triggers map[string]json.RawMessage
	if err := json.Unmarshal([]byte(header), &triggers); err != nil {
		t.Fatalf("Failed to unmarshal HX-Trigger %q: %v", header, err)
	}
	return triggers
}
