package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/dafibh/household/household-backend/internal/domain"
)

func validTransactionForm() url.Values {
	form := url.Values{}
	form.Set("account", "1")
	form.Set("transaction_type", "expense")
	form.Set("amount", "42.10")
	form.Set("category", "1")
	form.Set("memo", "  weekly shop ")
	form.Set("posted_at", "2026-02-03T10:30")
	form.Set("is_cleared", "on")
	return form
}

func TestCreateTransaction_Success_Form(t *testing.T) {
	env := newTestEnv()

	c, rec := env.formContext(http.MethodPost, "/api/v1/transactions", validTransactionForm())
	if err := env.transactionHandler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d: %s", rec.Code, rec.Body.String())
	}

	triggers := decodeTrigger(t, rec)
	if string(triggers["transactionsChanged"]) != `{"accountIds":[1]}` {
		t.Errorf("Expected transactionsChanged for account 1, got %s", triggers["transactionsChanged"])
	}
	if _, ok := triggers["closeTransactionModal"]; !ok {
		t.Errorf("Expected closeTransactionModal trigger, got %v", triggers)
	}

	if len(env.transactions.Transactions) != 1 {
		t.Fatalf("Expected 1 stored transaction, got %d", len(env.transactions.Transactions))
	}
	for _, stored := range env.transactions.Transactions {
		want := time.Date(2026, 2, 3, 15, 30, 0, 0, time.UTC)
		if !stored.PostedAt.Equal(want) {
			t.Errorf("Expected posted_at interpreted in the display zone (%s), got %s", want, stored.PostedAt.UTC())
		}
		if stored.Memo != "weekly shop" {
			t.Errorf("Expected trimmed memo, got %q", stored.Memo)
		}
		if !stored.IsCleared {
			t.Error("Expected checkbox value 'on' to mark the transaction cleared")
		}
	}
}

func TestCreateTransaction_BlankPostedAtDefaultsToNow(t *testing.T) {
	env := newTestEnv()

	form := validTransactionForm()
	form.Set("posted_at", "")
	c, rec := env.formContext(http.MethodPost, "/api/v1/transactions", form)

	if err := env.transactionHandler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d: %s", rec.Code, rec.Body.String())
	}
	for _, stored := range env.transactions.Transactions {
		if !stored.PostedAt.Equal(fixedNow) {
			t.Errorf("Expected posted_at to default to %s, got %s", fixedNow, stored.PostedAt)
		}
	}
}

func TestCreateTransaction_BlankPostedAtNotReportedWithOtherErrors(t *testing.T) {
	env := newTestEnv()

	form := validTransactionForm()
	form.Set("posted_at", "")
	form.Set("amount", "lots")
	c, rec := env.formContext(http.MethodPost, "/api/v1/transactions", form)

	if err := env.transactionHandler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	fields := fieldErrors(decodeProblem(t, rec))
	if msg, ok := fields[domain.FieldPostedAt]; ok {
		t.Errorf("Expected no posted_at error, got %q", msg)
	}
}

func TestCreateTransaction_Success_JSON(t *testing.T) {
	env := newTestEnv()

	body := `{"accountId": 2, "transactionType": "charge", "amount": 19.99, "categoryId": "1",
		"postedAt": "2026-02-03T10:30:00Z", "isCleared": false}`
	c, rec := env.jsonContext(http.MethodPost, "/api/v1/transactions", body)

	if err := env.transactionHandler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d: %s", rec.Code, rec.Body.String())
	}

	event, ok := env.publisher.Last()
	if !ok || event.Type != "transaction.created" {
		t.Errorf("Expected transaction.created event, got %+v", event)
	}
}

func TestCreateTransaction_RestrictedAccountRejectsExpense(t *testing.T) {
	env := newTestEnv()

	form := validTransactionForm()
	form.Set("account", "2")
	c, rec := env.formContext(http.MethodPost, "/api/v1/transactions", form)

	if err := env.transactionHandler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}
	problem := decodeProblem(t, rec)
	fields := fieldErrors(problem)
	want := "Credit card and loan accounts only allow payment or charge transactions."
	if fields[domain.FieldTransactionType] != want {
		t.Errorf("Expected restriction message, got %q", fields[domain.FieldTransactionType])
	}
	if problem.Values["amount"] != "42.10" {
		t.Errorf("Expected submitted amount to be echoed, got %q", problem.Values["amount"])
	}
	if len(env.transactions.Transactions) != 0 {
		t.Error("Expected nothing to be stored")
	}
}

func TestCreateTransaction_ParseErrorsStillReportRules(t *testing.T) {
	env := newTestEnv()

	form := validTransactionForm()
	form.Set("account", "2")
	form.Set("amount", "lots")
	c, rec := env.formContext(http.MethodPost, "/api/v1/transactions", form)

	if err := env.transactionHandler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	fields := fieldErrors(decodeProblem(t, rec))
	if fields[domain.FieldAmount] != "Enter a number." {
		t.Errorf("Expected amount parse error, got %q", fields[domain.FieldAmount])
	}
	if fields[domain.FieldTransactionType] == "" {
		t.Errorf("Expected the account restriction to be reported too, got %v", fields)
	}
}

func TestCreateTransaction_NonPositiveAmountAndMissingFields(t *testing.T) {
	env := newTestEnv()

	tests := []struct {
		name   string
		amount string
		field  string
		msg    string
	}{
		{"zero", "0", domain.FieldAmount, "Amount must be greater than zero."},
		{"negative", "-5", domain.FieldAmount, "Amount must be greater than zero."},
		{"missing", "", domain.FieldAmount, "Amount is required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validTransactionForm()
			form.Set("amount", tt.amount)
			form.Del("category")
			c, rec := env.formContext(http.MethodPost, "/api/v1/transactions", form)

			if err := env.transactionHandler.CreateTransaction(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			fields := fieldErrors(decodeProblem(t, rec))
			if fields[tt.field] != tt.msg {
				t.Errorf("Expected %q, got %q", tt.msg, fields[tt.field])
			}
			if fields[domain.FieldCategory] != "Category is required." {
				t.Errorf("Expected category to be required, got %q", fields[domain.FieldCategory])
			}
		})
	}
}

func TestCreateTransaction_UnknownReferences(t *testing.T) {
	env := newTestEnv()

	form := validTransactionForm()
	form.Set("account", "77")
	form.Set("category", "x")
	c, rec := env.formContext(http.MethodPost, "/api/v1/transactions", form)

	if err := env.transactionHandler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	fields := fieldErrors(decodeProblem(t, rec))
	if fields[domain.FieldAccount] != "Select a valid account." {
		t.Errorf("Expected unknown account error, got %q", fields[domain.FieldAccount])
	}
	if fields[domain.FieldCategory] != "Select a valid category." {
		t.Errorf("Expected malformed category error, got %q", fields[domain.FieldCategory])
	}
}

func TestUpdateTransaction_MoveBetweenAccountsTriggersBoth(t *testing.T) {
	env := newTestEnv()
	env.addTransaction(5, 1, domain.TransactionTypePayment, "75.00", fixedNow)

	body := `{"accountId": "2", "transactionType": "payment", "amount": "75.00", "categoryId": 1, "postedAt": "2026-02-20 09:00"}`
	c, rec := env.jsonContext(http.MethodPut, "/api/v1/transactions/5", body)

	if err := env.transactionHandler.UpdateTransaction(withID(c, "5")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d: %s", rec.Code, rec.Body.String())
	}

	triggers := decodeTrigger(t, rec)
	if string(triggers["transactionsChanged"]) != `{"accountIds":[1,2]}` {
		t.Errorf("Expected both accounts in the trigger, got %s", triggers["transactionsChanged"])
	}
	if env.transactions.Transactions[5].AccountID != 2 {
		t.Errorf("Expected transaction to move to account 2, got %d", env.transactions.Transactions[5].AccountID)
	}
}

func TestUpdateTransaction_BlankPostedAtKeepsStoredTime(t *testing.T) {
	env := newTestEnv()
	posted := time.Date(2026, 1, 9, 12, 0, 0, 0, time.UTC)
	env.addTransaction(8, 1, domain.TransactionTypeExpense, "10.00", posted)

	form := validTransactionForm()
	form.Set("posted_at", "")
	c, rec := env.formContext(http.MethodPut, "/api/v1/transactions/8", form)

	if err := env.transactionHandler.UpdateTransaction(withID(c, "8")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := env.transactions.Transactions[8].PostedAt; !got.Equal(posted) {
		t.Errorf("Expected posted_at to stay %s, got %s", posted, got)
	}
}

func TestUpdateTransaction_NotFound(t *testing.T) {
	env := newTestEnv()

	c, rec := env.formContext(http.MethodPut, "/api/v1/transactions/404", validTransactionForm())
	if err := env.transactionHandler.UpdateTransaction(withID(c, "404")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestDeleteTransaction(t *testing.T) {
	env := newTestEnv()
	env.addTransaction(3, 2, domain.TransactionTypeCharge, "9.00", fixedNow)

	c, rec := env.jsonContext(http.MethodDelete, "/api/v1/transactions/3", "")
	if err := env.transactionHandler.DeleteTransaction(withID(c, "3")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", rec.Code)
	}
	if string(decodeTrigger(t, rec)["transactionsChanged"]) != `{"accountIds":[2]}` {
		t.Error("Expected transactionsChanged for account 2")
	}
	if _, ok := env.transactions.Transactions[3]; ok {
		t.Error("Expected transaction to be deleted")
	}
}

func TestGetTransaction_RendersInDisplayZone(t *testing.T) {
	env := newTestEnv()
	env.addTransaction(8, 1, domain.TransactionTypeExpense, "5", time.Date(2026, 2, 3, 15, 30, 0, 0, time.UTC))

	c, rec := env.getContext("/api/v1/transactions/8")
	if err := env.transactionHandler.GetTransaction(withID(c, "8")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.PostedAt != "2026-02-03T10:30:00-05:00" {
		t.Errorf("Expected posted_at in EST, got %s", response.PostedAt)
	}
	if response.Amount != "5.00" || response.SignedAmount != "-5.00" {
		t.Errorf("Expected amount 5.00 / -5.00, got %s / %s", response.Amount, response.SignedAmount)
	}
}

func TestGetTransactions_Filtering(t *testing.T) {
	env := newTestEnv()
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	env.addTransaction(1, 1, domain.TransactionTypeExpense, "1", base)
	env.addTransaction(2, 2, domain.TransactionTypeCharge, "2", base.Add(time.Hour))
	env.addTransaction(3, 1, domain.TransactionTypeIncome, "3", base.Add(2*time.Hour))

	tests := []struct {
		name     string
		query    string
		ids      []int32
		selected string
	}{
		{"no filter", "", []int32{3, 2, 1}, ""},
		{"None means all", "?account=None", []int32{3, 2, 1}, ""},
		{"malformed account means all", "?account=abc&page=zero", []int32{3, 2, 1}, ""},
		{"single account", "?account=1", []int32{3, 1}, "1"},
		{"second page", "?pageSize=2&page=2", []int32{1}, ""},
		{"page past any listing", "?page=2147483647", []int32{}, ""},
		{"page overflowing int32", "?page=99999999999", []int32{3, 2, 1}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := env.getContext("/api/v1/transactions" + tt.query)
			if err := env.transactionHandler.GetTransactions(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
			}

			var response TransactionListResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
				t.Fatalf("Failed to unmarshal response: %v", err)
			}
			if len(response.Data) != len(tt.ids) {
				t.Fatalf("Expected %d transactions, got %d", len(tt.ids), len(response.Data))
			}
			for i, id := range tt.ids {
				if response.Data[i].ID != id {
					t.Errorf("Position %d: expected id %d, got %d", i, id, response.Data[i].ID)
				}
			}
			if response.SelectedAccount != tt.selected {
				t.Errorf("Expected selected account %q, got %q", tt.selected, response.SelectedAccount)
			}
		})
	}
}

func TestGetFormOptions_AccountResolution(t *testing.T) {
	env := newTestEnv()
	env.addTransaction(6, 2, domain.TransactionTypeCharge, "15", fixedNow)

	tests := []struct {
		name       string
		query      string
		source     domain.AccountSource
		restricted bool
		typeCount  int
	}{
		{"no hints", "", domain.AccountSourceNone, false, 6},
		{"initial restricted account", "?initial=2", domain.AccountSourceInitial, true, 2},
		{"submitted account", "?account=1", domain.AccountSourceSubmitted, false, 6},
		{"instance wins over hints", "?transaction=6&initial=1&account=1", domain.AccountSourceInstance, true, 2},
		{"initial wins over submitted", "?initial=1&account=2", domain.AccountSourceInitial, false, 6},
		{"unknown account", "?account=55", domain.AccountSourceNone, false, 6},
		{"malformed account", "?account=abc", domain.AccountSourceNone, false, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := env.getContext("/api/v1/transactions/form-options" + tt.query)
			if err := env.transactionHandler.GetFormOptions(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
			}

			var response FormOptionsResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
				t.Fatalf("Failed to unmarshal response: %v", err)
			}
			if response.AccountSource != string(tt.source) {
				t.Errorf("Expected source %s, got %s", tt.source, response.AccountSource)
			}
			if response.Restricted != tt.restricted {
				t.Errorf("Expected restricted=%v, got %v", tt.restricted, response.Restricted)
			}
			if len(response.TransactionTypes) != tt.typeCount {
				t.Errorf("Expected %d type choices, got %d", tt.typeCount, len(response.TransactionTypes))
			}
			if tt.restricted {
				for _, choice := range response.TransactionTypes {
					if choice.Value != "payment" && choice.Value != "charge" {
						t.Errorf("Unexpected type %s offered for a restricted account", choice.Value)
					}
				}
			}
			if len(response.Categories) != 1 || response.Categories[0].Name != "Groceries" {
				t.Errorf("Expected only the active category, got %+v", response.Categories)
			}
		})
	}
}

func TestGetFormOptions_UnknownTransaction(t *testing.T) {
	env := newTestEnv()

	c, rec := env.getContext("/api/v1/transactions/form-options?transaction=999")
	if err := env.transactionHandler.GetFormOptions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
