package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/dafibh/household/household-backend/internal/domain"
)

func TestGetCategories_ActiveFilter(t *testing.T) {
	env := newTestEnv()

	tests := []struct {
		query string
		names []string
	}{
		{"", []string{"Groceries", "Old Hobby"}},
		{"?active=true", []string{"Groceries"}},
		{"?active=false", []string{"Groceries", "Old Hobby"}},
	}

	for _, tt := range tests {
		c, rec := env.getContext("/api/v1/categories" + tt.query)
		if err := env.categoryHandler.GetCategories(c); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		var response []CategoryResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if len(response) != len(tt.names) {
			t.Fatalf("query %q: expected %d categories, got %d", tt.query, len(tt.names), len(response))
		}
		for i, name := range tt.names {
			if response[i].Name != name {
				t.Errorf("query %q: position %d expected %s, got %s", tt.query, i, name, response[i].Name)
			}
		}
	}
}

func TestCreateCategory_Success(t *testing.T) {
	env := newTestEnv()

	form := url.Values{}
	form.Set("name", "  Eating   Out ")
	c, rec := env.formContext(http.MethodPost, "/api/v1/categories", form)

	if err := env.categoryHandler.CreateCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d: %s", rec.Code, rec.Body.String())
	}

	created := env.categories.Categories[3]
	if created == nil {
		t.Fatal("Expected category 3 to be stored")
	}
	if created.Name != "Eating Out" || created.Slug != "eating-out" {
		t.Errorf("Expected 'Eating Out' / 'eating-out', got %q / %q", created.Name, created.Slug)
	}
	if !created.IsActive {
		t.Error("Expected a new category to be active by default")
	}

	triggers := decodeTrigger(t, rec)
	if _, ok := triggers["closeCategoryModal"]; !ok {
		t.Errorf("Expected closeCategoryModal trigger, got %v", triggers)
	}
}

func TestCreateCategory_InlineEchoesToken(t *testing.T) {
	env := newTestEnv()

	c, rec := env.jsonContext(http.MethodPost, "/api/v1/categories?inline=form-7", `{"name": "Pets"}`)
	if err := env.categoryHandler.CreateCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d: %s", rec.Code, rec.Body.String())
	}

	triggers := decodeTrigger(t, rec)
	if _, ok := triggers["closeCategoryModal"]; ok {
		t.Error("Expected an inline create to leave the modal open")
	}

	var change struct {
		ID               int32  `json:"id"`
		Name             string `json:"name"`
		Action           string `json:"action"`
		CorrelationToken string `json:"correlationToken"`
	}
	if err := json.Unmarshal(triggers["categoriesChanged"], &change); err != nil {
		t.Fatalf("Failed to unmarshal categoriesChanged: %v", err)
	}
	if change.ID != 3 || change.Name != "Pets" || change.Action != "created" || change.CorrelationToken != "form-7" {
		t.Errorf("Unexpected categoriesChanged detail: %+v", change)
	}
}

func TestCreateCategory_DuplicateNameIgnoresCase(t *testing.T) {
	env := newTestEnv()

	c, rec := env.jsonContext(http.MethodPost, "/api/v1/categories", `{"name": "groceries"}`)
	if err := env.categoryHandler.CreateCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}
	problem := decodeProblem(t, rec)
	if fieldErrors(problem)[domain.FieldName] != "A category with this name already exists." {
		t.Errorf("Expected duplicate name error, got %v", problem.Errors)
	}
	if problem.Values["name"] != "groceries" {
		t.Errorf("Expected submitted name to be echoed, got %q", problem.Values["name"])
	}
}

func TestCreateCategory_SlugCollisionGetsSuffix(t *testing.T) {
	env := newTestEnv()

	// "Groceries!" is a distinct name whose slug collides with "groceries"
	c, rec := env.jsonContext(http.MethodPost, "/api/v1/categories", `{"name": "Groceries!"}`)
	if err := env.categoryHandler.CreateCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if slug := env.categories.Categories[3].Slug; slug != "groceries-2" {
		t.Errorf("Expected slug groceries-2, got %s", slug)
	}
}

func TestUpdateCategory_DeactivateKeepsSlug(t *testing.T) {
	env := newTestEnv()

	c, rec := env.jsonContext(http.MethodPut, "/api/v1/categories/1", `{"name": "Food", "isActive": false}`)
	if err := env.categoryHandler.UpdateCategory(withID(c, "1")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d: %s", rec.Code, rec.Body.String())
	}

	updated := env.categories.Categories[1]
	if updated.Name != "Food" || updated.IsActive {
		t.Errorf("Expected inactive 'Food', got %q active=%v", updated.Name, updated.IsActive)
	}
	if updated.Slug != "groceries" {
		t.Errorf("Expected slug to stay 'groceries', got %s", updated.Slug)
	}
}

func TestUpdateCategory_MissingFlagKeepsCurrent(t *testing.T) {
	env := newTestEnv()

	form := url.Values{}
	form.Set("name", "Retired Hobby")
	c, rec := env.formContext(http.MethodPut, "/api/v1/categories/2", form)
	if err := env.categoryHandler.UpdateCategory(withID(c, "2")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", rec.Code)
	}
	if env.categories.Categories[2].IsActive {
		t.Error("Expected the inactive flag to be kept")
	}
}

func TestDeleteCategory_ProtectedWhenReferenced(t *testing.T) {
	env := newTestEnv()
	env.addTransaction(1, 1, domain.TransactionTypeExpense, "3", fixedNow)
	env.addTransaction(2, 1, domain.TransactionTypeExpense, "4", fixedNow)

	c, rec := env.jsonContext(http.MethodDelete, "/api/v1/categories/1", "")
	if err := env.categoryHandler.DeleteCategory(withID(c, "1")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusConflict {
		t.Fatalf("Expected status 409, got %d", rec.Code)
	}
	problem := decodeProblem(t, rec)
	if !strings.Contains(problem.Detail, `"Groceries"`) || !strings.Contains(problem.Detail, "2 transactions") {
		t.Errorf("Expected detail naming the category and count, got %q", problem.Detail)
	}
	if _, ok := env.categories.Categories[1]; !ok {
		t.Error("Expected the category to remain")
	}
	if len(env.publisher.Events) != 0 {
		t.Errorf("Expected no events, got %d", len(env.publisher.Events))
	}
}

func TestDeleteCategory_Unreferenced(t *testing.T) {
	env := newTestEnv()

	c, rec := env.jsonContext(http.MethodDelete, "/api/v1/categories/2", "")
	if err := env.categoryHandler.DeleteCategory(withID(c, "2")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", rec.Code)
	}
	if _, ok := env.categories.Categories[2]; ok {
		t.Error("Expected the category to be deleted")
	}

	event, _ := env.publisher.Last()
	if event.Type != "category.deleted" {
		t.Errorf("Expected category.deleted event, got %s", event.Type)
	}
}

func TestDeleteCategory_NotFound(t *testing.T) {
	env := newTestEnv()

	c, rec := env.jsonContext(http.MethodDelete, "/api/v1/categories/50", "")
	if err := env.categoryHandler.DeleteCategory(withID(c, "50")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
