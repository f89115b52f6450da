package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeCategoryName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Groceries", "Groceries"},
		{"  Home   Repairs ", "Home Repairs"},
		{"Eating\t\tOut", "Eating Out"},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := NormalizeCategoryName(tt.input); got != tt.expected {
			t.Errorf("NormalizeCategoryName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Groceries", "groceries"},
		{"Home Repairs", "home-repairs"},
		{"Kids & School", "kids-school"},
		{"  --Gifts!!  ", "gifts"},
		{"Utilities 2026", "utilities-2026"},
		{"Café", "café"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.expected {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSlugify_Truncates(t *testing.T) {
	got := Slugify(strings.Repeat("a", MaxCategorySlugLength+10))
	if len(got) != MaxCategorySlugLength {
		t.Errorf("len(Slugify(long)) = %d, want %d", len(got), MaxCategorySlugLength)
	}
}

func TestNewCategory(t *testing.T) {
	c := NewCategory("  Eating   Out ")
	if c.Name != "Eating Out" {
		t.Errorf("Name = %q, want %q", c.Name, "Eating Out")
	}
	if c.Slug != "eating-out" {
		t.Errorf("Slug = %q, want %q", c.Slug, "eating-out")
	}
	if !c.IsActive {
		t.Error("new categories should be active")
	}
}

func TestValidateCategoryName(t *testing.T) {
	if errs := ValidateCategoryName("Groceries"); len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
	if errs := ValidateCategoryName(""); errs[FieldName] != "Name is required." {
		t.Errorf("empty name: %v", errs)
	}
	if errs := ValidateCategoryName(strings.Repeat("x", MaxCategoryNameLength+1)); errs[FieldName] == "" {
		t.Error("expected too-long error")
	}
}

func TestProtectedError(t *testing.T) {
	err := error(&ProtectedError{CategoryName: "General", TransactionCount: 3})
	if !errors.Is(err, ErrCategoryProtected) {
		t.Error("expected errors.Is(err, ErrCategoryProtected)")
	}
	want := `Cannot delete "General" because it is used by 3 transactions. Reassign or remove them first.`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	single := &ProtectedError{CategoryName: "Gifts", TransactionCount: 1}
	if !strings.Contains(single.Error(), "1 transaction.") {
		t.Errorf("Error() = %q, want singular noun", single.Error())
	}
}
