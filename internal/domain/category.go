package domain

import (
	"context"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

type Category struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewCategory builds an active category with its slug derived from the normalized name.
// The slug is fixed here and never recomputed when the category is renamed.
func NewCategory(name string) *Category {
	name = NormalizeCategoryName(name)
	return &Category{
		Name:     name,
		Slug:     Slugify(name),
		IsActive: true,
	}
}

// NormalizeCategoryName collapses whitespace runs to a single space and trims the ends
func NormalizeCategoryName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// Slugify lowercases s and collapses every run of non-alphanumeric characters into a
// single hyphen, dropping leading and trailing separators.
func Slugify(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	slug := b.String()
	if utf8.RuneCountInString(slug) > MaxCategorySlugLength {
		slug = strings.TrimRight(string([]rune(slug)[:MaxCategorySlugLength]), "-")
	}
	return slug
}

// ValidateCategoryName checks an already normalized category name
func ValidateCategoryName(name string) ValidationErrors {
	errs := ValidationErrors{}
	switch {
	case name == "":
		errs.Add(FieldName, "Name is required.")
	case utf8.RuneCountInString(name) > MaxCategoryNameLength:
		errs.Add(FieldName, "Name must be 100 characters or less.")
	}
	return errs
}

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	GetByID(ctx context.Context, id int32) (*Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	// GetAll returns categories ordered by name, active ones only when activeOnly is set
	GetAll(ctx context.Context, activeOnly bool) ([]*Category, error)
	// Update changes name and active flag, leaving the slug untouched
	Update(ctx context.Context, category *Category) (*Category, error)
	CountTransactions(ctx context.Context, id int32) (int64, error)
	Delete(ctx context.Context, id int32) error
}
