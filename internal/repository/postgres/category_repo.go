package postgres

import (
	"context"
	"errors"

	"github.com/dafibh/household/household-backend/db/sqlc"
	"github.com/dafibh/household/household-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool    *pgxpool.Pool
	queries *sqlc.Queries
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{
		pool:    pool,
		queries: sqlc.New(pool),
	}
}

// Create inserts a category with its precomputed slug
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	created, err := r.queries.CreateCategory(ctx, sqlc.CreateCategoryParams{
		Name:     category.Name,
		Slug:     category.Slug,
		IsActive: category.IsActive,
	})
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, domain.ErrCategoryExists
		}
		return nil, err
	}
	return sqlcCategoryToDomain(created), nil
}

// GetByID retrieves a category by its ID
func (r *CategoryRepository) GetByID(ctx context.Context, id int32) (*domain.Category, error) {
	category, err := r.queries.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return sqlcCategoryToDomain(category), nil
}

// GetByName retrieves a category by its exact (normalized) name
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	category, err := r.queries.GetCategoryByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return sqlcCategoryToDomain(category), nil
}

// SlugExists reports whether any category already uses slug
func (r *CategoryRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	return r.queries.CategorySlugExists(ctx, slug)
}

// GetAll retrieves categories ordered by name
func (r *CategoryRepository) GetAll(ctx context.Context, activeOnly bool) ([]*domain.Category, error) {
	var (
		categories []sqlc.Category
		err        error
	)
	if activeOnly {
		categories, err = r.queries.ListActiveCategories(ctx)
	} else {
		categories, err = r.queries.ListCategories(ctx)
	}
	if err != nil {
		return nil, err
	}
	result := make([]*domain.Category, len(categories))
	for i, c := range categories {
		result[i] = sqlcCategoryToDomain(c)
	}
	return result, nil
}

// Update renames a category and sets its active flag. The slug column is never written.
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	updated, err := r.queries.UpdateCategory(ctx, sqlc.UpdateCategoryParams{
		ID:       category.ID,
		Name:     category.Name,
		IsActive: category.IsActive,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		if isPgUniqueViolation(err) {
			return nil, domain.ErrCategoryExists
		}
		return nil, err
	}
	return sqlcCategoryToDomain(updated), nil
}

// CountTransactions returns how many transactions reference the category
func (r *CategoryRepository) CountTransactions(ctx context.Context, id int32) (int64, error) {
	return r.queries.CountTransactionsByCategory(ctx, id)
}

// Delete removes a category. A category still referenced by transactions is
// refused by the ON DELETE RESTRICT foreign key.
func (r *CategoryRepository) Delete(ctx context.Context, id int32) error {
	rows, err := r.queries.DeleteCategory(ctx, id)
	if err != nil {
		if isPgForeignKeyViolation(err) {
			return domain.ErrCategoryProtected
		}
		return err
	}
	if rows == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// Helper functions

func sqlcCategoryToDomain(c sqlc.Category) *domain.Category {
	return &domain.Category{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt.Time,
		UpdatedAt: c.UpdatedAt.Time,
	}
}
