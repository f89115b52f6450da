package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dafibh/household/household-backend/internal/domain"
	"github.com/dafibh/household/household-backend/internal/websocket"
)

// maxSlugAttempts bounds the numeric suffix search for a free slug
const maxSlugAttempts = 1000

// CategoryService handles category-related business logic
type CategoryService struct {
	categoryRepo   domain.CategoryRepository
	eventPublisher websocket.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *CategoryService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *CategoryService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// CategoryInput holds the editable fields of a category. A nil IsActive keeps the
// current flag on update and means active on create.
type CategoryInput struct {
	Name     string
	IsActive *bool
}

// ListCategories returns categories ordered by name
func (s *CategoryService) ListCategories(ctx context.Context, activeOnly bool) ([]*domain.Category, error) {
	return s.categoryRepo.GetAll(ctx, activeOnly)
}

// GetCategory retrieves a category by ID
func (s *CategoryService) GetCategory(ctx context.Context, id int32) (*domain.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

// CreateCategory creates a category with a slug derived once from its name.
// correlationToken is echoed in the change event so an inline caller can select
// the new category in its own form.
func (s *CategoryService) CreateCategory(ctx context.Context, input CategoryInput, correlationToken string) (*domain.Category, websocket.Event, error) {
	category := domain.NewCategory(input.Name)
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := s.validateName(ctx, category.Name, 0); err != nil {
		return nil, websocket.Event{}, err
	}

	slug, err := s.uniqueSlug(ctx, category.Slug)
	if err != nil {
		return nil, websocket.Event{}, err
	}
	category.Slug = slug

	created, err := s.categoryRepo.Create(ctx, category)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryExists) {
			return nil, websocket.Event{}, duplicateNameError()
		}
		return nil, websocket.Event{}, err
	}

	event := websocket.CategoryCreated(created, correlationToken)
	s.publishEvent(event)
	return created, event, nil
}

// UpdateCategory renames a category or toggles its active flag. The slug never changes.
func (s *CategoryService) UpdateCategory(ctx context.Context, id int32, input CategoryInput, correlationToken string) (*domain.Category, websocket.Event, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, websocket.Event{}, err
	}

	category.Name = domain.NormalizeCategoryName(input.Name)
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := s.validateName(ctx, category.Name, category.ID); err != nil {
		return nil, websocket.Event{}, err
	}

	updated, err := s.categoryRepo.Update(ctx, category)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryExists) {
			return nil, websocket.Event{}, duplicateNameError()
		}
		return nil, websocket.Event{}, err
	}

	event := websocket.CategoryUpdated(updated, correlationToken)
	s.publishEvent(event)
	return updated, event, nil
}

// DeleteCategory removes a category nothing references. A referenced category is
// left untouched and a *domain.ProtectedError names it and its reference count.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int32) (websocket.Event, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return websocket.Event{}, err
	}

	count, err := s.categoryRepo.CountTransactions(ctx, id)
	if err != nil {
		return websocket.Event{}, err
	}
	if count > 0 {
		return websocket.Event{}, &domain.ProtectedError{CategoryName: category.Name, TransactionCount: count}
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrCategoryProtected) {
			// A transaction referenced it between the count and the delete
			count, _ = s.categoryRepo.CountTransactions(ctx, id)
			if count < 1 {
				count = 1
			}
			return websocket.Event{}, &domain.ProtectedError{CategoryName: category.Name, TransactionCount: count}
		}
		return websocket.Event{}, err
	}

	event := websocket.CategoryDeleted(id)
	s.publishEvent(event)
	return event, nil
}

func (s *CategoryService) validateName(ctx context.Context, name string, selfID int32) error {
	if err := domain.ValidateCategoryName(name).Err(); err != nil {
		return err
	}

	existing, err := s.categoryRepo.GetByName(ctx, name)
	switch {
	case err == nil && existing.ID != selfID:
		return duplicateNameError()
	case err != nil && !errors.Is(err, domain.ErrCategoryNotFound):
		return err
	}
	return nil
}

// uniqueSlug returns base, or base-2, base-3... when taken
func (s *CategoryService) uniqueSlug(ctx context.Context, base string) (string, error) {
	if base == "" {
		base = "category"
	}
	candidate := base
	for i := 2; i <= maxSlugAttempts; i++ {
		exists, err := s.categoryRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		suffix := fmt.Sprintf("-%d", i)
		runes := []rune(base)
		if len(runes)+len(suffix) > domain.MaxCategorySlugLength {
			runes = runes[:domain.MaxCategorySlugLength-len(suffix)]
		}
		candidate = strings.TrimRight(string(runes), "-") + suffix
	}
	return "", fmt.Errorf("no free slug for %q: %w", base, domain.ErrCategoryExists)
}

func duplicateNameError() error {
	errs := domain.ValidationErrors{}
	errs.Add(domain.FieldName, "A category with this name already exists.")
	return errs
}
