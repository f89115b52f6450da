package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dafibh/household/household-backend/internal/domain"
	"github.com/dafibh/household/household-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryRequest is the create and update category body. A missing isActive
// means active on create and leaves the flag unchanged on update.
type CategoryRequest struct {
	Name     string `json:"name" form:"name"`
	IsActive *flag  `json:"isActive" form:"is_active"`
}

func (r CategoryRequest) values() map[string]string {
	values := map[string]string{domain.FieldName: r.Name}
	if r.IsActive != nil {
		values["is_active"] = strconv.FormatBool(bool(*r.IsActive))
	}
	return values
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        int32  `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// GetCategories handles GET /api/v1/categories. ?active=true lists only the
// categories offered in pickers.
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	activeOnly := parseFlag(c.QueryParam("active"))

	categories, err := h.categoryService.ListCategories(c.Request().Context(), activeOnly)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get categories")
		return NewInternalError(c, "Failed to get categories")
	}

	response := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		response[i] = toCategoryResponse(category)
	}
	return c.JSON(http.StatusOK, response)
}

// CreateCategory handles POST /api/v1/categories. With ?inline=<token> the
// category was created from inside another form: the token is echoed in the
// change event and the category modal is left open.
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	token := c.QueryParam("inline")
	input := service.CategoryInput{Name: req.Name, IsActive: req.IsActive.ptr()}

	category, event, err := h.categoryService.CreateCategory(c.Request().Context(), input, token)
	if err != nil {
		return h.mutationError(c, err, req, "create")
	}

	log.Info().Int32("category_id", category.ID).Str("slug", category.Slug).Msg("Category created")
	return respondChanged(c, event, token == "")
}

// UpdateCategory handles PUT /api/v1/categories/:id
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	token := c.QueryParam("inline")
	input := service.CategoryInput{Name: req.Name, IsActive: req.IsActive.ptr()}

	category, event, err := h.categoryService.UpdateCategory(c.Request().Context(), id, input, token)
	if err != nil {
		return h.mutationError(c, err, req, "update")
	}

	log.Info().Int32("category_id", category.ID).Msg("Category updated")
	return respondChanged(c, event, token == "")
}

// DeleteCategory handles DELETE /api/v1/categories/:id. A category still used by
// transactions is refused with 409 and left in place.
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	event, err := h.categoryService.DeleteCategory(c.Request().Context(), id)
	if err != nil {
		var protected *domain.ProtectedError
		if errors.As(err, &protected) {
			return NewConflictError(c, protected.Error())
		}
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		log.Error().Err(err).Int32("category_id", id).Msg("Failed to delete category")
		return NewInternalError(c, "Failed to delete category")
	}

	log.Info().Int32("category_id", id).Msg("Category deleted")
	return respondChanged(c, event, true)
}

func (h *CategoryHandler) mutationError(c echo.Context, err error, req CategoryRequest, action string) error {
	if errs, ok := domain.AsValidationErrors(err); ok {
		return NewFieldValidationError(c, errs, req.values())
	}
	if errors.Is(err, domain.ErrCategoryNotFound) {
		return NewNotFoundError(c, "Category not found")
	}
	if errors.Is(err, domain.ErrCategoryExists) {
		return NewConflictError(c, "Could not allocate a unique slug for this category")
	}
	log.Error().Err(err).Str("action", action).Msg("Failed to save category")
	return NewInternalError(c, "Failed to "+action+" category")
}

func toCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Slug:      category.Slug,
		IsActive:  category.IsActive,
		CreatedAt: category.CreatedAt.Format(time.RFC3339),
		UpdatedAt: category.UpdatedAt.Format(time.RFC3339),
	}
}
