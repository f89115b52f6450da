package handler

import (
	"net/http"

	"github.com/dafibh/household/household-backend/internal/domain"
	"github.com/dafibh/household/household-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
	// Values echoes the submitted form so a client can re-render it unchanged
	Values map[string]string `json:"values,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation = "https://household.app/errors/validation"
	ErrorTypeNotFound   = "https://household.app/errors/not-found"
	ErrorTypeConflict   = "https://household.app/errors/conflict"
	ErrorTypeInternal   = "https://household.app/errors/internal"
)

const contentTypeProblem = "application/problem+json"

func problem(c echo.Context, p ProblemDetails) error {
	p.Instance = c.Request().URL.Path
	c.Response().Header().Set(echo.HeaderContentType, contentTypeProblem)
	return c.JSON(p.Status, p)
}

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return problem(c, ProblemDetails{
		Type:   ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: detail,
		Errors: errors,
	})
}

// NewFieldValidationError reports every field violation at once, echoing the submitted values
func NewFieldValidationError(c echo.Context, verrs domain.ValidationErrors, values map[string]string) error {
	fields := verrs.Fields()
	errors := make([]ValidationError, len(fields))
	for i, field := range fields {
		errors[i] = ValidationError{Field: field, Message: verrs[field]}
	}
	return problem(c, ProblemDetails{
		Type:   ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: "Validation failed",
		Errors: errors,
		Values: values,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return problem(c, ProblemDetails{
		Type:   ErrorTypeNotFound,
		Title:  "Not Found",
		Status: http.StatusNotFound,
		Detail: detail,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return problem(c, ProblemDetails{
		Type:   ErrorTypeConflict,
		Title:  "Conflict",
		Status: http.StatusConflict,
		Detail: detail,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return problem(c, ProblemDetails{
		Type:   ErrorTypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
		Detail: detail,
	})
}

// respondChanged answers a successful mutation with 204 and the HX-Trigger
// header describing the change. closeModal adds the entity's close-modal signal.
func respondChanged(c echo.Context, event websocket.Event, closeModal bool) error {
	header, err := event.HXTrigger(closeModal)
	if err != nil {
		// The change is committed; only the client hint is lost
		log.Error().Err(err).Str("event_type", event.Type).Msg("Failed to build HX-Trigger header")
	} else {
		c.Response().Header().Set(websocket.HXTriggerHeader, header)
	}
	return c.NoContent(http.StatusNoContent)
}
