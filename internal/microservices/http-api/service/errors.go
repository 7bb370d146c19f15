package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error categories. Handlers map these to status codes; concrete errors wrap
// one of them.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
	ErrForbidden       = errors.New("you do not have permission to perform this action")
	ErrNotFound        = errors.New("not found")
	ErrDelivery        = errors.New("confirmation code could not be delivered")
)

var (
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrGenreNotFound    = fmt.Errorf("genre %w", ErrNotFound)
	ErrTitleNotFound    = fmt.Errorf("title %w", ErrNotFound)
	ErrReviewNotFound   = fmt.Errorf("review %w", ErrNotFound)
	ErrCommentNotFound  = fmt.Errorf("comment %w", ErrNotFound)
	ErrPageNotFound     = fmt.Errorf("page %w", ErrNotFound)

	ErrInvalidCode  = fmt.Errorf("%w: confirmation code is invalid or expired", ErrForbidden)
	ErrInvalidToken = fmt.Errorf("%w: invalid token", ErrUnauthenticated)

	ErrDuplicateReview = NewValidationError("non_field_errors", "you have already reviewed this title")
)

// ValidationError carries per-field messages back to the client.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
