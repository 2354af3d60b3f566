package app

import (
	"errors"
)

// ErrorCode classifies store errors independently of their message.
type ErrorCode string

const (
	CodeValidation ErrorCode = "VALIDATION"
	CodeNotFound   ErrorCode = "NOT_FOUND"
)

// Error is returned by every failing store mutation. Message is stable and
// safe to match on; Error() returns it verbatim.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Is matches on code and message so fresh errors compare equal to the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// ValidationError reports a violated input contract.
func ValidationError(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// NotFoundError reports a missing operation target.
func NotFoundError(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

var (
	ErrTitleRequired        = ValidationError("Title is required")
	ErrTitleTooLong         = ValidationError("Title must not exceed 100 characters")
	ErrDescriptionTooLong   = ValidationError("Description must not exceed 500 characters")
	ErrDueDateInPast        = ValidationError("Due date cannot be in the past")
	ErrTagEmpty             = ValidationError("Tag name cannot be empty")
	ErrTagTooLong           = ValidationError("Tag name must not exceed 30 characters")
	ErrTooManyTags          = ValidationError("Maximum 10 tags per task")
	ErrTagExists            = ValidationError("Tag already exists")
	ErrMergeSourceEmpty     = ValidationError("Tags to merge cannot be empty")
	ErrCategoryNameRequired = ValidationError("Category name is required")
	ErrCategoryNameTooLong  = ValidationError("Category name must not exceed 50 characters")
	ErrInvalidPriority      = ValidationError("Invalid priority")
	ErrInvalidFilter        = ValidationError("Invalid filter")
	ErrInvalidSortField     = ValidationError("Invalid sort field")
	ErrInvalidSortDirection = ValidationError("Invalid sort direction")

	ErrTaskNotFound     = NotFoundError("Task not found")
	ErrCategoryNotFound = NotFoundError("Category not found")
	ErrTagNotFound      = NotFoundError("Tag not found")

	ErrNothingToUndo = errors.New("nothing to undo")
)

// IsValidation reports whether err is (or wraps) a validation error.
func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

// IsNotFound reports whether err is (or wraps) a not-found error.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
