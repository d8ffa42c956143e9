package apperror

import (
	"errors"
	"net/http"
)

// Machine-readable error codes surfaced to API callers.
const (
	CodeMissingOrderID        = "missing_order_id"
	CodeNotFound              = "not_found"
	CodeInvalidState          = "invalid_state"
	CodeAlreadyIssued         = "already_issued"
	CodeEmptyLines            = "empty_lines"
	CodeInvalidLines          = "invalid_lines"
	CodeInvalidValues         = "invalid_values"
	CodeInvalidJSON           = "invalid_json"
	CodeJournalCreationFailed = "journal_creation_failed"
	CodeServerError           = "server_error"
	CodeValidationFailed      = "validation_failed"
	CodeUnauthorized          = "unauthorized"
	CodeForbidden             = "forbidden"
	CodeConflict              = "conflict"
	CodeBadRequest            = "bad_request"
)

// AppError represents an application error with an HTTP status and a
// stable machine-readable code.
type AppError struct {
	Status  int          `json:"-"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound       = &AppError{Status: http.StatusNotFound, Code: CodeNotFound, Message: "Resource not found"}
	ErrUnauthorized   = &AppError{Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: "Unauthorized"}
	ErrForbidden      = &AppError{Status: http.StatusForbidden, Code: CodeForbidden, Message: "Forbidden"}
	ErrBadRequest     = &AppError{Status: http.StatusBadRequest, Code: CodeBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Status: http.StatusInternalServerError, Code: CodeServerError, Message: "Internal server error"}
	ErrConflict       = &AppError{Status: http.StatusConflict, Code: CodeConflict, Message: "Resource already exists"}
)

// New creates a new application error.
func New(status int, code, message string) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error.
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Status:  http.StatusUnprocessableEntity,
		Code:    CodeValidationFailed,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error for a named resource.
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Status:  http.StatusNotFound,
		Code:    CodeNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message.
func NewConflictError(message string) *AppError {
	return &AppError{
		Status:  http.StatusConflict,
		Code:    CodeConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message.
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    CodeBadRequest,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible. Unknown errors
// become server_error, carrying the underlying message for diagnostics.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Status:  http.StatusInternalServerError,
		Code:    CodeServerError,
		Message: err.Error(),
	}
}
