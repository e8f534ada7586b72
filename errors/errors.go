package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Graph construction errors ---

// NodeExists creates a new AppError for a predictor that is already in the graph.
func NodeExists(predictor string) *AppError {
	return &AppError{
		Code: ErrCodeNodeExists, Message: fmt.Sprintf("Predictor %q is already registered in the graph.", predictor),
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"predictor": predictor},
	}
}

// UnknownInput creates a new AppError for an input that is not a registered node.
func UnknownInput(predictor string, input int) *AppError {
	return &AppError{
		Code: ErrCodeUnknownInput, Message: fmt.Sprintf("Input node %d declared by %q is not in the graph.", input, predictor),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"predictor": predictor, "input": input},
	}
}

// EmptyGraph creates a new AppError for a graph with no nodes.
func EmptyGraph() *AppError {
	return &AppError{
		Code: ErrCodeEmptyGraph, Message: "The graph has no nodes.",
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// Cycle creates a new AppError for a dependency cycle.
func Cycle(processed, total int) *AppError {
	return &AppError{
		Code: ErrCodeCycle, Message: fmt.Sprintf("Cycle detected: processed %d of %d nodes.", processed, total),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"processed": processed, "total": total},
	}
}

// AmbiguousSink creates a new AppError for a single-result request on a multi-sink graph.
func AmbiguousSink(sinks []string) *AppError {
	return &AppError{
		Code: ErrCodeAmbiguousSink, Message: "The graph has more than one sink node; a single result is ambiguous.",
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"sinks": sinks},
	}
}

// --- Execution errors ---

// ExecutionFailed creates a new AppError for a failed predictor invocation.
func ExecutionFailed(predictor string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeExecutionFailed, Message: fmt.Sprintf("Predictor %q failed.", predictor),
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
		Details: map[string]any{"predictor": predictor},
	}
}

// --- Generic constructors ---

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// AlreadyExists creates a new AppError for a resource that already exists.
func AlreadyExists(resource string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("A %s with these details already exists.", resource),
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"resource": resource},
	}
}

// Timeout creates a new AppError for a request that timed out.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The request took too long. Please try again.",
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// Unauthorized creates a new AppError for unauthorized access.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return &AppError{
		Code: ErrCodeUnauthorized, Message: reason,
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// InvalidToken creates a new AppError for an invalid authentication token.
func InvalidToken() *AppError {
	return &AppError{
		Code: ErrCodeInvalidToken, Message: "Invalid authentication token.",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// Unavailable creates a new AppError for a component that is not
// accepting work.
func Unavailable(component string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: "The service is temporarily unavailable. Please try again.",
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"component": component},
	}
}

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again or contact support.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
