package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Graph construction errors
const (
	// ErrCodeNodeExists indicates the predictor is already registered in the graph.
	ErrCodeNodeExists ErrorCode = "NODE_ALREADY_EXISTS"
	// ErrCodeUnknownInput indicates a declared input is not a registered node.
	ErrCodeUnknownInput ErrorCode = "UNKNOWN_INPUT"
	// ErrCodeEmptyGraph indicates an attempt to freeze or execute a graph with no nodes.
	ErrCodeEmptyGraph ErrorCode = "EMPTY_GRAPH"
	// ErrCodeCycle indicates the declared edges do not form a DAG.
	ErrCodeCycle ErrorCode = "CYCLE_DETECTED"
	// ErrCodeAmbiguousSink indicates a single result was requested from a
	// graph with more than one sink node.
	ErrCodeAmbiguousSink ErrorCode = "AMBIGUOUS_SINK"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Resource errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists indicates the resource already exists.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
)

// Availability errors (retryable)
const (
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeServiceUnavailable indicates the service is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// Authentication errors
const (
	// ErrCodeUnauthorized indicates the request is unauthorized.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeInvalidToken indicates the authentication token is invalid.
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeExecutionFailed indicates a predictor invocation failed during a pass.
	ErrCodeExecutionFailed ErrorCode = "EXECUTION_FAILED"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:            true,
	ErrCodeServiceUnavailable: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
