package errors

import "fmt"

// RagError is the structured error type used across the indexing and retrieval
// pipeline. It carries enough context for a caller to log, retry, or present
// the failure without re-deriving the file path or operation that produced it.
type RagError struct {
	// Code is the unique error code (e.g. "ERR_301_LOAD_FAILED").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error kind per the taxonomy: Config, IO, Load, Embedding, Index, Aborted, Limit.
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details carries additional context, most commonly a "path" key.
	Details map[string]string

	// Cause is the underlying error, if any.
	Cause error

	// Retryable indicates whether the operation can be retried.
	Retryable bool

	// Suggestion is an actionable hint for the caller.
	Suggestion string
}

// Error implements the error interface.
func (e *RagError) Error() string {
	if path, ok := e.Details["path"]; ok {
		return fmt.Sprintf("[%s] %s (%s)", e.Code, e.Message, path)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error-chain support.
func (e *RagError) Unwrap() error {
	return e.Cause
}

// Is enables errors.Is() to match RagError by code.
func (e *RagError) Is(target error) bool {
	if t, ok := target.(*RagError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail attaches a key-value detail and returns the error for chaining.
func (e *RagError) WithDetail(key, value string) *RagError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithPath is a shorthand for WithDetail("path", path); the propagation policy
// requires file-path context to travel with loader and I/O failures.
func (e *RagError) WithPath(path string) *RagError {
	return e.WithDetail("path", path)
}

// WithSuggestion adds an actionable suggestion and returns the error for chaining.
func (e *RagError) WithSuggestion(suggestion string) *RagError {
	e.Suggestion = suggestion
	return e
}

// New creates a RagError with category, severity, and retryable flag derived from code.
func New(code, message string, cause error) *RagError {
	return &RagError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap builds a RagError from an existing error, reusing its message.
func Wrap(code string, err error) *RagError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigErr creates a configuration error (missing model, invalid chunk size).
func ConfigErr(message string, cause error) *RagError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOErr creates an I/O error (path not found, permission, snapshot failure).
func IOErr(message string, cause error) *RagError {
	return New(ErrCodePathNotFound, message, cause)
}

// LoadErr creates a loader error for a specific file.
func LoadErr(path string, cause error) *RagError {
	return New(ErrCodeLoadFailed, "failed to load document", cause).WithPath(path)
}

// EmbeddingErr creates an embedding-backend error.
func EmbeddingErr(message string, cause error) *RagError {
	return New(ErrCodeEmbeddingFailed, message, cause)
}

// IndexErr creates an HNSW/BM25 build error.
func IndexErr(message string, cause error) *RagError {
	return New(ErrCodeHNSWBuild, message, cause)
}

// Abort creates a cancellation error, distinguished so UIs can report it as a
// user action rather than a fault.
func Abort() *RagError {
	return New(ErrCodeAborted, "operation cancelled", nil)
}

// LimitErr creates a token-budget-exceeded error, surfaced via max_input_tokens_limit.
func LimitErr(message string) *RagError {
	return New(ErrCodeTokenBudgetExceeded, message, nil)
}

// IsRetryable reports whether err is a RagError with the Retryable flag set.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if re, ok := err.(*RagError); ok {
		return re.Retryable
	}
	return false
}

// IsAborted reports whether err represents user cancellation.
func IsAborted(err error) bool {
	if err == nil {
		return false
	}
	re, ok := err.(*RagError)
	return ok && re.Category == CategoryAborted
}

// IsFatal reports whether err has fatal severity.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if re, ok := err.(*RagError); ok {
		return re.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code, or "" if err is not a RagError.
func GetCode(err error) string {
	if re, ok := err.(*RagError); ok {
		return re.Code
	}
	return ""
}

// GetCategory extracts the category, or "" if err is not a RagError.
func GetCategory(err error) Category {
	if re, ok := err.(*RagError); ok {
		return re.Category
	}
	return ""
}
