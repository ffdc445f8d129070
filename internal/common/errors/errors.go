package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

type ErrorCode string

const (
	ErrCodeEmptyResponse     ErrorCode = "EMPTY_RESPONSE"
	ErrCodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	ErrCodeProviderError     ErrorCode = "PROVIDER_ERROR"
	ErrCodeNoResults         ErrorCode = "NO_RESULTS"

	ErrCodeFileFormat ErrorCode = "FILE_FORMAT_ERROR"

	ErrCodeInvalidQuery ErrorCode = "INVALID_QUERY"
	ErrCodeCache        ErrorCode = "CACHE_ERROR"
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// Sentinels for errors.Is. A StandardError matches the sentinel that carries
// the same code, whatever its message.
var (
	ErrEmptyResponse     = &StandardError{Code: ErrCodeEmptyResponse}
	ErrMalformedResponse = &StandardError{Code: ErrCodeMalformedResponse}
	ErrProviderError     = &StandardError{Code: ErrCodeProviderError}
	ErrNoResults         = &StandardError{Code: ErrCodeNoResults}
	ErrFileFormat        = &StandardError{Code: ErrCodeFileFormat}
	ErrInvalidQuery      = &StandardError{Code: ErrCodeInvalidQuery}
)

// StandardError carries a short user-safe Message. Details and Cause are for
// logs only and never reach the user.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.Cause
}

func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// UserMessage returns the text that may be shown to the end user.
func (e *StandardError) UserMessage() string {
	if e.Message == "" {
		return "Something went wrong. Please try again."
	}
	return e.Message
}

func NewEmptyResponseError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyResponse,
		Message:   message,
		Details:   "provider returned no response text",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewMalformedResponseError(message string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedResponse,
		Message:   message,
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewProviderError(message string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderError,
		Message:   message,
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewNoResultsError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoResults,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewFileFormatError(message string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFileFormat,
		Message:   message,
		Details:   errDetails(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewInvalidQueryError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidQuery,
		Message:   "The query is missing required fields.",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewCacheError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCache,
		Message:   "Local cache is unavailable.",
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// CodeOf returns the code of the first StandardError in err's chain, or
// ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternal
}

func IsRetryable(err error) bool {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "RESPONSE") || strings.Contains(codeStr, "PROVIDER"):
		return "AI"
	case strings.Contains(codeStr, "NO_RESULTS"):
		return "EMPTY"
	case strings.Contains(codeStr, "FILE"):
		return "INPUT_FILE"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "CACHE"):
		return "STORAGE"
	default:
		return "OTHER"
	}
}
