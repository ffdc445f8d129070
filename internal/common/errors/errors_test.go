package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	messages []string
	fields   []map[string]interface{}
}

func (r *recordingLogger) Error(msg string, fields map[string]interface{}) {
	r.messages = append(r.messages, msg)
	r.fields = append(r.fields, fields)
}

func TestStandardError_IsMatchesByCode(t *testing.T) {
	err := NewProviderError("The search failed.", fmt.Errorf("dial tcp: refused"))
	wrapped := fmt.Errorf("fetch institution: %w", err)

	assert.True(t, stderrors.Is(wrapped, ErrProviderError))
	assert.False(t, stderrors.Is(wrapped, ErrEmptyResponse))
	assert.Equal(t, ErrCodeProviderError, CodeOf(wrapped))
	assert.True(t, IsRetryable(wrapped))
}

func TestStandardError_UnwrapsCause(t *testing.T) {
	cause := stderrors.New("unexpected end of JSON input")
	err := NewMalformedResponseError("Could not read the answer.", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "unexpected end of JSON input", err.Details)
}

func TestStandardError_MessageHidesDetails(t *testing.T) {
	err := NewProviderError("The search took too long or failed.", stderrors.New("api key invalid: AIza..."))

	assert.NotContains(t, err.Error(), "AIza")
	assert.Equal(t, "The search took too long or failed.", err.UserMessage())
}

func TestRetryability(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"empty response", NewEmptyResponseError("x"), true},
		{"malformed", NewMalformedResponseError("x", nil), true},
		{"provider", NewProviderError("x", nil), true},
		{"no results", NewNoResultsError("x"), false},
		{"file format", NewFileFormatError("x", nil), false},
		{"invalid query", NewInvalidQueryError("state missing"), false},
		{"plain error", stderrors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
		})
	}
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeEmptyResponse))
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeProviderError))
	assert.Equal(t, "EMPTY", GetErrorCategory(ErrCodeNoResults))
	assert.Equal(t, "INPUT_FILE", GetErrorCategory(ErrCodeFileFormat))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidQuery))
	assert.Equal(t, "STORAGE", GetErrorCategory(ErrCodeCache))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestErrorHandler_Handle(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)

	msg := h.Handle("search", NewProviderError("The search failed.", stderrors.New("429 quota")))
	assert.Equal(t, "The search failed.", msg)
	require.Len(t, log.fields, 1)
	assert.Equal(t, "PROVIDER_ERROR", log.fields[0]["errorCode"])
	assert.Equal(t, "429 quota", log.fields[0]["details"])

	msg = h.Handle("search", stderrors.New("nil pointer"))
	assert.Equal(t, "Unexpected error. Please try again.", msg)
	assert.Equal(t, "INTERNAL_ERROR", log.fields[1]["errorCode"])

	assert.Equal(t, "", h.Handle("search", nil))
	assert.Len(t, log.messages, 2)
}
