package apperror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "without field",
			err:      New(CodeInvalidTimeWindow, "time window is invalid"),
			expected: "[VAL_INVALID_TIME_WINDOW] time window is invalid",
		},
		{
			name:     "with field",
			err:      NewWithField(CodeMissingField, "priority is required", "priority"),
			expected: "[VAL_MISSING_FIELD] priority is required (field: priority)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(cause, CodeInternal, "wrapped error")

	assert.Equal(t, cause, err.Unwrap())
}

func TestError_CategoryAndHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     ErrorCode
		category Category
		status   int
	}{
		{"validation", CodeInvalidTimeWindow, CategoryValidation, 400},
		{"authentication", CodeUnauthenticated, CategoryAuthentication, 401},
		{"authorization", CodePermissionDenied, CategoryAuthorization, 403},
		{"resource", CodeJobNotFound, CategoryResource, 404},
		{"conflict", CodeJobTerminal, CategoryConflict, 409},
		{"rate", CodeQuotaExceeded, CategoryRate, 429},
		{"external", CodePredictorUnavailable, CategoryExternal, 503},
		{"timeout", CodeOperationTimeout, CategoryTimeout, 504},
		{"server", CodeInternal, CategoryServer, 500},
		{"unexpected", CodeUnexpected, CategoryUnexpected, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, "boom")
			assert.Equal(t, tt.category, err.Category())
			assert.Equal(t, tt.status, err.HTTPStatus())
			got := err.HTTPStatus()
			if got >= httpStatusServerMin && got <= httpStatusServerMax {
				assert.True(t, tt.category == CategoryServer || tt.category == CategoryUnexpected,
					"unexpected server-range status %d for category %v", got, tt.category)
			}
		})
	}
}

func TestError_Retryable(t *testing.T) {
	retryable := []ErrorCode{CodePredictorUnavailable, CodeConnectionRefused, CodeOperationTimeout, CodeQuotaExceeded}
	for _, c := range retryable {
		assert.True(t, New(c, "x").Retryable(), "expected %s to be retryable", c)
	}
	nonRetryable := []ErrorCode{CodeInvalidTimeWindow, CodeJobNotFound, CodeJobTerminal, CodeInternal}
	for _, c := range nonRetryable {
		assert.False(t, New(c, "x").Retryable(), "expected %s to be non-retryable", c)
	}
}

func TestIsRetryable_NonAppError(t *testing.T) {
	assert.False(t, IsRetryable(errors.New("plain error")), "plain errors should not be retryable")
}

func TestError_WithDetailsFieldSeverity(t *testing.T) {
	err := New(CodeInvalidConstraint, "bad constraint").
		WithField("weight").
		WithDetails("min", 0).
		WithSeverity(SeverityCritical)

	assert.Equal(t, "weight", err.Field)
	assert.Equal(t, 0, err.Details["min"])
	assert.True(t, IsCritical(err), "expected critical severity")
}

func TestValidationErrors(t *testing.T) {
	v := NewValidationErrors()
	v.AddError(CodeInvalidTimeWindow, "start >= end")
	v.AddWarning(CodeInvalidConstraint, "weight clamped to 1.0")

	require.True(t, v.HasErrors())
	require.True(t, v.HasWarnings())
	require.False(t, v.IsValid())

	other := NewValidationErrors()
	other.AddError(CodeMissingField, "region required")
	v.Merge(other)

	assert.Len(t, v.Errors, 2)
	assert.Len(t, v.ErrorMessages(), 2)
}

func TestCode(t *testing.T) {
	assert.Equal(t, CodeJobNotFound, Code(New(CodeJobNotFound, "x")), "Code() did not round-trip")
	assert.Equal(t, CodeUnexpected, Code(errors.New("plain")), "Code() of plain error should default to CodeUnexpected")
}
