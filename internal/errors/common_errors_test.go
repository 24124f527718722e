package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "parsing error type", errType: ErrTypeParsing, expected: "PARSING"},
		{name: "storage error type", errType: ErrTypeStorage, expected: "STORAGE"},
		{name: "validation error type", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "not found error type", errType: ErrTypeNotFound, expected: "NOT_FOUND"},
		{name: "config error type", errType: ErrTypeConfig, expected: "CONFIG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name:        "error without cause",
			appError:    NewValidationError("rolling window too small"),
			wantMessage: "[VALIDATION] rolling window too small",
		},
		{
			name:        "error with cause",
			appError:    NewStorageError("failed to write table", fmt.Errorf("disk full")),
			wantMessage: "[STORAGE] failed to write table: disk full",
		},
		{
			name: "context rendered in key order",
			appError: NewNotFoundError("sheet").
				WithSheet("hourly_operation_breakdown").
				WithPath("data/raw/dataset.xlsx"),
			wantMessage: "[NOT_FOUND] sheet not found (path=data/raw/dataset.xlsx, sheet=hourly_operation_breakdown)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewStorageError("failed to open workbook", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, cause, err.Unwrap())
}

func TestIsType(t *testing.T) {
	inner := NewNotFoundError("input file").WithPath("cleaned/daily_cleaned.csv")
	outer := NewStorageError("step failed", inner)
	wrapped := fmt.Errorf("run aborted: %w", outer)

	assert.True(t, IsType(wrapped, ErrTypeStorage))
	assert.True(t, IsType(wrapped, ErrTypeNotFound))
	assert.False(t, IsType(wrapped, ErrTypeConfig))
	assert.False(t, IsType(errors.New("plain"), ErrTypeStorage))
	assert.False(t, IsType(nil, ErrTypeStorage))
}

func TestContextValue(t *testing.T) {
	inner := NewNotFoundError("sheet").WithSheet("processed_hourly")
	wrapped := fmt.Errorf("prepare: %w", NewParsingError("load failed", inner))

	sheet, ok := ContextValue(wrapped, ContextSheet)
	require.True(t, ok)
	assert.Equal(t, "processed_hourly", sheet)

	_, ok = ContextValue(wrapped, ContextPath)
	assert.False(t, ok)
}
