package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetailError_Render(t *testing.T) {
	err := NewValidationError("meta.name is required", "bundle.yaml", "add a meta section")

	msg := err.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "bundle.yaml")
	assert.Contains(t, msg, "meta.name is required")
	assert.Contains(t, msg, "Hint: add a meta section")
}

func TestDetailError_UnwrapsToSentinel(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"validation", NewValidationError("m", "", ""), ErrValidation},
		{"environment", NewEnvironmentError("m", ""), ErrEnvironment},
		{"not found", NewNotFoundError("m", "", ""), ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
		})
	}
}

func TestExitError(t *testing.T) {
	inner := NewEnvironmentError("no interpreter", "")
	err := &ExitError{Code: ExitEnvironmentError, Err: inner}

	var exitErr *ExitError
	require.True(t, errors.As(error(err), &exitErr))
	assert.Equal(t, ExitEnvironmentError, exitErr.Code)
	assert.True(t, errors.Is(err, ErrEnvironment))
}

func TestWrap(t *testing.T) {
	err := Wrap(ErrTimeout, "simulation took too long")
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Contains(t, err.Error(), "simulation took too long")
}
