package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrSelection indicates a required document was not chosen.
	ErrSelection = errors.New("selection error")

	// ErrValidation indicates the external validator reported problems.
	ErrValidation = errors.New("validation error")

	// ErrEnvironment indicates no usable interpreter could be located.
	ErrEnvironment = errors.New("environment error")

	// ErrTimeout indicates the simulation exceeded its wall-clock budget.
	ErrTimeout = errors.New("timeout")

	// ErrNotFound indicates a document or file was not found.
	ErrNotFound = errors.New("not found")
)
