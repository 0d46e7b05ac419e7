package errors

// Exit codes for the crml binary.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitValidationError indicates the document failed validation.
	ExitValidationError = 2

	// ExitEnvironmentError indicates no usable interpreter was found.
	ExitEnvironmentError = 3

	// ExitNotFound indicates a document or file was not found.
	ExitNotFound = 4

	// ExitTimeout indicates the simulation exceeded its time budget.
	ExitTimeout = 5
)

// ExitError carries an exit code through cobra's error return path.
type ExitError struct {
	// Code is the process exit code.
	Code int

	// Err is the underlying error.
	Err error

	// Printed marks the error as already rendered by the command layer.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return "exit error"
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}
