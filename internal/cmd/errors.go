package cmd

import (
	goerrors "errors"

	oerrors "github.com/crmodel/cli/internal/errors"
)

// exitCodeFromError determines the process exit code for an error.
func exitCodeFromError(err error) int {
	if err == nil {
		return oerrors.ExitSuccess
	}

	var exitErr *oerrors.ExitError
	if goerrors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case goerrors.Is(err, oerrors.ErrValidation):
		return oerrors.ExitValidationError
	case goerrors.Is(err, oerrors.ErrEnvironment):
		return oerrors.ExitEnvironmentError
	case goerrors.Is(err, oerrors.ErrNotFound):
		return oerrors.ExitNotFound
	case goerrors.Is(err, oerrors.ErrTimeout):
		return oerrors.ExitTimeout
	default:
		return oerrors.ExitGeneralError
	}
}

// exitWith wraps err with its resolved exit code so main can map it to the
// process exit status.
func exitWith(err error) error {
	if err == nil {
		return nil
	}
	return &oerrors.ExitError{Code: exitCodeFromError(err), Err: err}
}

// exitPrinted wraps err, marking it as already rendered by the command.
func exitPrinted(code int, err error) error {
	return &oerrors.ExitError{Code: code, Err: err, Printed: true}
}
