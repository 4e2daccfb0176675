package cli

import (
	"errors"

	clierrors "github.com/shiplog/shiplog/internal/errors"
)

// ExitError carries an explicit process exit code alongside the underlying
// error. It supports wrapping via Unwrap so errors.Is/As work as expected.
type ExitError struct {
	code int
	err  error
}

// NewExitError wraps err with an explicit exit code.
func NewExitError(code int, err error) *ExitError {
	if code <= 0 {
		code = ExitRuntimeError
	}
	return &ExitError{code: code, err: err}
}

func (e *ExitError) Error() string { return e.err.Error() }

// Unwrap enables errors.Is/As to traverse the underlying cause.
func (e *ExitError) Unwrap() error { return e.err }

// ExitCode returns the process exit code this error demands.
func (e *ExitError) ExitCode() int { return e.code }

// ExitCodeOf extracts an exit code from any error, defaulting to
// ExitRuntimeError. This keeps Execute dumb and avoids duplicating
// errors.As logic everywhere.
func ExitCodeOf(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return ExitRuntimeError
}

// findCLIError extracts the structured CLIError from an error chain, if any.
func findCLIError(err error) *clierrors.CLIError {
	var cliErr *clierrors.CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
