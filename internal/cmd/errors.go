package cmd

import "errors"

// ExitError carries a process exit code alongside the underlying error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "exited"
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps an error to the process exit code: 0 for nil, the carried
// code for an ExitError, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}

// usage wraps a bad-invocation error with exit code 2.
func usage(msg string) error {
	return &ExitError{Code: 2, Err: errors.New(msg)}
}
