package main

import "fmt"

// Exit codes beyond the ruleset failure count.
const (
	exitFatal       = 255
	maxFailuresCode = 254
)

// ExitError carries a process exit code out of a RunE handler.
type ExitError struct {
	Err  error
	Code int
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// failuresCode maps a failing ruleset count to an exit status that cannot
// collide with exitFatal.
func failuresCode(failures int) int {
	return min(failures, maxFailuresCode)
}
