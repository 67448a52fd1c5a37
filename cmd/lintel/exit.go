package main

import (
	"errors"
	"fmt"
)

// Exit codes of the check command.
const (
	exitClean    = 0
	exitFindings = 1
	// exitFailure covers usage, configuration and load problems.
	exitFailure = 2
)

// exitError carries an exit code out of RunE without a message; the
// command has already reported what went wrong.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func exitCodeOf(err error) (int, bool) {
	var e *exitError
	if errors.As(err, &e) {
		return e.code, true
	}
	return 0, false
}
