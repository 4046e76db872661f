// Package cli implements the dmgcalc and enemyparse command-line tools.
package cli

import (
	"errors"
	"fmt"
	"io"
)

// ExitError carries the process exit code for a failed run.
type ExitError struct {
	Code int
	Err  error
}

func (e ExitError) Error() string {
	if e.Err == nil {
		return "exit"
	}
	return e.Err.Error()
}

func (e ExitError) Unwrap() error {
	return e.Err
}

// Exit codes.
const (
	CodeFailure = 1
	CodeUsage   = 2
)

func usageError(format string, args ...any) error {
	return ExitError{Code: CodeUsage, Err: fmt.Errorf(format, args...)}
}

// ExitCode reports err on stderr and maps it to a process exit code.
func ExitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var ee ExitError
	if errors.As(err, &ee) {
		if ee.Err != nil && ee.Code != 0 {
			fmt.Fprintln(stderr, ee.Err)
		}
		return ee.Code
	}
	fmt.Fprintln(stderr, err)
	return CodeFailure
}
