package cli

import (
	"errors"

	"github.com/mesh-intelligence/usertable/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// codedError attaches an exit code to an error.
type codedError struct {
	code int
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

// sysError marks err as a system failure (exit code 2).
func sysError(err error) error {
	if err == nil {
		return nil
	}
	return &codedError{code: exitSysError, err: err}
}

// exitCode maps an error to the process exit code: fetch failures and
// errors marked with sysError are system errors, anything else is a user
// error.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var coded *codedError
	if errors.As(err, &coded) {
		return coded.code
	}
	if errors.Is(err, types.ErrFetch) {
		return exitSysError
	}
	return exitUserError
}
