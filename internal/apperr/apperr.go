// Package apperr defines the sentinel error kinds shared by every CLI
// stage, plus the exit-code mapping each stage's main uses to decide how
// to leave the process.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrIO             = errors.New("i/o error")
	ErrMalformedUTF8  = errors.New("malformed utf-8")
	ErrMalformedIndex = errors.New("malformed index")
	ErrOutOfMemory    = errors.New("out of memory")
	ErrUsage          = errors.New("usage error")
)

// AppError pairs a sentinel kind with a human-readable message and the
// exit code its CLI stage should report.
type AppError struct {
	Err      error
	Message  string
	ExitCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// New wraps sentinel with a message and exit code.
func New(sentinel error, exitCode int, message string) *AppError {
	return &AppError{Err: sentinel, Message: message, ExitCode: exitCode}
}

// Newf is New with a formatted message.
func Newf(sentinel error, exitCode int, format string, args ...any) *AppError {
	return &AppError{Err: sentinel, Message: fmt.Sprintf(format, args...), ExitCode: exitCode}
}

// ExitCode reports the process exit code for err: an *AppError's own
// code if it carries one, 2 for a bare ErrUsage, otherwise 1 for any
// other non-nil error, 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.ExitCode
	}
	if errors.Is(err, ErrUsage) {
		return 2
	}
	return 1
}
