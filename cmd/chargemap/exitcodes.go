package main

import "fmt"

// Exit codes for the chargemap CLI.
const (
	ExitOK          = 0 // Success.
	ExitInvalidArgs = 1 // Bad flags, unknown filter values or presets.
	ExitDataError   = 2 // The dataset or preset store could not be read.
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

func exitError(code int, format string, args ...any) *exitCodeError {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		switch code {
		case ExitDataError:
			msg = "data error"
		default:
			msg = "invalid arguments"
		}
	}
	return &exitCodeError{code: code, msg: msg}
}
