// Package domain defines the error taxonomy shared by the meshkv command layer
// and the servers that surface it to clients.
package domain

import (
	"errors"
	"fmt"
)

// CommandError is a request-level error: the connection stays usable and the
// client receives "ERR <Message>".
//
// Two CommandErrors match under errors.Is when their codes are equal, so the
// sentinels below can be compared against errors carrying a specific message.
type CommandError struct {
	Code    string // Error code (e.g., "KV-ARG-1001")
	Message string // Human-readable message, sent to the client
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Cause
}

// Is matches another *CommandError by code.
func (e *CommandError) Is(target error) bool {
	t, ok := target.(*CommandError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewCommandError creates a CommandError with the given code and message.
func NewCommandError(code, message string) *CommandError {
	return &CommandError{Code: code, Message: message}
}

// WithMessage returns a copy of the error carrying a specific message.
func (e *CommandError) WithMessage(format string, args ...any) *CommandError {
	return &CommandError{
		Code:    e.Code,
		Message: fmt.Sprintf(format, args...),
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping cause.
func (e *CommandError) WithCause(cause error) *CommandError {
	return &CommandError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   cause,
	}
}

// ClientMessage returns the text a client should see for err.
// Non-command errors are reported generically.
func ClientMessage(err error) string {
	var ce *CommandError
	if errors.As(err, &ce) {
		return "ERR " + ce.Message
	}
	return "ERR internal error"
}

// GetErrorCode extracts the error code from err if it is a CommandError.
func GetErrorCode(err error) string {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// ErrInvalidText is the cause attached when a bulk string that must be text
// is not valid UTF-8.
var ErrInvalidText = errors.New("invalid utf-8")

var (
	// ErrInvalidArgument covers wrong command name, arity, element kind or
	// text encoding.
	ErrInvalidArgument = NewCommandError("KV-ARG-1001", "invalid argument")

	// ErrUnknownCommand indicates a command name outside the supported set.
	ErrUnknownCommand = NewCommandError("KV-CMD-4040", "unknown command")

	// ErrRateLimited indicates the connection exceeded its command budget.
	ErrRateLimited = NewCommandError("KV-SYS-4290", "rate limit exceeded")

	// ErrInternal reports a failure inside the server, such as a recovered
	// panic in an HTTP handler.
	ErrInternal = NewCommandError("KV-SYS-5000", "internal error")
)
