package handler

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// ErrIncomplete is reported when a middleware returned an invalid Done
// without finalizing the response.
var ErrIncomplete = errors.New("handler: middleware neither finalized the response nor called next")

// PanicError wraps a value recovered from a panicking middleware.
type PanicError struct {
	value any
	stack []byte
}

// NewPanicError captures the current stack for a recovered value.
func NewPanicError(value any) *PanicError {
	return &PanicError{value: value, stack: debug.Stack()}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// Name implements the optional name lookup.
func (e *PanicError) Name() string { return "panic" }

// Value returns the original panic value.
func (e *PanicError) Value() any { return e.value }

// Stack returns the stack trace captured at recovery.
func (e *PanicError) Stack() []byte { return e.stack }

// Unwrap exposes a panicked error to errors.Is/As.
func (e *PanicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}

// ErrorName returns the error's name if it, or any error it wraps,
// implements Name() string with a non-empty result.
func ErrorName(err error) (string, bool) {
	var named interface{ Name() string }
	if errors.As(err, &named) {
		if n := named.Name(); n != "" {
			return n, true
		}
	}
	return "", false
}

// ErrorMessage returns err.Error() unless it is empty.
func ErrorMessage(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	msg := err.Error()
	return msg, msg != ""
}

// ErrorStatus returns the status code of the first error in the chain that
// implements StatusCode() int.
func ErrorStatus(err error) (int, bool) {
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		return sc.StatusCode(), true
	}
	return 0, false
}
