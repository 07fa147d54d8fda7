package classify

import (
	"errors"
	"fmt"
)

// Error is a failed classifier invocation for a single sequence.
// Op is the step that failed: "exec", "http", "decode", "panic", or "call"
// for errors from classifiers that do not use this type.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("classifier %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// AsError wraps err as *Error unless it already is one.
func AsError(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	return &Error{Op: op, Err: err}
}
