package writers

import (
	"errors"
	"io"
	"syscall"
)

// IsBrokenPipe is true when the reader went away early, e.g. `razor -o - | head`.
func IsBrokenPipe(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}

// IgnoreBrokenPipe maps a broken pipe to nil and returns other errors as is.
func IgnoreBrokenPipe(err error) error {
	if IsBrokenPipe(err) {
		return nil
	}
	return err
}
