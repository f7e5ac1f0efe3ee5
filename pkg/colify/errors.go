package colify

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for caller configuration errors: unknown option
// keys, unrecognized methods, non-integer widths and out-of-range values.
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError describes which option was rejected and why.
type ArgumentError struct {
	Key    string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%v: %s", ErrInvalidArgument, e.Reason)
	}
	return fmt.Sprintf("%v: %q %s", ErrInvalidArgument, e.Key, e.Reason)
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

func invalidArgument(key, format string, args ...any) error {
	return &ArgumentError{Key: key, Reason: fmt.Sprintf(format, args...)}
}
