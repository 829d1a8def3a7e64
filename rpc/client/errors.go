package client

import (
	"errors"
	"fmt"
)

// ErrConnTimedOut is returned by ConnectWithRetry when the whole retry
// budget was spent without reaching the server. The individual per-attempt
// errors are not surfaced.
var ErrConnTimedOut = errors.New("connection to server timed out")

// A TransportError indicates that bytes could not be moved on an established
// connection: a failed clone, write, or read, including a stream that ended
// inside a frame.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// A DecodeError indicates that a fully received payload did not decode to a
// valid message. Unlike a TransportError this points at a protocol or
// version mismatch rather than a network fault.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
