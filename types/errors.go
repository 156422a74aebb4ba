package types

import (
	"errors"
	"fmt"
)

// TransportError is a connect, read or write failure on the management
// link. It is fatal to the session it occurred on; the caller retries
// by opening a new session.
type TransportError struct {
	Op  string // "connect", "send", "read", "close"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DispatchError reports which endpoint of a multi-endpoint run failed.
// Results collected for earlier endpoints are discarded with it.
type DispatchError struct {
	Label string
	Err   error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("query against %s failed: %v", e.Label, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// IsTransport reports whether err is, or wraps, a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
