// Package transport provides the byte-stream transports the MML
// session runs over. The management frontend is reachable either over
// a raw TCP (telnet-style) socket or over SSH; both present the same
// prompt-driven text protocol once connected.
package transport

import (
	"fmt"
	"io"
	"time"

	"github.com/nanoncore/nano-mml/types"
)

// Kind selects how the management frontend is reached.
type Kind string

const (
	KindTelnet Kind = "telnet"
	KindSSH    Kind = "ssh"
)

// Conn is one byte stream to the management frontend. Close must be
// safe to call exactly once on any exit path.
type Conn interface {
	io.Reader
	io.WriteCloser
}

// Dialer opens a Conn to a host:port address within a timeout.
type Dialer interface {
	Dial(address string, timeout time.Duration) (Conn, error)
}

// NewDialer returns the dialer for kind. SSH needs credentials at dial
// time; telnet authenticates in-band via LGI.
func NewDialer(kind Kind, creds types.Credentials) (Dialer, error) {
	switch kind {
	case KindTelnet, "":
		return &Telnet{}, nil
	case KindSSH:
		return &SSH{Credentials: creds}, nil
	default:
		return nil, fmt.Errorf("unsupported transport kind: %q", kind)
	}
}
