package transport

import (
	"fmt"
	"net"
	"time"
)

// Telnet dials the frontend over a raw TCP socket. The legacy frontend
// speaks plain line-oriented text on this port; no telnet option
// negotiation is performed.
type Telnet struct{}

// Dial connects to address within timeout.
func (t *Telnet) Dial(address string, timeout time.Duration) (Conn, error) {
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", address, err)
	}
	return conn, nil
}

var _ Dialer = (*Telnet)(nil)
