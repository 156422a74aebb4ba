// Package session drives one single-use MML exchange against the
// management frontend: connect, prompt-sync, LGI, REG NE, REG VNFC,
// query, close. There is no retry and no pooling; any transport error
// closes the session and the caller opens a fresh one.
package session

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	expect "github.com/google/goexpect"

	"github.com/nanoncore/nano-mml/transport"
	"github.com/nanoncore/nano-mml/types"
)

const (
	// terminator ends every MML response body.
	terminator = "---    END"

	// connectBanner is printed by the frontend on connect. Some
	// deployments suppress it, so its absence is tolerated.
	connectBanner = "Escape character is '^]'."
)

var (
	terminatorRE = regexp.MustCompile(regexp.QuoteMeta(terminator))
	bannerRE     = regexp.MustCompile(regexp.QuoteMeta(connectBanner))
)

// Session is one live connection to the management frontend.
type Session struct {
	conn    *liveConn
	exp     *expect.GExpect
	timeout time.Duration

	// done ends the expect session's Wait; closed exactly once, by
	// Close.
	done chan struct{}
}

// liveConn wraps the transport so the expect loop can tell a dead
// peer from a silent one: any read failure marks the connection dead,
// which flips the session's Check and fails pending Expects instead
// of letting them run out the timer.
type liveConn struct {
	transport.Conn
	dead atomic.Bool
}

func (c *liveConn) Read(p []byte) (int, error) {
	n, err := c.Conn.Read(p)
	if err != nil {
		c.dead.Store(true)
	}
	return n, err
}

func (c *liveConn) Close() error {
	c.dead.Store(true)
	return c.Conn.Close()
}

// Open dials the frontend and waits for the connect banner. A missing
// banner within the timeout is not fatal; the session proceeds
// optimistically, matching the frontend's tolerance of prompt
// suppression.
func Open(d transport.Dialer, address string, timeout time.Duration) (*Session, error) {
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	raw, err := d.Dial(address, timeout)
	if err != nil {
		return nil, &types.TransportError{Op: "connect", Err: err}
	}
	conn := &liveConn{Conn: raw}

	// Wait must block until the session is over: goexpect stops its
	// sender goroutine the moment Wait returns, and Send would hang
	// forever afterwards.
	done := make(chan struct{})
	exp, _, err := expect.SpawnGeneric(&expect.GenOptions{
		In:  conn,
		Out: conn,
		Wait: func() error {
			<-done
			return nil
		},
		Close: conn.Close,
		Check: func() bool { return !conn.dead.Load() },
	}, timeout, expect.CheckDuration(100*time.Millisecond))
	if err != nil {
		_ = conn.Close()
		return nil, &types.TransportError{Op: "connect", Err: fmt.Errorf("failed to attach expect session: %w", err)}
	}

	s := &Session{conn: conn, exp: exp, timeout: timeout, done: done}
	_, _, _ = exp.Expect(bannerRE, timeout)
	return s, nil
}

// Login authenticates the session and returns the raw response text.
// The response is not interpreted here; a rejected login surfaces as a
// RETCODE failure when the query output is parsed.
func (s *Session) Login(creds types.Credentials) (string, error) {
	return s.roundTrip(fmt.Sprintf(`LGI:OP=%q, PWD=%q;`, creds.Username, creds.Password))
}

// RegisterElement binds the session to the NE at address.
func (s *Session) RegisterElement(address string) (string, error) {
	return s.roundTrip(fmt.Sprintf(`REG NE:IP=%q;`, address))
}

// RegisterContext binds the session to a subsystem role.
func (s *Session) RegisterContext(role string) (string, error) {
	return s.roundTrip(fmt.Sprintf(`REG VNFC:NAME=%q;`, role))
}

// Execute sends a query command and returns the response text read up
// to the terminator.
func (s *Session) Execute(command string) (string, error) {
	return s.roundTrip(command)
}

// roundTrip sends one command and reads until the terminator or the
// timeout. A timeout returns whatever was read, truncated, rather than
// an error; the frontend pads silence, not the protocol.
func (s *Session) roundTrip(command string) (string, error) {
	if s.exp == nil {
		return "", &types.TransportError{Op: "send", Err: fmt.Errorf("session is closed")}
	}

	if err := s.exp.Send(command + "\r\n"); err != nil {
		return "", &types.TransportError{Op: "send", Err: err}
	}

	out, _, err := s.exp.Expect(terminatorRE, s.timeout)
	if err != nil {
		// Only a timeout degrades to truncated output; a dropped
		// connection mid-response is a transport failure, not data.
		if isExpectTimeout(err) {
			return decode(out), nil
		}
		return "", &types.TransportError{Op: "read", Err: err}
	}
	return decode(out), nil
}

// Close releases the transport. Safe to call more than once.
func (s *Session) Close() error {
	if s.exp != nil {
		exp := s.exp
		s.exp = nil
		s.conn = nil
		close(s.done)
		return exp.Close()
	}
	if s.conn != nil {
		conn := s.conn
		s.conn = nil
		return conn.Close()
	}
	return nil
}

// decode makes the response text lossy-but-available: undecodable
// bytes become replacement runes instead of failing the read.
func decode(raw string) string {
	return strings.ToValidUTF8(raw, "�")
}

func isExpectTimeout(err error) bool {
	var t expect.TimeoutError
	return errors.As(err, &t)
}
