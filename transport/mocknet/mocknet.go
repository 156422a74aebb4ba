// Package mocknet simulates the management frontend for tests: a
// scripted command→response table served over an in-memory pipe, so
// session and dispatch logic can be exercised without real equipment.
package mocknet

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/nanoncore/nano-mml/transport"
)

// Frontend is a scripted in-memory MML frontend.
type Frontend struct {
	// Banner is written on connect when non-empty
	Banner string

	// Respond maps one received command line to its response text.
	// Responses normally end with the MML terminator.
	Respond func(cmd string) string

	// ErrOn fails the n-th Dial call (1-based) with the given error
	ErrOn map[int]error

	// HangupOn, when set, lets the frontend drop the line mid-exchange:
	// for a matching command the partial text is written and the
	// connection is closed without a terminator.
	HangupOn func(cmd string) (partial string, hangup bool)

	mu       sync.Mutex
	dials    int
	commands []string
}

// Dial implements transport.Dialer.
func (f *Frontend) Dial(address string, timeout time.Duration) (transport.Conn, error) {
	f.mu.Lock()
	f.dials++
	err := f.ErrOn[f.dials]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}

	rd, wr := io.Pipe()
	c := &conn{frontend: f, rd: rd, wr: wr}
	if f.Banner != "" {
		banner := f.Banner
		go func() { _, _ = wr.Write([]byte(banner + "\r\n")) }()
	}
	return c, nil
}

// Dials returns how many connections were attempted.
func (f *Frontend) Dials() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dials
}

// Commands returns every command line received, in order.
func (f *Frontend) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.commands))
	copy(out, f.commands)
	return out
}

func (f *Frontend) record(cmd string) {
	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	f.mu.Unlock()
}

type conn struct {
	frontend *Frontend
	rd       *io.PipeReader
	wr       *io.PipeWriter

	mu      sync.Mutex
	pending bytes.Buffer
	once    sync.Once
}

func (c *conn) Read(p []byte) (int, error) { return c.rd.Read(p) }

// Write consumes CRLF-terminated command lines and queues the scripted
// response for each.
func (c *conn) Write(p []byte) (int, error) {
	c.mu.Lock()
	c.pending.Write(p)
	var cmds []string
	for {
		data := c.pending.String()
		idx := bytes.Index([]byte(data), []byte("\r\n"))
		if idx < 0 {
			break
		}
		cmds = append(cmds, data[:idx])
		c.pending.Reset()
		c.pending.WriteString(data[idx+2:])
	}
	c.mu.Unlock()

	var out bytes.Buffer
	for _, cmd := range cmds {
		c.frontend.record(cmd)
		if c.frontend.HangupOn != nil {
			if partial, ok := c.frontend.HangupOn(cmd); ok {
				out.WriteString(partial)
				resp := out.String()
				go func() {
					if resp != "" {
						_, _ = c.wr.Write([]byte(resp))
					}
					_ = c.Close()
				}()
				return len(p), nil
			}
		}
		if c.frontend.Respond != nil {
			out.WriteString(c.frontend.Respond(cmd))
		}
	}
	if out.Len() > 0 {
		resp := out.String()
		go func() { _, _ = c.wr.Write([]byte(resp)) }()
	}
	return len(p), nil
}

func (c *conn) Close() error {
	c.once.Do(func() {
		_ = c.wr.Close()
		_ = c.rd.Close()
	})
	return nil
}

var _ transport.Dialer = (*Frontend)(nil)
