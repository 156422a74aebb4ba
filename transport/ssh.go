package transport

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/nanoncore/nano-mml/types"
)

// SSH dials the frontend over SSH and attaches to an interactive
// shell. Some frontends only expose the MML console this way.
type SSH struct {
	Credentials types.Credentials
}

// Dial connects to address, opens a pty-backed shell and returns its
// stdin/stdout as a Conn.
func (s *SSH) Dial(address string, timeout time.Duration) (Conn, error) {
	// Some frontends require keyboard-interactive instead of password
	keyboardInteractive := ssh.KeyboardInteractive(func(user, instruction string, questions []string, echos []bool) ([]string, error) {
		answers := make([]string, len(questions))
		for i := range questions {
			answers[i] = s.Credentials.Password
		}
		return answers, nil
	})

	sshConfig := &ssh.ClientConfig{
		User: s.Credentials.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(s.Credentials.Password),
			keyboardInteractive,
		},
		Timeout:         timeout,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // legacy frontends present no verifiable host keys
	}

	client, err := ssh.Dial("tcp", address, sshConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to dial SSH: %w", err)
	}

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to open SSH session: %w", err)
	}

	if err := session.RequestPty("vt100", 80, 40, ssh.TerminalModes{
		ssh.ECHO:          0,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}); err != nil {
		session.Close()
		client.Close()
		return nil, fmt.Errorf("failed to request pty: %w", err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, fmt.Errorf("failed to open stdin pipe: %w", err)
	}

	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}

	if err := session.Shell(); err != nil {
		session.Close()
		client.Close()
		return nil, fmt.Errorf("failed to start shell: %w", err)
	}

	return &sshConn{in: stdin, out: stdout, session: session, client: client}, nil
}

type sshConn struct {
	in      io.WriteCloser
	out     io.Reader
	session *ssh.Session
	client  *ssh.Client
}

func (c *sshConn) Read(p []byte) (int, error)  { return c.out.Read(p) }
func (c *sshConn) Write(p []byte) (int, error) { return c.in.Write(p) }

func (c *sshConn) Close() error {
	_ = c.in.Close()
	_ = c.session.Close()
	return c.client.Close()
}

var _ Dialer = (*SSH)(nil)
