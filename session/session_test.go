package session

import (
	"strings"
	"testing"
	"time"

	"github.com/nanoncore/nano-mml/transport/mocknet"
	"github.com/nanoncore/nano-mml/types"
)

const okResponse = "RETCODE = 0  Operation Success.\r\n---    END\r\n"

func scriptedFrontend() *mocknet.Frontend {
	return &mocknet.Frontend{
		Banner:  "Escape character is '^]'.",
		Respond: func(cmd string) string { return okResponse },
	}
}

func TestSessionSequence(t *testing.T) {
	fe := scriptedFrontend()

	s, err := Open(fe, "mae:23", 2*time.Second)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer s.Close()

	out, err := s.Login(types.Credentials{Username: "admin", Password: "secret"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !strings.Contains(out, "RETCODE = 0") {
		t.Errorf("login response not returned: %q", out)
	}
	if _, err := s.RegisterElement("10.0.0.1"); err != nil {
		t.Fatalf("register element failed: %v", err)
	}
	if _, err := s.RegisterContext("ugw"); err != nil {
		t.Fatalf("register context failed: %v", err)
	}
	if _, err := s.Execute(PDPQuery("MSISDN", "298123456")); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	want := []string{
		`LGI:OP="admin", PWD="secret";`,
		`REG NE:IP="10.0.0.1";`,
		`REG VNFC:NAME="ugw";`,
		`DSP PDPCTXT:QUERYTYPE=MSISDN,MSISDN="298123456";`,
	}
	got := fe.Commands()
	if len(got) != len(want) {
		t.Fatalf("expected %d commands, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("command %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTimeoutReturnsTruncatedOutput(t *testing.T) {
	fe := &mocknet.Frontend{
		Banner: "Escape character is '^]'.",
		// No terminator: the read must give up at the timeout and
		// return what arrived.
		Respond: func(cmd string) string { return "RETCODE = 0  OK\r\npartial body\r\n" },
	}

	s, err := Open(fe, "mae:23", time.Second)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer s.Close()

	out, err := s.Execute("DSP PDPCTXT:QUERYTYPE=MSISDN,MSISDN=\"298123456\";")
	if err != nil {
		t.Fatalf("timeout must not surface as an error: %v", err)
	}
	if !strings.Contains(out, "partial body") {
		t.Errorf("truncated output lost: %q", out)
	}
}

func TestMidResponseHangupIsTransportError(t *testing.T) {
	fe := &mocknet.Frontend{
		Banner:  "Escape character is '^]'.",
		Respond: func(cmd string) string { return okResponse },
		// The frontend dies mid-response on the query: partial bytes,
		// then the line drops. That must not pass for data.
		HangupOn: func(cmd string) (string, bool) {
			if strings.HasPrefix(cmd, "DSP PDPCTXT") {
				return "RETCODE = 0  Operation Success.\r\n+++ truncated", true
			}
			return "", false
		},
	}

	s, err := Open(fe, "mae:23", 2*time.Second)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer s.Close()

	if _, err := s.Login(types.Credentials{Username: "admin", Password: "secret"}); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	out, err := s.Execute(PDPQuery("MSISDN", "298123456"))
	if err == nil {
		t.Fatalf("dropped connection must surface as an error, got output %q", out)
	}
	if !types.IsTransport(err) {
		t.Errorf("expected a transport error, got %v", err)
	}
	if out != "" {
		t.Errorf("no output expected on a failed read, got %q", out)
	}
}

func TestExecuteAfterClose(t *testing.T) {
	fe := scriptedFrontend()
	s, err := Open(fe, "mae:23", time.Second)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second close must be a no-op, got %v", err)
	}
	if _, err := s.Execute("DSP PDPCTXT;"); err == nil {
		t.Error("execute on a closed session must fail")
	} else if !types.IsTransport(err) {
		t.Errorf("expected a transport error, got %v", err)
	}
}

func TestDecodeLossy(t *testing.T) {
	in := "RETCODE = 0 OK\xff\xfe tail"
	out := decode(in)
	if !strings.Contains(out, "RETCODE = 0 OK") || !strings.Contains(out, "tail") {
		t.Errorf("valid bytes lost: %q", out)
	}
	if strings.Contains(out, "\xff") {
		t.Errorf("undecodable bytes must be replaced: %q", out)
	}
}

func TestQueryBuilders(t *testing.T) {
	if got := PDPQuery("IMSI", "288020000000001"); got != `DSP PDPCTXT:QUERYTYPE=IMSI,IMSI="288020000000001";` {
		t.Errorf("unexpected PDP query: %s", got)
	}
	if got := MMQuery("MSISDN", "298123456"); got != `DSP MMCTX:QUERYOPT=BYMSISDN,MSISDN="298123456";` {
		t.Errorf("unexpected MM query: %s", got)
	}
}
