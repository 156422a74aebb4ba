package dispatch

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nanoncore/nano-mml/enrich"
	"github.com/nanoncore/nano-mml/lookup"
	"github.com/nanoncore/nano-mml/parse"
)

func testAssembler() *Assembler {
	return &Assembler{
		Enricher: enrich.New(lookup.NewStore(nil, nil, nil)),
		Shape:    parse.ShapePDP,
	}
}

func TestAssembleSuccess(t *testing.T) {
	a := testAssembler()

	results := a.Assemble([]RawResult{
		{Label: "ugw01 (10.0.0.1)", Output: queryResponse},
	})
	if len(results) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(results))
	}

	p := results[0].Payload
	if p.Retcode == nil || *p.Retcode != 0 {
		t.Errorf("unexpected retcode: %v", p.Retcode)
	}
	if p.Count == nil || *p.Count != 1 {
		t.Errorf("unexpected count: %v", p.Count)
	}
	if len(p.Contexts) != 1 {
		t.Fatalf("expected 1 context, got %d", len(p.Contexts))
	}
	if v, ok := p.Contexts[0].Fields.String("apn"); !ok || v != "internet" {
		t.Errorf("context content lost: %q %v", v, ok)
	}
}

func TestAssembleResultFailure(t *testing.T) {
	a := testAssembler()

	results := a.Assemble([]RawResult{
		{Label: "ugw01 (10.0.0.1)", Output: "RETCODE = 1  Login failed\n---    END\n"},
	})
	p := results[0].Payload
	if p.Retcode == nil || *p.Retcode != 1 {
		t.Errorf("unexpected retcode: %v", p.Retcode)
	}
	if p.Count != nil {
		t.Error("failure payload must not carry a count")
	}
	if p.Contexts != nil {
		t.Error("failure payload must carry null contexts")
	}

	data, err := json.Marshal(results)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"contexts":null`) {
		t.Errorf("failure indicator missing: %s", data)
	}
}

func TestAssembleEmptyResponse(t *testing.T) {
	a := testAssembler()

	p := a.Assemble([]RawResult{{Label: "ugw01 (10.0.0.1)", Output: ""}})[0].Payload
	if p.Retcode != nil || p.Message != nil {
		t.Errorf("empty response must yield null code and message: %+v", p)
	}
	if p.Contexts != nil {
		t.Error("empty response must yield null contexts")
	}
}

func TestResultsMarshalOrder(t *testing.T) {
	a := testAssembler()

	results := a.Assemble([]RawResult{
		{Label: "zz-last (10.0.0.9)", Output: queryResponse},
		{Label: "aa-first (10.0.0.1)", Output: queryResponse},
	})

	data, err := json.Marshal(results)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	s := string(data)
	if !strings.HasPrefix(s, `{"zz-last (10.0.0.9)":`) {
		t.Errorf("input order must be preserved, got %.40s", s)
	}
	if strings.Index(s, "zz-last") > strings.Index(s, "aa-first") {
		t.Error("labels out of order")
	}
}

func TestAssembleZeroRecords(t *testing.T) {
	a := testAssembler()

	p := a.Assemble([]RawResult{{
		Label:  "ugw01 (10.0.0.1)",
		Output: "RETCODE = 0  Operation Success.\nNo matching result is found.\n---    END\n",
	}})[0].Payload

	if p.Count == nil || *p.Count != 0 {
		t.Errorf("expected explicit zero count, got %v", p.Count)
	}
	if p.Contexts == nil || len(p.Contexts) != 0 {
		t.Errorf("expected empty (not null) contexts, got %v", p.Contexts)
	}
}
