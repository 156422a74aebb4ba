package types

import (
	"errors"
	"strings"
	"testing"
)

func TestContextRecordPromotion(t *testing.T) {
	rec := NewContextRecord()
	rec.Add("APN", "internet")
	rec.Add("TFT", "first")
	rec.Add("TFT", "second")

	if v, ok := rec.String("APN"); !ok || v != "internet" {
		t.Errorf("scalar lookup failed: %q %v", v, ok)
	}
	if _, ok := rec.List("APN"); ok {
		t.Error("scalar must not be readable as a list")
	}
	list, ok := rec.List("TFT")
	if !ok || len(list) != 2 || list[0] != "first" || list[1] != "second" {
		t.Errorf("promotion failed: %v %v", list, ok)
	}
	if _, ok := rec.String("TFT"); ok {
		t.Error("list must not be readable as a scalar")
	}

	rec.Add("TFT", "third")
	list, _ = rec.List("TFT")
	if len(list) != 3 || list[2] != "third" {
		t.Errorf("append to promoted list failed: %v", list)
	}
}

func TestContextRecordOrder(t *testing.T) {
	rec := NewContextRecord()
	rec.Add("b", "1")
	rec.Add("a", "2")
	rec.Add("c", "3")
	rec.Add("b", "4") // promotion must not move b

	keys := rec.Keys()
	want := []string{"b", "a", "c"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %v", len(want), keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d: got %q, want %q", i, keys[i], want[i])
		}
	}

	rec.Delete("a")
	keys = rec.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "c" {
		t.Errorf("delete broke ordering: %v", keys)
	}
}

func TestContextRecordMarshalJSON(t *testing.T) {
	rec := NewContextRecord()
	rec.Add("z", "last-first")
	rec.Add("a", "x")
	rec.Add("a", "y")

	data, err := rec.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	got := string(data)
	want := `{"z":"last-first","a":["x","y"]}`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestResultCodeOK(t *testing.T) {
	zero, nonzero := 0, 3
	tests := []struct {
		rc   ResultCode
		want bool
	}{
		{ResultCode{}, false},
		{ResultCode{Code: &zero}, true},
		{ResultCode{Code: &nonzero}, false},
	}
	for _, tt := range tests {
		if got := tt.rc.OK(); got != tt.want {
			t.Errorf("OK(%v) = %v, want %v", tt.rc.Code, got, tt.want)
		}
	}
}

func TestErrorTaxonomy(t *testing.T) {
	de := &DispatchError{
		Label: "ugw01 (10.0.0.1)",
		Err:   &TransportError{Op: "read", Err: errors.New("connection reset")},
	}
	if !IsTransport(de) {
		t.Error("DispatchError wrapping a TransportError must satisfy IsTransport")
	}
	if !strings.Contains(de.Error(), "ugw01 (10.0.0.1)") {
		t.Errorf("dispatch error must carry the label: %s", de.Error())
	}
	if IsTransport(errors.New("plain")) {
		t.Error("plain errors must not satisfy IsTransport")
	}
}
