package lookup

import (
	"os"
	"path/filepath"
	"testing"
)

func testStore() *Store {
	return NewStore(
		[]Operator{
			{MCC: 288, MNC: 1, Name: "Vodafone FO", Country: "Faroe Islands"},
			{MCC: 288, MNC: 2, Name: "Faroese Telecom", Country: "Faroe Islands"},
		},
		[]Cell{
			{CellID: 20, SiteName: "TORSHAVN_125", Sector: "B", AzimuthDeg: 120, Band: "L1800"},
			{CellID: 20, SiteName: "KLAKSVIK_998", Sector: "A", AzimuthDeg: 0, Band: "L800"},
			{CellID: 21, SiteName: "TORSHAVN_125", Sector: "C", AzimuthDeg: 240, Band: "L1800"},
		},
		[]Device{
			{TAC: "35123456", Manufacturer: "Apple", Model: "iPhone 12"},
		},
	)
}

func TestOperatorLookup(t *testing.T) {
	s := testStore()

	op := s.Operator(288, 2)
	if op == nil || op.Name != "Faroese Telecom" {
		t.Errorf("expected Faroese Telecom, got %+v", op)
	}
	if s.Operator(288, 99) != nil {
		t.Error("miss must return nil")
	}
	if s.Operator(0, 0) != nil {
		t.Error("zero key must return nil")
	}
}

func TestCellLookup(t *testing.T) {
	s := testStore()

	c := s.Cell(20, "_125")
	if c == nil || c.SiteName != "TORSHAVN_125" || c.Sector != "B" {
		t.Errorf("expected TORSHAVN_125/B, got %+v", c)
	}
	c = s.Cell(21, "_125")
	if c == nil || c.Sector != "C" {
		t.Errorf("expected sector C, got %+v", c)
	}
	if s.Cell(20, "_777") != nil {
		t.Error("suffix miss must return nil")
	}
	if s.Cell(99, "_125") != nil {
		t.Error("cell id miss must return nil")
	}
}

func TestDeviceLookup(t *testing.T) {
	s := testStore()

	d := s.Device("35123456")
	if d == nil || d.Model != "iPhone 12" {
		t.Errorf("expected iPhone 12, got %+v", d)
	}
	if s.Device("00000000") != nil {
		t.Error("miss must return nil")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadStore(t *testing.T) {
	dir := t.TempDir()

	ops := writeFile(t, dir, "operators.csv",
		"mcc,mnc,name,country\n288,2,Faroese Telecom,Faroe Islands\n")
	cells := writeFile(t, dir, "cells.csv",
		"cell_id,site_name,sector,azimuth_deg,band\n20,TORSHAVN_125,B,120,L1800\n")
	devices := writeFile(t, dir, "devices.csv",
		"tac,manufacturer,model\n35123456,Apple,iPhone 12\n")

	s, err := LoadStore(ops, cells, devices)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if op := s.Operator(288, 2); op == nil || op.Name != "Faroese Telecom" {
		t.Errorf("operator row not loaded: %+v", op)
	}
	if c := s.Cell(20, "_125"); c == nil || c.AzimuthDeg != 120 {
		t.Errorf("cell row not loaded: %+v", c)
	}
	if d := s.Device("35123456"); d == nil || d.Manufacturer != "Apple" {
		t.Errorf("device row not loaded: %+v", d)
	}
}

func TestLoadStoreBadData(t *testing.T) {
	dir := t.TempDir()

	ops := writeFile(t, dir, "operators.csv",
		"mcc,mnc,name,country\nnot-a-number,2,X,Y\n")
	cells := writeFile(t, dir, "cells.csv",
		"cell_id,site_name,sector,azimuth_deg,band\n")
	devices := writeFile(t, dir, "devices.csv",
		"tac,manufacturer,model\n")

	if _, err := LoadStore(ops, cells, devices); err == nil {
		t.Error("expected an error for a non-numeric MCC")
	}

	if _, err := LoadStore(filepath.Join(dir, "missing.csv"), cells, devices); err == nil {
		t.Error("expected an error for a missing file")
	}
}
