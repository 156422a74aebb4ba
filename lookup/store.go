// Package lookup holds the static reference tables records are
// enriched against: operator codes, radio-cell topology and device
// identity. Tables are loaded once at startup and never mutated, so
// concurrent readers need no synchronization. A lookup miss means "no
// reference data", never an error.
package lookup

import "strings"

// Operator is one PLMN row of the operator table, keyed by (MCC, MNC).
type Operator struct {
	MCC     int    `json:"mcc"`
	MNC     int    `json:"mnc"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// Cell is one row of the radio-cell table.
type Cell struct {
	CellID     int    `json:"cell_id"`
	SiteName   string `json:"site_name"`
	Sector     string `json:"sector"`
	AzimuthDeg int    `json:"azimuth_deg"`
	Band       string `json:"band"`
}

// Device is one row of the device-identity table, keyed by the
// 8-character type allocation code.
type Device struct {
	TAC          string `json:"tac"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
}

// Store is the immutable snapshot of all three tables.
type Store struct {
	operators map[opKey]*Operator
	cells     []*Cell
	devices   map[string]*Device
}

type opKey struct{ mcc, mnc int }

// NewStore indexes the given rows. The slices are copied; the caller
// may discard them afterwards.
func NewStore(operators []Operator, cells []Cell, devices []Device) *Store {
	s := &Store{
		operators: make(map[opKey]*Operator, len(operators)),
		cells:     make([]*Cell, 0, len(cells)),
		devices:   make(map[string]*Device, len(devices)),
	}
	for i := range operators {
		op := operators[i]
		s.operators[opKey{op.MCC, op.MNC}] = &op
	}
	for i := range cells {
		c := cells[i]
		s.cells = append(s.cells, &c)
	}
	for i := range devices {
		d := devices[i]
		s.devices[d.TAC] = &d
	}
	return s
}

// Operator returns the row for (mcc, mnc), or nil on a miss.
func (s *Store) Operator(mcc, mnc int) *Operator {
	return s.operators[opKey{mcc, mnc}]
}

// Cell returns the first row whose cell identifier matches cellID and
// whose site name ends with siteSuffix, or nil on a miss.
func (s *Store) Cell(cellID int, siteSuffix string) *Cell {
	for _, c := range s.cells {
		if c.CellID == cellID && strings.HasSuffix(c.SiteName, siteSuffix) {
			return c
		}
	}
	return nil
}

// Device returns the row for the allocation code tac, or nil on a miss.
func (s *Store) Device(tac string) *Device {
	return s.devices[tac]
}
