package lookup

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadStore reads the three reference tables from CSV files and
// returns the immutable store. Every file is a header row followed by
// data rows.
func LoadStore(operatorsPath, cellsPath, devicesPath string) (*Store, error) {
	operators, err := LoadOperators(operatorsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load operator table: %w", err)
	}
	cells, err := LoadCells(cellsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load radio-cell table: %w", err)
	}
	devices, err := LoadDevices(devicesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load device table: %w", err)
	}
	return NewStore(operators, cells, devices), nil
}

// LoadOperators reads rows of mcc,mnc,name,country.
func LoadOperators(path string) ([]Operator, error) {
	rows, err := readTable(path, 4)
	if err != nil {
		return nil, err
	}
	out := make([]Operator, 0, len(rows))
	for _, row := range rows {
		mcc, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("bad mcc %q: %w", row[0], err)
		}
		mnc, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("bad mnc %q: %w", row[1], err)
		}
		out = append(out, Operator{MCC: mcc, MNC: mnc, Name: row[2], Country: row[3]})
	}
	return out, nil
}

// LoadCells reads rows of cell_id,site_name,sector,azimuth_deg,band.
func LoadCells(path string) ([]Cell, error) {
	rows, err := readTable(path, 5)
	if err != nil {
		return nil, err
	}
	out := make([]Cell, 0, len(rows))
	for _, row := range rows {
		id, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("bad cell id %q: %w", row[0], err)
		}
		azimuth, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("bad azimuth %q: %w", row[3], err)
		}
		out = append(out, Cell{CellID: id, SiteName: row[1], Sector: row[2], AzimuthDeg: azimuth, Band: row[4]})
	}
	return out, nil
}

// LoadDevices reads rows of tac,manufacturer,model.
func LoadDevices(path string) ([]Device, error) {
	rows, err := readTable(path, 3)
	if err != nil {
		return nil, err
	}
	out := make([]Device, 0, len(rows))
	for _, row := range rows {
		out = append(out, Device{TAC: row[0], Manufacturer: row[1], Model: row[2]})
	}
	return out, nil
}

// readTable reads a CSV file, skips the header row and trims cells.
func readTable(path string, fields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = fields
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	rows := records[1:]
	for _, row := range rows {
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
	}
	return rows, nil
}
