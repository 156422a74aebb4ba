package enrich

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nanoncore/nano-mml/lookup"
)

// locationKey is the source field carrying the two location tags. The
// frontend emits the key twice, once per tag, so the parser has
// already promoted it to a list.
const locationKey = "user_location_info"

// Location is the subscriber location resolved from the two location
// tags: the tracking-area tag and the cell-identity tag.
type Location struct {
	TrackingArea *LocationTag `json:"tracking_area"`
	Cell         *LocationTag `json:"cell"`
}

// LocationTag is one decoded location tag. ECI-bearing tags also carry
// the unpacked site/cell split and the radio-cell reference.
type LocationTag struct {
	Type string `json:"type"`
	MCC  int    `json:"mcc"`
	MNC  int    `json:"mnc"`

	// Operator is the (MCC, MNC) row; nil on a miss
	Operator *lookup.Operator `json:"operator"`

	// TAC is the tracking area code, present on tracking-area tags
	TAC *int `json:"tac,omitempty"`

	// ECI is the packed cell identity, present on cell tags. The top
	// bits are the site, the lowest 8 bits the cell within the site.
	ECI  *int `json:"eci,omitempty"`
	Site *int `json:"site,omitempty"`
	Cell *int `json:"cell,omitempty"`

	// CellInfo is the radio-cell row for cell tags; nil on a miss
	CellInfo *lookup.Cell `json:"cell_info,omitempty"`
}

func (e *Enricher) takeLocation(rec recordBag) *Location {
	tags, ok := rec.List(locationKey)
	if !ok || len(tags) != 2 {
		return nil
	}

	loc := &Location{}
	for _, raw := range tags {
		tag, err := e.decodeTag(raw)
		if err != nil {
			return nil
		}
		switch {
		case tag.ECI != nil && loc.Cell == nil:
			loc.Cell = tag
		case tag.TAC != nil && loc.TrackingArea == nil:
			loc.TrackingArea = tag
		default:
			return nil
		}
	}

	rec.Delete(locationKey)
	return loc
}

// decodeTag parses one "Type:T;MCC:m;MNC:n;<ECI|TAC>:x" tag string.
func (e *Enricher) decodeTag(raw string) (*LocationTag, error) {
	parts := make(map[string]string)
	for _, piece := range strings.Split(raw, ";") {
		name, value, found := strings.Cut(piece, ":")
		if !found {
			return nil, fmt.Errorf("malformed tag piece %q", piece)
		}
		parts[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	tag := &LocationTag{Type: parts["Type"]}

	mcc, err := strconv.Atoi(parts["MCC"])
	if err != nil {
		return nil, fmt.Errorf("bad MCC %q: %w", parts["MCC"], err)
	}
	mnc, err := strconv.Atoi(parts["MNC"])
	if err != nil {
		return nil, fmt.Errorf("bad MNC %q: %w", parts["MNC"], err)
	}
	tag.MCC, tag.MNC = mcc, mnc
	tag.Operator = e.Lookups.Operator(mcc, mnc)

	if v, ok := parts["ECI"]; ok {
		eci, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("bad ECI %q: %w", v, err)
		}
		site := eci >> 8
		cell := eci & 0xFF
		tag.ECI, tag.Site, tag.Cell = &eci, &site, &cell

		// Site names truncate the last digit of the site identifier;
		// this matches the deployment's naming scheme and must not be
		// generalized.
		tag.CellInfo = e.Lookups.Cell(cell, fmt.Sprintf("_%d", site/10))
		return tag, nil
	}

	if v, ok := parts["TAC"]; ok {
		tac, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("bad TAC %q: %w", v, err)
		}
		tag.TAC = &tac
		return tag, nil
	}

	return nil, fmt.Errorf("tag %q carries neither ECI nor TAC", raw)
}
