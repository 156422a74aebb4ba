package dispatch

import (
	"bytes"
	"encoding/json"

	"github.com/nanoncore/nano-mml/enrich"
	"github.com/nanoncore/nano-mml/parse"
)

// Assembler parses and enriches per-NE raw output into the final
// labelled mapping.
type Assembler struct {
	Enricher *enrich.Enricher
	Shape    parse.Shape
}

// NEPayload is the per-NE result. On success Count and Contexts are
// set; on a RETCODE failure Contexts is null, which is the failure
// indicator — a non-zero code yields no records at all, never a
// partial set.
type NEPayload struct {
	Retcode  *int             `json:"retcode"`
	Message  *string          `json:"message"`
	Count    *int             `json:"count,omitempty"`
	Contexts []*enrich.Record `json:"contexts"`
}

// LabeledPayload pairs one endpoint label with its payload.
type LabeledPayload struct {
	Label   string
	Payload NEPayload
}

// Results preserves endpoint order; it marshals to a JSON object whose
// keys appear in that order.
type Results []LabeledPayload

// Assemble parses and enriches every raw result in order.
func (a *Assembler) Assemble(raws []RawResult) Results {
	out := make(Results, 0, len(raws))
	for _, raw := range raws {
		ret, records := parse.Parse(raw.Output, a.Shape)

		payload := NEPayload{Retcode: ret.Code, Message: ret.Message}
		if ret.OK() {
			enriched := a.Enricher.EnrichAll(records)
			count := len(enriched)
			payload.Count = &count
			payload.Contexts = enriched
			if payload.Contexts == nil {
				payload.Contexts = []*enrich.Record{}
			}
		}
		out = append(out, LabeledPayload{Label: raw.Label, Payload: payload})
	}
	return out
}

// MarshalJSON emits the results as an ordered JSON object.
func (r Results) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, lp := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(lp.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(lp.Payload)
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
