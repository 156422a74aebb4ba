// Package enrich turns parsed context records into typed, enriched
// domain records. Each enrichment is a read-once projection: the
// source fields of a sub-structure are copied into a typed value and
// then removed from the field bag; anything unrecognized stays behind
// as a raw key/value pair. A sub-structure whose source fields are
// missing or malformed is skipped, leaving its fields untouched — one
// odd record never fails the batch. Lookup misses yield nil references.
package enrich

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/nanoncore/nano-mml/lookup"
	"github.com/nanoncore/nano-mml/types"
)

// recordBag is the mutable field bag the projections consume from.
type recordBag = *types.ContextRecord

// Enricher joins context records against the reference tables.
type Enricher struct {
	Lookups *lookup.Store
}

// New returns an Enricher over the given store.
func New(store *lookup.Store) *Enricher {
	return &Enricher{Lookups: store}
}

// Record is one enriched context. Structured sub-sections are nil when
// their source fields were absent; Fields holds whatever the
// enrichment rules did not consume, keys normalized.
type Record struct {
	Metadata *Metadata
	Identity *Identity
	Location *Location
	QoS      *QoS
	AMBR     *AMBR
	Charging *Charging
	Fields   *types.ContextRecord
}

// Enrich projects rec into a Record. rec is not modified.
func (e *Enricher) Enrich(rec *types.ContextRecord) *Record {
	rest := normalize(rec)
	out := &Record{
		Metadata: takeMetadata(rest),
		Identity: e.takeIdentity(rest),
		Location: e.takeLocation(rest),
		QoS:      takeQoS(rest),
		AMBR:     takeAMBR(rest),
		Charging: takeCharging(rest),
	}
	out.Fields = rest
	return out
}

// EnrichAll projects every record of one response.
func (e *Enricher) EnrichAll(recs []*types.ContextRecord) []*Record {
	out := make([]*Record, 0, len(recs))
	for _, rec := range recs {
		out = append(out, e.Enrich(rec))
	}
	return out
}

// normalize copies rec with keys lower-cased and whitespace runs
// replaced by single underscores, preserving field order.
func normalize(rec *types.ContextRecord) *types.ContextRecord {
	out := types.NewContextRecord()
	for _, key := range rec.Keys() {
		nk := NormalizeKey(key)
		v, _ := rec.Get(key)
		switch val := v.(type) {
		case []string:
			for _, item := range val {
				out.Add(nk, item)
			}
		case string:
			out.Add(nk, val)
		}
	}
	return out
}

// NormalizeKey lower-cases a field name and joins its words with
// underscores.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.Join(strings.Fields(key), "_"))
}

// MarshalJSON emits the structured sections first, then the remaining
// raw fields, as one flat JSON object.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	write := func(key string, v any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(key)
		if err != nil {
			return err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(vb)
		return nil
	}

	sections := []struct {
		key string
		v   any
		ok  bool
	}{
		{"metadata", r.Metadata, r.Metadata != nil},
		{"identity", r.Identity, r.Identity != nil},
		{"location", r.Location, r.Location != nil},
		{"qos", r.QoS, r.QoS != nil},
		{"ambr", r.AMBR, r.AMBR != nil},
		{"charging", r.Charging, r.Charging != nil},
	}
	for _, s := range sections {
		if !s.ok {
			continue
		}
		if err := write(s.key, s.v); err != nil {
			return nil, err
		}
	}

	if r.Fields != nil {
		for _, key := range r.Fields.Keys() {
			v, _ := r.Fields.Get(key)
			if err := write(key, v); err != nil {
				return nil, err
			}
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// takeString removes and returns a scalar field.
func takeString(rec *types.ContextRecord, key string) (string, bool) {
	v, ok := rec.String(key)
	if !ok {
		return "", false
	}
	rec.Delete(key)
	return v, true
}

// parseYes maps "Yes"-style flag tokens to booleans; anything else is
// false.
func parseYes(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "yes")
}
