package enrich

import "github.com/nanoncore/nano-mml/lookup"

// metadataKeys are the structured header fields of a PDP context
// block, in header order.
var metadataKeys = []string{
	"node", "sgid", "context_index", "gtpu_index",
	"filter_index", "session_index", "bearer_index",
}

// Metadata regroups the context-header fields unchanged. MM-style
// records have no header and no metadata.
type Metadata struct {
	Node         string `json:"node"`
	SGID         string `json:"sgid"`
	ContextIndex string `json:"context_index"`
	GtpuIndex    string `json:"gtpu_index"`
	FilterIndex  string `json:"filter_index"`
	SessionIndex string `json:"session_index"`
	BearerIndex  string `json:"bearer_index"`
}

func takeMetadata(rec recordBag) *Metadata {
	vals := make([]string, len(metadataKeys))
	for i, key := range metadataKeys {
		v, ok := rec.String(key)
		if !ok {
			return nil
		}
		vals[i] = v
	}
	for _, key := range metadataKeys {
		rec.Delete(key)
	}
	return &Metadata{
		Node:         vals[0],
		SGID:         vals[1],
		ContextIndex: vals[2],
		GtpuIndex:    vals[3],
		FilterIndex:  vals[4],
		SessionIndex: vals[5],
		BearerIndex:  vals[6],
	}
}

// tacLength is the number of leading IMEI digits that form the type
// allocation code.
const tacLength = 8

// Identity is the subscriber device identity resolved from the IMEI.
type Identity struct {
	IMEI string `json:"imei"`

	// TAC is the type allocation code, the first 8 digits of the IMEI
	TAC string `json:"tac"`

	// Device is the identity-table row for the TAC; nil on a miss
	Device *lookup.Device `json:"device"`
}

func (e *Enricher) takeIdentity(rec recordBag) *Identity {
	imei, ok := rec.String("imei")
	if !ok || len(imei) < tacLength {
		return nil
	}
	rec.Delete("imei")

	tac := imei[:tacLength]
	return &Identity{
		IMEI:   imei,
		TAC:    tac,
		Device: e.Lookups.Device(tac),
	}
}
