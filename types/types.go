package types

import (
	"bytes"
	"encoding/json"
)

// NEEndpoint identifies one network element reachable through the
// management frontend. Endpoints are supplied as an ordered list; the
// order decides the key order of the final result mapping.
type NEEndpoint struct {
	// Name is the operator-facing label for the element
	Name string

	// Address is the management IP the element is registered under
	Address string
}

// QuerySpec describes one management query.
type QuerySpec struct {
	// Command is the full MML command, including the trailing ';'
	Command string

	// VNFCRole is the subsystem context to register before the command
	// is meaningful (e.g. "ugw")
	VNFCRole string
}

// Credentials authenticate the MML session.
type Credentials struct {
	Username string
	Password string
}

// ResultCode is the RETCODE line of a response. A nil Code means the
// response carried no RETCODE line at all.
type ResultCode struct {
	Code    *int
	Message *string
}

// OK reports whether the response carried RETCODE = 0.
func (r ResultCode) OK() bool {
	return r.Code != nil && *r.Code == 0
}

// ContextRecord is one context block as a bag of key/value fields.
// Field order matches first occurrence in the source text. A key that
// recurs within one block is promoted to an ordered list of strings;
// the protocol has no list syntax, so list-ness is inferred purely
// from repetition.
type ContextRecord struct {
	keys   []string
	fields map[string]any // string or []string
}

// NewContextRecord returns an empty record.
func NewContextRecord() *ContextRecord {
	return &ContextRecord{fields: make(map[string]any)}
}

// Add appends a field value. A repeated key promotes the existing
// scalar to a two-element list, or appends when already a list.
func (r *ContextRecord) Add(key, value string) {
	prev, ok := r.fields[key]
	if !ok {
		r.keys = append(r.keys, key)
		r.fields[key] = value
		return
	}
	if list, isList := prev.([]string); isList {
		r.fields[key] = append(list, value)
		return
	}
	r.fields[key] = []string{prev.(string), value}
}

// Get returns the raw value (string or []string) for key.
func (r *ContextRecord) Get(key string) (any, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// String returns the scalar value for key; a list value does not match.
func (r *ContextRecord) String(key string) (string, bool) {
	v, ok := r.fields[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// List returns the list value for key; a scalar value does not match.
func (r *ContextRecord) List(key string) ([]string, bool) {
	v, ok := r.fields[key]
	if !ok {
		return nil, false
	}
	l, ok := v.([]string)
	return l, ok
}

// Delete removes key, preserving the order of the remaining fields.
func (r *ContextRecord) Delete(key string) {
	if _, ok := r.fields[key]; !ok {
		return
	}
	delete(r.fields, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the field names in first-occurrence order.
func (r *ContextRecord) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of distinct fields.
func (r *ContextRecord) Len() int {
	return len(r.keys)
}

// MarshalJSON emits the record as a JSON object in field order.
func (r *ContextRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.fields[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
