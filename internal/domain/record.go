package domain

import (
	"encoding/json"
	"sort"
)

// CellValue is one parsed cell: either Text or JSON.
type CellValue interface {
	// String returns the cell as it appeared in the sheet (JSON cells keep their
	// unescaped source text).
	String() string
	isCell()
}

// Text is a plain scalar cell.
type Text string

func (t Text) String() string { return string(t) }
func (Text) isCell()          {}

// JSON is a cell whose text decoded to a JSON object.
type JSON struct {
	Raw    string
	Object map[string]any
}

func (j JSON) String() string { return j.Raw }
func (JSON) isCell()          {}

// Record is one venue row keyed by normalized header.
type Record map[string]CellValue

// Get returns the cell for key and whether it exists.
func (r Record) Get(key string) (CellValue, bool) {
	v, ok := r[key]
	return v, ok && v != nil
}

// Str returns the text form of key, or "" when absent.
func (r Record) Str(key string) string {
	if v, ok := r.Get(key); ok {
		return v.String()
	}
	return ""
}

// Name is the venue's hostel_name.
func (r Record) Name() string { return r.Str("hostel_name") }

// Without returns a shallow copy of r minus the given keys.
func (r Record) Without(keys ...string) Record {
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}
	out := make(Record, len(r))
	for k, v := range r {
		if _, ok := drop[k]; ok {
			continue
		}
		out[k] = v
	}
	return out
}

// Keys returns the record's field keys in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON renders Text cells as strings and JSON cells as objects.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r))
	for k, v := range r {
		switch c := v.(type) {
		case Text:
			out[k] = string(c)
		case JSON:
			out[k] = c.Object
		}
	}
	return json.Marshal(out)
}
