// JSON encoding for Resource. The stored shape is a flat object with the
// keys below; timestamps are ISO-8601 strings with millisecond precision.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// TimeLayout is the ISO-8601 layout used for createdAt.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// JSON keys in the order they are written.
const (
	keyID        = "id"
	keyTitle     = "title"
	keyType      = "type"
	keyLink      = "link"
	keyStatus    = "status"
	keyPriority  = "priority"
	keyNotes     = "notes"
	keyCreatedAt = "createdAt"
)

var knownKeys = []string{keyID, keyTitle, keyType, keyLink, keyStatus, keyPriority, keyNotes, keyCreatedAt}

// MarshalJSON writes the known fields in a fixed order followed by any
// pass-through fields sorted by name. Known fields that were kept verbatim on
// load are written from their original bytes, and known fields that were
// missing on load stay missing.
func (r Resource) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, raw []byte) {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(raw)
	}

	for _, key := range knownKeys {
		if raw, ok := r.extra[key]; ok {
			write(key, raw)
			continue
		}
		if r.absent[key] {
			continue
		}
		var v any
		switch key {
		case keyID:
			v = r.ID
		case keyTitle:
			v = r.Title
		case keyType:
			v = r.Type
		case keyLink:
			v = r.Link
		case keyStatus:
			v = r.Status
		case keyPriority:
			v = r.Priority
		case keyNotes:
			v = r.Notes
		case keyCreatedAt:
			if r.CreatedAt.IsZero() {
				continue
			}
			v = r.CreatedAt.UTC().Format(TimeLayout)
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", key, err)
		}
		write(key, raw)
	}

	for _, key := range r.ExtraFields() {
		write(key, r.extra[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a stored record without schema validation. Only a
// non-object value is an error. A known field is also kept verbatim when
// its stored bytes differ from what MarshalJSON would write: a null, an
// unexpected JSON type, an id outside the int64 range or written as a float,
// or a createdAt not in TimeLayout. Such fields still populate the struct
// where they can.
func (r *Resource) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("resource record is null")
	}

	*r = Resource{}
	keep := func(key string, raw json.RawMessage) {
		if r.extra == nil {
			r.extra = make(map[string][]byte)
		}
		r.extra[key] = append([]byte(nil), raw...)
	}

	for key, raw := range fields {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			keep(key, raw)
			continue
		}
		var exact bool
		switch key {
		case keyID:
			r.ID, exact = decodeID(raw)
		case keyTitle:
			exact = json.Unmarshal(raw, &r.Title) == nil
		case keyType:
			exact = json.Unmarshal(raw, &r.Type) == nil
		case keyLink:
			exact = json.Unmarshal(raw, &r.Link) == nil
		case keyStatus:
			exact = json.Unmarshal(raw, &r.Status) == nil
		case keyPriority:
			exact = json.Unmarshal(raw, &r.Priority) == nil
		case keyNotes:
			exact = json.Unmarshal(raw, &r.Notes) == nil
		case keyCreatedAt:
			r.CreatedAt, exact = decodeTime(raw)
		}
		if !exact {
			keep(key, raw)
		}
	}

	for _, key := range knownKeys {
		if _, ok := fields[key]; !ok {
			if r.absent == nil {
				r.absent = make(map[string]bool)
			}
			r.absent[key] = true
		}
	}
	return nil
}

// decodeID returns the id in raw and whether re-encoding it reproduces raw.
// Integral floats such as 3.0 still yield an id. Values outside the int64
// range, and strings, yield 0.
func decodeID(raw json.RawMessage) (int64, bool) {
	if len(raw) > 0 && raw[0] == '"' {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	if id, err := n.Int64(); err == nil {
		return id, strconv.FormatInt(id, 10) == string(n)
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f <= math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), false
}

// decodeTime returns the time in raw and whether raw is already in
// TimeLayout. Any RFC 3339 string yields a time.
func decodeTime(raw json.RawMessage) (time.Time, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	t = t.UTC()
	return t, t.Format(TimeLayout) == s
}
