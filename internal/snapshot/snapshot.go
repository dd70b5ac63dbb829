// internal/snapshot/snapshot.go
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"unicode/utf8"
)

// Snapshot is the full state of one slot at one point in time.
// It is always replaced as a whole, never merged.
type Snapshot map[string]Value

// Keys returns the snapshot keys in canonical (bytewise) order.
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether both snapshots hold the same keys and values.
func (s Snapshot) Equal(o Snapshot) bool {
	if len(s) != len(o) {
		return false
	}
	for k, v := range s {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Canonical encodes the snapshot as compact JSON with sorted keys.
// Two snapshots with the same content always produce the same bytes.
func Canonical(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, k := range s.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}

		kb, err := marshalNoEscape(k)
		if err != nil {
			return nil, fmt.Errorf("snapshot: key %q: %w", k, err)
		}
		vb, err := s[k].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("snapshot: key %q: %w", k, err)
		}

		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON uses the canonical form.
func (s Snapshot) MarshalJSON() ([]byte, error) { return Canonical(s) }

// ---- DECODING ----

// Reason classifies why a payload was rejected.
type Reason string

const (
	ReasonInvalidUTF8      Reason = "invalid-utf8"
	ReasonInvalidJSON      Reason = "invalid-json"
	ReasonNotObject        Reason = "not-object"
	ReasonUnsupportedValue Reason = "unsupported-value"
)

// Rejection is returned by Decode when a payload cannot become a Snapshot.
type Rejection struct {
	Reason Reason
	Detail string
}

func (r *Rejection) Error() string {
	if r.Detail == "" {
		return "snapshot: rejected: " + string(r.Reason)
	}
	return fmt.Sprintf("snapshot: rejected: %s: %s", r.Reason, r.Detail)
}

// AsRejection unwraps a *Rejection from err.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// Decode parses a UTF-8 JSON object into a Snapshot.
// Any failure is reported as a *Rejection.
func Decode(payload []byte) (Snapshot, error) {
	if !utf8.Valid(payload) {
		return nil, &Rejection{Reason: ReasonInvalidUTF8}
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &Rejection{Reason: ReasonInvalidJSON, Detail: err.Error()}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &Rejection{Reason: ReasonInvalidJSON, Detail: "trailing data after value"}
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &Rejection{Reason: ReasonNotObject, Detail: fmt.Sprintf("got %s", jsonKind(raw))}
	}

	out := make(Snapshot, len(obj))
	for k, rv := range obj {
		v, err := fromAny(rv)
		if err != nil {
			return nil, &Rejection{
				Reason: ReasonUnsupportedValue,
				Detail: fmt.Sprintf("key %q: %v", k, err),
			}
		}
		out[k] = v
	}

	return out, nil
}

// MalformedKeys lists, in canonical order, keys missing the sentinel prefix.
func MalformedKeys(s Snapshot) []string {
	var bad []string
	for _, k := range s.Keys() {
		if !IsAddressable(k) {
			bad = append(bad, k)
		}
	}
	return bad
}

func jsonKind(raw any) string {
	switch raw.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", raw)
	}
}
