// internal/snapshot/value.go
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Kind tags the payload carried by a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindNumber
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Value is one controller-typed variable value.
// Numbers keep their JSON literal so re-encoding is lossless.
type Value struct {
	kind Kind
	b    bool
	n    json.Number
	s    string
}

func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

func String(v string) Value { return Value{kind: KindString, s: v} }

func Int(v int64) Value { return Value{kind: KindNumber, n: json.Number(strconv.FormatInt(v, 10))} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsValid() bool { return v.kind != KindInvalid }

// AsBool reports the boolean payload. ok is false for other kinds.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt reports the number as an integer. Fractional numbers are rejected.
func (v Value) AsInt() (int64, error) {
	if v.kind != KindNumber {
		return 0, fmt.Errorf("snapshot: %s is not a number", v.kind)
	}
	if i, err := v.n.Int64(); err == nil {
		return i, nil
	}
	f, err := v.n.Float64()
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("snapshot: %s is not an integer", v.n)
	}
	return int64(f), nil
}

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return v.n.String()
	case KindString:
		return strconv.Quote(v.s)
	default:
		return "<invalid>"
	}
}

// Equal compares kind and payload. Numbers compare by literal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	case KindString:
		return v.s == o.s
	}
	return true
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		return []byte(v.n), nil
	case KindString:
		return marshalNoEscape(v.s)
	default:
		return nil, errors.New("snapshot: cannot encode invalid value")
	}
}

// fromAny converts one scalar produced by a UseNumber decoder.
func fromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case bool:
		return Bool(x), nil
	case json.Number:
		return Value{kind: KindNumber, n: x}, nil
	case string:
		return String(x), nil
	case nil:
		return Value{}, errors.New("null is not a controller value")
	default:
		return Value{}, fmt.Errorf("%T is not a controller value", raw)
	}
}

func marshalNoEscape(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
