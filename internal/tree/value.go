package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"
)

// Value is a sealed interface over the types a node payload may contain.
// Only Null, String, Int, Bool, List, and Map implement it. There is no
// float variant: floats render differently across serializations and would
// break fingerprint determinism.
type Value interface {
	value() // sealed
}

// Null represents an explicit JSON null in a payload.
// It exists only so that round-tripped data satisfies the sealed interface;
// canonical serialization rejects it.
type Null struct{}

func (Null) value() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// String represents a string payload value.
type String string

func (String) value() {}

// Int represents an integer payload value. Always int64, never float64.
type Int int64

func (Int) value() {}

// Bool represents a boolean payload value.
type Bool bool

func (Bool) value() {}

// List represents an ordered sequence of Values.
type List []Value

func (List) value() {}

// Map represents a string-keyed collection of Values.
// Use SortedKeys for deterministic iteration.
type Map map[string]Value

func (Map) value() {}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's sort over raw strings compares UTF-8 bytes, which produces a
// different order for keys outside the ASCII range.
func (m Map) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

// compareUTF16 compares two strings by UTF-16 code units as required by
// RFC 8785. utf16.Encode is used so surrogate pairs compare correctly.
func compareUTF16(a, b string) int {
	au := utf16.Encode([]rune(a))
	bu := utf16.Encode([]rune(b))
	n := min(len(au), len(bu))
	for i := 0; i < n; i++ {
		if au[i] != bu[i] {
			if au[i] < bu[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(au) < len(bu):
		return -1
	case len(au) > len(bu):
		return 1
	default:
		return 0
	}
}

// Clone returns a deep copy of v. Scalars are returned as-is; List and Map
// are copied recursively so the result shares no mutable state with v.
func Clone(v Value) Value {
	switch val := v.(type) {
	case List:
		out := make(List, len(val))
		for i, elem := range val {
			out[i] = Clone(elem)
		}
		return out
	case Map:
		out := make(Map, len(val))
		for k, elem := range val {
			out[k] = Clone(elem)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether two Values are structurally equal. Lists compare
// elementwise in order; Maps compare by key set and per-key value.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Map:
		bv, ok := b.(Map)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, elem := range av {
			other, present := bv[k]
			if !present || !Equal(elem, other) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// ToValue converts a plain Go value to a Value. Rejects floats and nil.
// Accepts string, int, int64, bool, []any, map[string]any, and Values.
func ToValue(v any) (Value, error) {
	switch val := v.(type) {
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case bool:
		return Bool(val), nil
	case nil:
		return nil, NewInvalidArgument("null is forbidden in payloads: only string, int, bool, list, map allowed")
	case float32, float64:
		return nil, NewInvalidArgument(fmt.Sprintf("floats are forbidden in payloads: %v", val))
	case json.Number:
		s := string(val)
		if strings.ContainsAny(s, ".eE") {
			return nil, NewInvalidArgument(fmt.Sprintf("floats are forbidden in payloads: %s", s))
		}
		n, err := val.Int64()
		if err != nil {
			return nil, NewInvalidArgument(fmt.Sprintf("number out of int64 range: %s", s))
		}
		return Int(n), nil
	case []any:
		out := make(List, len(val))
		for i, elem := range val {
			cv, err := ToValue(elem)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			out[i] = cv
		}
		return out, nil
	case map[string]any:
		out := make(Map, len(val))
		for k, elem := range val {
			cv, err := ToValue(elem)
			if err != nil {
				return nil, fmt.Errorf("map[%q]: %w", k, err)
			}
			out[k] = cv
		}
		return out, nil
	default:
		return nil, NewInvalidArgument(fmt.Sprintf("unsupported payload type %T", v))
	}
}

// UnmarshalValue deserializes JSON into a Value with strict validation:
// floats and nulls are rejected. This is the primary entry point for
// external JSON payloads.
func UnmarshalValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return ToValue(raw)
}

// UnmarshalJSON implements json.Unmarshaler for Map.
func (m *Map) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = make(Map, len(raw))
	for k, v := range raw {
		val, err := unmarshalLoose(v)
		if err != nil {
			return fmt.Errorf("map key %q: %w", k, err)
		}
		(*m)[k] = val
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler for List.
func (l *List) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = make(List, len(raw))
	for i, v := range raw {
		val, err := unmarshalLoose(v)
		if err != nil {
			return fmt.Errorf("list index %d: %w", i, err)
		}
		(*l)[i] = val
	}
	return nil
}

// unmarshalLoose decodes a JSON value into a Value, allowing null -> Null
// so existing data round-trips. Floats are still rejected. Use
// UnmarshalValue for strict external validation.
func unmarshalLoose(data []byte) (Value, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty JSON value")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return String(s), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case 'n':
		return Null{}, nil
	case '[':
		var l List
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, err
		}
		return l, nil
	case '{':
		var m Map
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		i, err := n.Int64()
		if err != nil {
			return nil, NewInvalidArgument(fmt.Sprintf("floats are forbidden in payloads: %s", n))
		}
		return Int(i), nil
	}
}

// MarshalJSON implements json.Marshaler for Map with RFC 8785 key ordering.
// This is NOT canonical serialization (strings may be HTML-escaped);
// use MarshalCanonical for anything fed to a fingerprint.
func (m Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := MarshalValue(m[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler for List.
func (l List) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		eb, err := MarshalValue(elem)
		if err != nil {
			return nil, fmt.Errorf("list[%d]: %w", i, err)
		}
		buf.Write(eb)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalValue marshals a Value to JSON bytes with type-switch dispatch.
func MarshalValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return []byte("null"), nil
	case Null:
		return []byte("null"), nil
	case String:
		return json.Marshal(string(val))
	case Int:
		return json.Marshal(int64(val))
	case Bool:
		return json.Marshal(bool(val))
	case List:
		return val.MarshalJSON()
	case Map:
		return val.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown Value type: %T", v)
	}
}
