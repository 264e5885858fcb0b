package tree

import (
	"bytes"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces RFC 8785 canonical JSON for a payload value.
// This is the only serialization that may be fed to a fingerprint or used
// as a storage encoding.
//
// Differences from encoding/json:
//  1. Map keys sorted by UTF-16 code units, not UTF-8 bytes
//  2. No HTML escaping (< > & appear literally)
//  3. U+2028 and U+2029 appear literally
//  4. Strings are NFC normalized
//  5. Floats and nulls are rejected
func MarshalCanonical(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := appendCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func appendCanonical(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case nil:
		return NewInvalidArgument("null is forbidden in canonical JSON")
	case Null:
		return NewInvalidArgument("null is forbidden in canonical JSON")
	case String:
		appendCanonicalString(buf, string(val))
		return nil
	case Int:
		fmt.Fprintf(buf, "%d", int64(val))
		return nil
	case Bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case List:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendCanonical(buf, elem); err != nil {
				return fmt.Errorf("list[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
		return nil
	case Map:
		buf.WriteByte('{')
		for i, k := range val.SortedKeys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			appendCanonicalString(buf, k)
			buf.WriteByte(':')
			if err := appendCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("map[%q]: %w", k, err)
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		return NewInvalidArgument(fmt.Sprintf("unsupported type for canonical JSON: %T", v))
	}
}

// appendCanonicalString writes a canonical JSON string literal.
// Per RFC 8785 only quote, backslash, and the C0 control range are escaped;
// everything else, including < > & U+2028 U+2029, appears literally.
// The input is NFC normalized at this boundary.
func appendCanonicalString(buf *bytes.Buffer, s string) {
	s = norm.NFC.String(s)
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}
