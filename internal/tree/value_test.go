package tree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToValueConversions(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"string", "hello", String("hello")},
		{"int", 42, Int(42)},
		{"int64", int64(7), Int(7)},
		{"bool", true, Bool(true)},
		{"list", []any{"a", 1}, List{String("a"), Int(1)}},
		{"map", map[string]any{"k": "v"}, Map{"k": String("v")}},
		{"already a value", String("x"), String("x")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToValue(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToValueRejectsFloatsAndNil(t *testing.T) {
	_, err := ToValue(3.14)
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))

	_, err = ToValue(nil)
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))

	_, err = ToValue([]any{"ok", 1.5})
	require.Error(t, err)
}

func TestUnmarshalValueStrict(t *testing.T) {
	v, err := UnmarshalValue([]byte(`{"a": 1, "b": ["x", true]}`))
	require.NoError(t, err)
	assert.Equal(t, Map{"a": Int(1), "b": List{String("x"), Bool(true)}}, v)

	_, err = UnmarshalValue([]byte(`{"a": 1.5}`))
	require.Error(t, err, "floats must be rejected")

	_, err = UnmarshalValue([]byte(`{"a": null}`))
	require.Error(t, err, "null must be rejected")
}

func TestMapJSONRoundTrip(t *testing.T) {
	m := Map{"b": Int(2), "a": String("x"), "nested": Map{"k": Bool(false)}}
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var back Map
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, m, back)
}

func TestMapMarshalSortsKeys(t *testing.T) {
	m := Map{"b": Int(1), "a": Int(2), "c": Int(3)}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"b":1,"c":3}`, string(data))
}

func TestSortedKeysUTF16Order(t *testing.T) {
	// U+1D7F6 is a surrogate pair in UTF-16 (high surrogate 0xD835), so it
	// precedes U+FB33 (0xFB33) in code-unit order. UTF-8 byte comparison
	// would order these the other way around.
	m := Map{"\U0001D7F6": Int(1), "דּ": Int(2)}
	keys := m.SortedKeys()
	assert.Equal(t, []string{"\U0001D7F6", "דּ"}, keys)
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"equal scalars", String("x"), String("x"), true},
		{"different scalars", Int(1), Int(2), false},
		{"different types", Int(1), String("1"), false},
		{"equal lists", List{Int(1), String("a")}, List{Int(1), String("a")}, true},
		{"list length mismatch", List{Int(1)}, List{Int(1), Int(2)}, false},
		{"equal nested maps", Map{"k": Map{"n": Int(1)}}, Map{"k": Map{"n": Int(1)}}, true},
		{"map key mismatch", Map{"a": Int(1)}, Map{"b": Int(1)}, false},
		{"map value mismatch", Map{"a": Int(1)}, Map{"a": Int(2)}, false},
		{"null equals null", Null{}, Null{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	original := Map{"list": List{String("a")}, "inner": Map{"k": Int(1)}}
	cloned := Clone(original).(Map)

	original["inner"].(Map)["k"] = Int(99)
	original["list"].(List)[0] = String("mutated")

	assert.Equal(t, Int(1), cloned["inner"].(Map)["k"])
	assert.Equal(t, String("a"), cloned["list"].(List)[0])
}
