package value

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKinds(t *testing.T) {
	assert.Equal(t, KindNull, Null().Kind())
	assert.Equal(t, KindString, String("a").Kind())
	assert.Equal(t, KindNumber, Number(1).Kind())
	assert.Equal(t, KindBool, Bool(true).Kind())
	assert.Equal(t, KindObject, Object(nil).Kind())
	assert.Equal(t, KindArray, Array(nil).Kind())

	assert.True(t, Null().IsNull())
	assert.False(t, String("").IsNull())

	// the zero Value is null
	var zero Value
	assert.True(t, zero.IsNull())
}

func TestAccessors(t *testing.T) {
	s, ok := String("hello").AsString()
	require.True(t, ok)
	assert.Equal(t, "hello", s)

	_, ok = Number(1).AsString()
	assert.False(t, ok)

	n, ok := Number(42.5).AsNumber()
	require.True(t, ok)
	assert.Equal(t, 42.5, n)

	b, ok := Bool(true).AsBool()
	require.True(t, ok)
	assert.True(t, b)

	obj, ok := Object(map[string]Value{"k": Number(1)}).AsObject()
	require.True(t, ok)
	assert.Len(t, obj, 1)

	arr, ok := Array([]Value{String("x")}).AsArray()
	require.True(t, ok)
	assert.Len(t, arr, 1)
}

func TestMarshalAllKinds(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null(), `null`},
		{"string", String("hi"), `"hi"`},
		{"number", Number(3), `3`},
		{"fraction", Number(1.5), `1.5`},
		{"bool", Bool(false), `false`},
		{"empty object", Object(nil), `{}`},
		{"empty array", Array(nil), `[]`},
		{"object", Object(map[string]Value{"b": Number(2), "a": Number(1)}), `{"a":1,"b":2}`},
		{"array", Array([]Value{Number(1), String("x"), Null()}), `[1,"x",null]`},
		{"nested", Object(map[string]Value{"list": Array([]Value{Bool(true)})}), `{"list":[true]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestObjectKeysSorted(t *testing.T) {
	v := Object(map[string]Value{"z": Number(1), "a": Number(2), "m": Number(3)})
	assert.Equal(t, `{"a":2,"m":3,"z":1}`, v.String())
}

func TestParseRoundTrip(t *testing.T) {
	inputs := []string{
		`"text"`,
		`123`,
		`true`,
		`null`,
		`{"a":{"b":[1,2,null]},"c":""}`,
		`[[],{},0,false]`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			v, err := Parse([]byte(input))
			require.NoError(t, err)
			assert.Equal(t, input, v.String())
		})
	}
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte(`not json`))
	assert.Error(t, err)

	_, err = Parse([]byte(``))
	assert.Error(t, err)
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(map[string]any{"n": 1, "s": "x", "xs": []any{true, nil}})
	require.NoError(t, err)
	assert.Equal(t, `{"n":1,"s":"x","xs":[true,null]}`, v.String())

	_, err = FromAny(struct{}{})
	assert.Error(t, err)

	// Values pass through unchanged
	v, err = FromAny(String("y"))
	require.NoError(t, err)
	assert.True(t, v.Equal(String("y")))
}

func TestEqual(t *testing.T) {
	a := Object(map[string]Value{"k": Array([]Value{Number(1), String("s")})})
	b := Object(map[string]Value{"k": Array([]Value{Number(1), String("s")})})
	c := Object(map[string]Value{"k": Array([]Value{Number(2), String("s")})})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(Null()))
	assert.True(t, Null().Equal(Null()))
	assert.False(t, Number(0).Equal(Bool(false)))
}

func TestUnmarshalIntoValue(t *testing.T) {
	var v Value
	require.NoError(t, json.Unmarshal([]byte(`{"deep":{"deeper":[1]}}`), &v))

	obj, ok := v.AsObject()
	require.True(t, ok)
	deep, ok := obj["deep"].AsObject()
	require.True(t, ok)
	arr, ok := deep["deeper"].AsArray()
	require.True(t, ok)
	require.Len(t, arr, 1)
	n, ok := arr[0].AsNumber()
	require.True(t, ok)
	assert.Equal(t, float64(1), n)
}
