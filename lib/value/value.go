package value

import (
	"encoding/json"
	"fmt"
	"sort"
)

// --------------------------------------------------------------------------
// Kind Definition
// --------------------------------------------------------------------------

// Kind identifies which member of the union a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// --------------------------------------------------------------------------
// Value Definition and Constructors
// --------------------------------------------------------------------------

// Value is an immutable JSON value. The zero Value is the JSON null.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	obj  map[string]Value
	arr  []Value
}

// Null returns the JSON null value.
func Null() Value {
	return Value{kind: KindNull}
}

// String returns a Value holding the given text.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number returns a Value holding the given number.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Bool returns a Value holding the given boolean.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Object returns a Value holding the given member map.
// The map is adopted, not copied - the caller must not mutate it afterwards.
func Object(members map[string]Value) Value {
	return Value{kind: KindObject, obj: members}
}

// Array returns a Value holding the given elements.
// The slice is adopted, not copied - the caller must not mutate it afterwards.
func Array(elems []Value) Value {
	return Value{kind: KindArray, arr: elems}
}

// --------------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------------

// Kind returns which member of the union the value holds.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is the JSON null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsString returns the text payload. The boolean is false if the value is
// not a string.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsNumber returns the numeric payload. The boolean is false if the value is
// not a number.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsBool returns the boolean payload. The boolean is false if the value is
// not a bool.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsObject returns the member map. The boolean is false if the value is not
// an object. The returned map must not be mutated.
func (v Value) AsObject() (map[string]Value, bool) {
	return v.obj, v.kind == KindObject
}

// AsArray returns the element slice. The boolean is false if the value is
// not an array. The returned slice must not be mutated.
func (v Value) AsArray() ([]Value, bool) {
	return v.arr, v.kind == KindArray
}

// --------------------------------------------------------------------------
// Equality
// --------------------------------------------------------------------------

// Equal reports deep structural equality between two values.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num == other.num
	case KindBool:
		return v.b == other.b
	case KindObject:
		if len(v.obj) != len(other.obj) {
			return false
		}
		for k, m := range v.obj {
			o, ok := other.obj[k]
			if !ok || !m.Equal(o) {
				return false
			}
		}
		return true
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// --------------------------------------------------------------------------
// JSON Serialization
// --------------------------------------------------------------------------

// MarshalJSON implements json.Marshaler. The switch is exhaustive over all
// kinds, so marshaling never fails for values built via the constructors.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindObject:
		if v.obj == nil {
			return []byte("{}"), nil
		}
		return marshalObject(v.obj)
	case KindArray:
		if v.arr == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.arr)
	default:
		return nil, fmt.Errorf("value: cannot marshal kind %d", v.kind)
	}
}

// marshalObject writes object members in sorted key order so that the
// serialized form of a value is deterministic.
func marshalObject(members map[string]Value) ([]byte, error) {
	keys := make([]string, 0, len(members))
	for k := range members {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf := []byte{'{'}
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(members[k])
		if err != nil {
			return nil, err
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')
		buf = append(buf, vb...)
	}
	return append(buf, '}'), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// String returns the compact JSON text of the value.
func (v Value) String() string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("<invalid value: %v>", err)
	}
	return string(b)
}

// --------------------------------------------------------------------------
// Conversion Helpers
// --------------------------------------------------------------------------

// Parse converts raw JSON bytes into a Value.
func Parse(data []byte) (Value, error) {
	var v Value
	if err := json.Unmarshal(data, &v); err != nil {
		return Null(), err
	}
	return v, nil
}

// FromAny converts a dynamically typed Go value (as produced by
// encoding/json unmarshaling into any) into a Value. Integer types are
// accepted for convenience and widened to float64.
func FromAny(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(float64(t)), nil
	case int:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Null(), err
		}
		return Number(f), nil
	case map[string]any:
		members := make(map[string]Value, len(t))
		for k, m := range t {
			mv, err := FromAny(m)
			if err != nil {
				return Null(), err
			}
			members[k] = mv
		}
		return Object(members), nil
	case []any:
		elems := make([]Value, len(t))
		for i, e := range t {
			ev, err := FromAny(e)
			if err != nil {
				return Null(), err
			}
			elems[i] = ev
		}
		return Array(elems), nil
	default:
		return Null(), fmt.Errorf("value: unsupported type %T", raw)
	}
}
