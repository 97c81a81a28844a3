package apierr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// ValueType tags the variant held by a Value.
type ValueType int

const (
	TypeNull ValueType = iota
	TypeString
	TypeNumber
	TypeBool
	TypeObject
	TypeArray
)

func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeBool:
		return "bool"
	case TypeObject:
		return "object"
	case TypeArray:
		return "array"
	default:
		return "null"
	}
}

// Value is a decoded JSON leaf or container. Exactly one payload field is
// meaningful, selected by Type(). Numbers keep their literal text so large
// integers survive the round trip.
type Value struct {
	typ ValueType
	str string
	num json.Number
	b   bool
	obj map[string]Value
	arr []Value
}

func NewNull() Value                      { return Value{typ: TypeNull} }
func NewString(s string) Value            { return Value{typ: TypeString, str: s} }
func NewBool(b bool) Value                { return Value{typ: TypeBool, b: b} }
func NewObject(m map[string]Value) Value  { return Value{typ: TypeObject, obj: m} }
func NewArray(a []Value) Value            { return Value{typ: TypeArray, arr: a} }
func NewNumber(f float64) Value {
	return Value{typ: TypeNumber, num: json.Number(strconv.FormatFloat(f, 'f', -1, 64))}
}

func (v Value) Type() ValueType { return v.typ }
func (v Value) IsNull() bool    { return v.typ == TypeNull }

func (v Value) Str() (string, bool) {
	return v.str, v.typ == TypeString
}

func (v Value) Float() (float64, bool) {
	if v.typ != TypeNumber {
		return 0, false
	}
	f, err := v.num.Float64()
	return f, err == nil
}

// Int reports the number as int64 when it is integral.
func (v Value) Int() (int64, bool) {
	if v.typ != TypeNumber {
		return 0, false
	}
	i, err := v.num.Int64()
	return i, err == nil
}

func (v Value) Bool() (bool, bool) {
	return v.b, v.typ == TypeBool
}

func (v Value) Object() (map[string]Value, bool) {
	return v.obj, v.typ == TypeObject
}

func (v Value) Array() ([]Value, bool) {
	return v.arr, v.typ == TypeArray
}

// String renders the value compactly for logs and messages.
func (v Value) String() string {
	switch v.typ {
	case TypeString:
		return v.str
	case TypeNumber:
		return v.num.String()
	case TypeBool:
		return strconv.FormatBool(v.b)
	case TypeNull:
		return "null"
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("<%s>", v.typ)
		}
		return string(b)
	}
}

func (v *Value) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = fromAny(raw)
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.typ {
	case TypeString:
		return json.Marshal(v.str)
	case TypeNumber:
		return []byte(v.num.String()), nil
	case TypeBool:
		return json.Marshal(v.b)
	case TypeObject:
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			buf.Write(kb)
			buf.WriteByte(':')
			vb, err := v.obj[k].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(vb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case TypeArray:
		if v.arr == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.arr)
	default:
		return []byte("null"), nil
	}
}

func fromAny(raw any) Value {
	switch x := raw.(type) {
	case string:
		return NewString(x)
	case json.Number:
		return Value{typ: TypeNumber, num: x}
	case float64:
		return NewNumber(x)
	case bool:
		return NewBool(x)
	case map[string]any:
		m := make(map[string]Value, len(x))
		for k, item := range x {
			m[k] = fromAny(item)
		}
		return NewObject(m)
	case []any:
		a := make([]Value, len(x))
		for i, item := range x {
			a[i] = fromAny(item)
		}
		return NewArray(a)
	default:
		return NewNull()
	}
}
