package protocol

import (
	"math"
	"reflect"
)

// Producer is a deferred value. FromNative calls it exactly once and stores
// the result, never the function.
type Producer func() any

type unset struct{}

// Unset marks an input that was explicitly left undefined. FromNative maps
// it to Invalid, while nil maps to None.
var Unset any = unset{}

// FromNative builds a Value from a Go value:
//   - nil -> None, Unset -> Invalid
//   - integers and floats -> Number
//   - strings -> String
//   - Producer or func() any -> the converted result of calling it once
//   - slices and arrays -> Array, converted element by element
//   - anything else -> Other
func FromNative(in any) Value {
	switch x := in.(type) {
	case nil:
		return None()
	case unset:
		return Invalid()
	case Value:
		return x
	case *Value:
		if x == nil {
			return Invalid()
		}
		return *x
	case string:
		return NewString(x)
	case Producer:
		if x == nil {
			return Invalid()
		}
		return FromNative(x())
	case func() any:
		if x == nil {
			return Invalid()
		}
		return FromNative(x())
	case bool:
		return NewOther(x)
	}

	if n, ok := numberOf(in); ok {
		v := NewInt(n.i)
		if n.float {
			v = NewFloat(n.f)
		}
		if v.typ == TypeNumber {
			v.num.goType = n.goType
		}
		return v
	}

	rv := reflect.ValueOf(in)
	switch rv.Kind() {
	case reflect.String:
		return NewString(rv.String())
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = FromNative(rv.Index(i).Interface())
		}
		return NewArray(items...)
	}
	return NewOther(in)
}

// numberOf extracts a numeric payload from any Go integer or float kind and
// remembers its type. Unsigned values beyond int64 fall back to a plain
// float64.
func numberOf(in any) (number, bool) {
	if in == nil {
		return number{}, false
	}
	rv := reflect.ValueOf(in)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{i: rv.Int(), goType: rv.Type()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return number{f: float64(u), float: true}, true
		}
		return number{i: int64(u), goType: rv.Type()}, true
	case reflect.Float32, reflect.Float64:
		return number{f: rv.Float(), float: true, goType: rv.Type()}, true
	}
	return number{}, false
}
