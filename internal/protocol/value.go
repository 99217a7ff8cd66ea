package protocol

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Value is one LWCP datum. Exactly one variant is active, selected by Type.
// The payload never changes after construction; only the tag of a textual
// value may be switched with Retag.
type Value struct {
	typ   Type
	num   number
	text  string
	items []Value
	other any
}

// number holds an integer or a float without losing either. goType is the
// Go type the number came from in FromNative, nil for int64 and float64.
type number struct {
	i      int64
	f      float64
	float  bool
	goType reflect.Type
}

func (n number) asFloat() float64 {
	if n.float {
		return n.f
	}
	return float64(n.i)
}

func (n number) equal(o number) bool {
	if !n.float && !o.float {
		return n.i == o.i
	}
	return n.asFloat() == o.asFloat()
}

func (n number) native() any {
	var out any = n.i
	if n.float {
		out = n.f
	}
	if n.goType == nil {
		return out
	}
	return reflect.ValueOf(out).Convert(n.goType).Interface()
}

// None returns a value for a property that is present without payload.
func None() Value { return Value{typ: TypeNone} }

// Invalid returns the parse failure sentinel.
func Invalid() Value { return Value{typ: TypeInvalid} }

// NewInt creates an integer Number.
func NewInt(i int64) Value {
	return Value{typ: TypeNumber, num: number{i: i}}
}

// NewFloat creates a floating point Number. NaN and infinities have no wire
// form and yield Invalid.
func NewFloat(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Invalid()
	}
	return Value{typ: TypeNumber, num: number{f: f, float: true}}
}

// NewString creates a String value from already decoded text.
func NewString(s string) Value { return Value{typ: TypeString, text: s} }

// NewEnum creates an Enum value. Text that is not an identifier has no
// wire form and yields Invalid.
func NewEnum(s string) Value {
	if !identPattern.MatchString(s) {
		return Invalid()
	}
	return Value{typ: TypeEnum, text: s}
}

// NewEncap creates an Encap value carrying raw text. Text containing the
// end marker yields Invalid.
func NewEncap(s string) Value {
	if strings.Contains(s, EncapEnd) {
		return Invalid()
	}
	return Value{typ: TypeEncap, text: s}
}

// NewArray creates an Array value from items. None has no wire form inside
// an array, so such items are stored as Invalid.
func NewArray(items ...Value) Value {
	out := make([]Value, len(items))
	for i, item := range items {
		if item.typ == TypeNone {
			item = Invalid()
		}
		out[i] = item
	}
	return Value{typ: TypeArray, items: out}
}

// NewOther wraps an opaque caller payload.
func NewOther(v any) Value { return Value{typ: TypeOther, other: v} }

func (v Value) Type() Type { return v.typ }

// IsValid reports whether v is anything but the Invalid sentinel.
func (v Value) IsValid() bool { return v.typ != TypeInvalid }

// Int returns the integer payload of a Number that was not a float.
func (v Value) Int() (int64, bool) {
	if v.typ != TypeNumber || v.num.float {
		return 0, false
	}
	return v.num.i, true
}

// Float returns the payload of any Number as a float64.
func (v Value) Float() (float64, bool) {
	if v.typ != TypeNumber {
		return 0, false
	}
	return v.num.asFloat(), true
}

// Text returns the payload of a String, Enum or Encap value.
func (v Value) Text() (string, bool) {
	if !v.typ.textual() {
		return "", false
	}
	return v.text, true
}

// Items returns a copy of the elements of an Array value.
func (v Value) Items() []Value {
	if v.typ != TypeArray {
		return nil
	}
	out := make([]Value, len(v.items))
	copy(out, v.items)
	return out
}

// Retag switches a textual value between String, Enum and Encap. Any other
// source or target type, or text the target cannot carry, is rejected and v
// is returned unchanged.
func (v Value) Retag(t Type) (Value, error) {
	if !v.typ.textual() || !t.textual() {
		return v, fmt.Errorf("%w: cannot retag %s as %s", ErrBadType, v.typ, t)
	}
	switch {
	case t == TypeEnum && !identPattern.MatchString(v.text):
		return v, fmt.Errorf("%w: %q is not an enum", ErrBadType, v.text)
	case t == TypeEncap && strings.Contains(v.text, EncapEnd):
		return v, fmt.Errorf("%w: encap text contains %s", ErrBadType, EncapEnd)
	}
	v.typ = t
	return v, nil
}

// hasInvalid reports whether v is Invalid or holds an Invalid item at any
// depth.
func (v Value) hasInvalid() bool {
	switch v.typ {
	case TypeInvalid:
		return true
	case TypeArray:
		for _, item := range v.items {
			if item.hasInvalid() {
				return true
			}
		}
	}
	return false
}

// Native converts v back to a plain Go value. Arrays become []any, textual
// values string, None and Invalid nil. Numbers built by FromNative come
// back as their original Go type, all others as int64 or float64.
func (v Value) Native() any {
	switch v.typ {
	case TypeNumber:
		return v.num.native()
	case TypeString, TypeEnum, TypeEncap:
		return v.text
	case TypeArray:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Native()
		}
		return out
	case TypeOther:
		return v.other
	}
	return nil
}

// Equals compares v structurally against a native value. Arrays match
// element-wise and by length; everything else compares payloads.
func (v Value) Equals(other any) bool {
	if ov, ok := other.(Value); ok {
		other = ov.Native()
	}
	switch v.typ {
	case TypeArray:
		rv := reflect.ValueOf(other)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return false
		}
		if rv.Len() != len(v.items) {
			return false
		}
		for i, item := range v.items {
			if !item.Equals(rv.Index(i).Interface()) {
				return false
			}
		}
		return true
	case TypeNone, TypeInvalid:
		return other == nil
	case TypeNumber:
		n, ok := numberOf(other)
		return ok && v.num.equal(n)
	case TypeString, TypeEnum, TypeEncap:
		s, ok := other.(string)
		return ok && s == v.text
	}
	return reflect.DeepEqual(v.other, other)
}

// String renders v in its canonical wire form.
func (v Value) String() string {
	switch v.typ {
	case TypeNumber:
		if v.num.float {
			return formatFloat(v.num.f)
		}
		return strconv.FormatInt(v.num.i, 10)
	case TypeEnum:
		return v.text
	case TypeString:
		return `"` + stringEscaper.Replace(v.text) + `"`
	case TypeEncap:
		return EncapBegin + v.text + EncapEnd
	case TypeArray:
		parts := make([]string, len(v.items))
		for i, item := range v.items {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ",") + "]"
	case TypeOther:
		if v.other == nil {
			return ""
		}
		return fmt.Sprint(v.other)
	}
	return ""
}

// formatFloat always keeps a '.' so the text parses back as a float.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"%", `\%`,
)

// unescape reverses stringEscaper. Any other escaped character stands for
// itself.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
