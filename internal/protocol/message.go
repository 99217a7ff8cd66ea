package protocol

import (
	"fmt"
	"strings"
)

// Message is one LWCP command: an operation, the objects it addresses and
// two property maps. Properties whose name starts with '$' are system
// properties and live in their own map.
//
// Fields are only changed through the add/set methods so that every name
// stays valid for the wire grammar.
type Message struct {
	op       string
	objects  []ObjectRef
	props    PropMap
	sysProps PropMap
}

// NewMessage creates an empty message for op.
func NewMessage(op string) (*Message, error) {
	if !identPattern.MatchString(op) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOperation, op)
	}
	return &Message{op: op}, nil
}

func (m *Message) Op() string { return m.op }

// Objects returns the addressed objects in path order.
func (m *Message) Objects() []ObjectRef {
	out := make([]ObjectRef, len(m.objects))
	copy(out, m.objects)
	return out
}

func (m *Message) AddObject(ref ObjectRef) error {
	if ref.name == "" {
		return fmt.Errorf("%w: empty object name", ErrInvalidIdentifier)
	}
	m.objects = append(m.objects, ref)
	return nil
}

// AddObjectName builds an ObjectRef from name and id and appends it.
func (m *Message) AddObjectName(name, id string) error {
	ref, err := NewObjectRef(name, id)
	if err != nil {
		return err
	}
	m.objects = append(m.objects, ref)
	return nil
}

// SetProperty stores v under name, replacing any earlier value. Values that
// are or contain Invalid have no wire form and are rejected.
func (m *Message) SetProperty(name string, v Value) error {
	if !propNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidProperty, name)
	}
	if v.hasInvalid() {
		return fmt.Errorf("%w: property %q holds an invalid value", ErrUnparseableValue, name)
	}
	m.set(name, v)
	return nil
}

// set stores v without checking it. The parser uses it to keep Invalid
// values in place.
func (m *Message) set(name string, v Value) {
	if strings.HasPrefix(name, "$") {
		m.sysProps.Set(name, v)
	} else {
		m.props.Set(name, v)
	}
}

// SetNative stores FromNative(in) under name.
func (m *Message) SetNative(name string, in any) error {
	return m.SetProperty(name, FromNative(in))
}

// SetFlag stores a property without payload.
func (m *Message) SetFlag(name string) error {
	return m.SetProperty(name, None())
}

// PropertyValue looks name up in the ordinary properties first, then in the
// system properties.
func (m *Message) PropertyValue(name string) (Value, error) {
	if v, ok := m.props.Get(name); ok {
		return v, nil
	}
	if v, ok := m.sysProps.Get(name); ok {
		return v, nil
	}
	return Value{}, fmt.Errorf("%w: %q", ErrPropertyNotFound, name)
}

// Property is PropertyValue unwrapped to its native form.
func (m *Message) Property(name string) (any, error) {
	v, err := m.PropertyValue(name)
	if err != nil {
		return nil, err
	}
	return v.Native(), nil
}

func (m *Message) HasProperty(name string) bool {
	_, err := m.PropertyValue(name)
	return err == nil
}

func (m *Message) Properties() []Property { return m.props.All() }

func (m *Message) SystemProperties() []Property { return m.sysProps.All() }
