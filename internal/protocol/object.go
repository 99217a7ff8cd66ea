package protocol

import (
	"fmt"
	"regexp"
)

var (
	identPattern    = regexp.MustCompile(`^[A-Za-z]\w*$`)
	tokenPattern    = regexp.MustCompile(`^\w+$`)
	propNamePattern = regexp.MustCompile(`^\$?[A-Za-z]\w*$`)
)

// IsIdentifier reports whether s is a valid operation or object name.
func IsIdentifier(s string) bool { return identPattern.MatchString(s) }

// IsPropertyName reports whether s is a valid (system) property name.
func IsPropertyName(s string) bool { return propNamePattern.MatchString(s) }

// ObjectRef addresses one object as name or name#id.
type ObjectRef struct {
	name string
	id   string
}

// NewObjectRef validates name and the optional id. An empty id means none.
func NewObjectRef(name, id string) (ObjectRef, error) {
	if !identPattern.MatchString(name) {
		return ObjectRef{}, fmt.Errorf("%w: object name %q", ErrInvalidIdentifier, name)
	}
	if id != "" && !tokenPattern.MatchString(id) {
		return ObjectRef{}, fmt.Errorf("%w: object id %q", ErrInvalidToken, id)
	}
	return ObjectRef{name: name, id: id}, nil
}

func (o ObjectRef) Name() string { return o.name }
func (o ObjectRef) ID() string   { return o.id }

func (o ObjectRef) String() string {
	if o.id == "" {
		return o.name
	}
	return o.name + "#" + o.id
}
