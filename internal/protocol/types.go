package protocol

import (
	"strings"

	"github.com/danmuck/lwcp/internal/protocol/frame"
)

// Encapsulation markers. Anything between them is carried verbatim.
const (
	EncapBegin = frame.EncapBegin
	EncapEnd   = frame.EncapEnd
)

// Type is the LWCP data type tag of a Value.
type Type uint8

const (
	TypeInvalid Type = iota // parse failure, never a valid protocol value
	TypeNone                // property present without payload
	TypeNumber              // integer or float
	TypeString              // quoted text
	TypeEnum                // bare identifier
	TypeArray               // ordered list of values
	TypeEncap               // raw text between encap markers
	TypeOther               // caller payload, never produced by parsing
)

var typeNames = [...]string{
	TypeInvalid: "INVALID",
	TypeNone:    "NONE",
	TypeNumber:  "NUMBER",
	TypeString:  "STRING",
	TypeEnum:    "ENUM",
	TypeArray:   "ARRAY",
	TypeEncap:   "ENCAP",
	TypeOther:   "OTHER",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "UNKNOWN"
}

// ParseType maps a type name (case-insensitive) back to its Type.
func ParseType(name string) (Type, bool) {
	for i, n := range typeNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Type(i), true
		}
	}
	return TypeInvalid, false
}

// textual reports whether t carries plain text and may be retagged.
func (t Type) textual() bool {
	switch t {
	case TypeString, TypeEnum, TypeEncap:
		return true
	}
	return false
}
