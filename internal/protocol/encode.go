package protocol

import (
	"io"
	"strings"
)

// String renders m as wire text without the terminating newline. Empty
// sections are left out: op, dot-joined objects, comma-joined properties,
// space-joined system properties.
//
// The field after op always parses as the object path, so a message with
// properties but no objects does not parse back to the same message.
func (m *Message) String() string {
	sections := make([]string, 0, 4)
	sections = append(sections, m.op)
	if len(m.objects) > 0 {
		objs := make([]string, len(m.objects))
		for i, o := range m.objects {
			objs[i] = o.String()
		}
		sections = append(sections, strings.Join(objs, "."))
	}
	if m.props.Len() > 0 {
		sections = append(sections, strings.Join(m.props.pairs(), ","))
	}
	if m.sysProps.Len() > 0 {
		sections = append(sections, strings.Join(m.sysProps.pairs(), " "))
	}
	return strings.Join(sections, " ")
}

// Encode writes msg to w as one newline-terminated wire message.
func Encode(w io.Writer, msg *Message) error {
	if msg == nil {
		return ErrEmptyMessage
	}
	_, err := io.WriteString(w, msg.String()+"\n")
	return err
}
