package protocol

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ParseMessage parses the text of one message.
//
// A nil message means the text was dropped and the error says why: no
// operation (ErrEmptyMessage), a bad operation or a bad object selector.
// A non-nil message may still come with an error; it then describes
// value-level problems, and the affected properties hold Invalid values.
func ParseMessage(text string) (*Message, error) {
	rest := strings.TrimSpace(text)
	if rest == "" {
		return nil, ErrEmptyMessage
	}

	op, rest := nextField(rest)
	msg, err := NewMessage(op)
	if err != nil {
		return nil, err
	}

	path, rest := nextField(rest)
	if path == "" {
		return msg, nil
	}
	if err := parseObjectPath(msg, path); err != nil {
		return nil, err
	}

	if err := parsePropList(msg, rest); err != nil {
		return msg, err
	}
	return msg, nil
}

// nextField splits off the first whitespace-delimited field of s.
func nextField(s string) (string, string) {
	idx := strings.IndexFunc(s, unicode.IsSpace)
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.TrimLeftFunc(s[idx:], unicode.IsSpace)
}

func parseObjectPath(msg *Message, path string) error {
	for _, sel := range strings.Split(path, ".") {
		name, id, _ := strings.Cut(sel, "#")
		if strings.Contains(id, "#") {
			return fmt.Errorf("%w: selector %q: %w", ErrInvalidObject, sel, ErrInvalidToken)
		}
		if err := msg.AddObjectName(name, id); err != nil {
			return fmt.Errorf("%w: selector %q: %w", ErrInvalidObject, sel, err)
		}
	}
	return nil
}

func isListSep(r rune) bool { return r == ',' || unicode.IsSpace(r) }

// parsePropList accepts properties separated by spaces, commas or both, in
// any order, system properties included.
func parsePropList(msg *Message, s string) error {
	var errs []error
	for {
		s = strings.TrimLeftFunc(s, isListSep)
		n := scanPropName(s)
		if n == 0 {
			break
		}
		name := s[:n]
		s = strings.TrimLeftFunc(s[n:], unicode.IsSpace)
		if !strings.HasPrefix(s, "=") {
			// name already matched the property grammar
			_ = msg.SetFlag(name)
			continue
		}
		v, rest, err := ParseValue(s[1:])
		if err != nil {
			errs = append(errs, fmt.Errorf("property %q: %w", name, err))
		}
		msg.set(name, v)
		s = rest
	}
	if s != "" {
		errs = append(errs, fmt.Errorf("%w: unexpected %q", ErrSyntax, s))
	}
	return errors.Join(errs...)
}
