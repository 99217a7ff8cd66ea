package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseValue parses one value from the start of text and returns it with the
// unconsumed rest. Parsing is best effort: a token that matches no rule is
// still consumed, yields Invalid and is reported through the error. An Array
// cut short by a bad element is kept with what was read so far.
//
// ParseValue never looks past the end of text for a closing quote, bracket
// or encap marker; deciding that a span is complete is the framer's job.
func ParseValue(text string) (Value, string, error) {
	s := &valueScanner{src: text}
	v := s.value()
	return v, s.src[s.pos:], errors.Join(s.errs...)
}

type valueScanner struct {
	src  string
	pos  int
	errs []error
}

func (s *valueScanner) fail(at int, input string, err error) {
	s.errs = append(s.errs, &ParseError{Input: input, Offset: at, Err: err})
}

func (s *valueScanner) skipSpace() {
	rest := s.src[s.pos:]
	s.pos += len(rest) - len(strings.TrimLeftFunc(rest, unicode.IsSpace))
}

func (s *valueScanner) value() Value {
	s.skipSpace()
	start := s.pos
	rest := s.src[start:]

	if strings.HasPrefix(rest, "[") {
		return s.array()
	}
	for _, q := range []byte{'"', '\''} {
		if text, n, ok := scanQuoted(rest, q); ok {
			s.pos += n
			return NewString(unescape(text))
		}
	}
	if n := scanIdent(rest); n > 0 {
		s.pos += n
		return NewEnum(rest[:n])
	}
	if n := scanNumber(rest); n > 0 {
		s.pos += n
		v, err := parseNumber(rest[:n])
		if err != nil {
			s.fail(start, rest[:n], fmt.Errorf("%w: %w", ErrUnparseableValue, err))
		}
		return v
	}
	if strings.HasPrefix(rest, EncapBegin) {
		body := rest[len(EncapBegin):]
		if end := strings.Index(body, EncapEnd); end >= 0 {
			s.pos += len(EncapBegin) + end + len(EncapEnd)
			return NewEncap(body[:end])
		}
	}

	n := scanJunk(rest)
	s.pos += n
	s.fail(start, rest[:n], ErrUnparseableValue)
	return Invalid()
}

func (s *valueScanner) array() Value {
	s.pos++ // '['
	items := make([]Value, 0)
loop:
	for {
		s.skipSpace()
		if s.pos == len(s.src) {
			s.fail(s.pos, "", fmt.Errorf("%w: unterminated array", ErrUnparseableValue))
			break
		}
		switch s.src[s.pos] {
		case ']':
			s.pos++
			break loop
		case ',':
			s.pos++
			continue
		}
		item := s.value()
		items = append(items, item)
		if item.typ == TypeInvalid {
			break
		}
	}
	return Value{typ: TypeArray, items: items}
}

// scanQuoted matches q ... q with backslash escapes and returns the raw
// text between the quotes and the number of bytes consumed.
func scanQuoted(s string, q byte) (string, int, bool) {
	if len(s) == 0 || s[0] != q {
		return "", 0, false
	}
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 == len(s) || s[i+1] == '\n' {
				return "", 0, false
			}
			i++
		case q:
			return s[1:i], i + 1, true
		}
	}
	return "", 0, false
}

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func isWord(c byte) bool { return isLetter(c) || c >= '0' && c <= '9' || c == '_' }

func scanIdent(s string) int {
	if len(s) == 0 || !isLetter(s[0]) {
		return 0
	}
	n := 1
	for n < len(s) && isWord(s[n]) {
		n++
	}
	return n
}

// scanPropName matches an identifier with an optional leading '$'.
func scanPropName(s string) int {
	if strings.HasPrefix(s, "$") {
		if n := scanIdent(s[1:]); n > 0 {
			return n + 1
		}
		return 0
	}
	return scanIdent(s)
}

func isNumberByte(c byte) bool {
	switch {
	case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		return true
	}
	return c == 'x' || c == 'X' || c == '.' || c == '+' || c == '-'
}

func scanNumber(s string) int {
	n := 0
	for n < len(s) && isNumberByte(s[n]) {
		n++
	}
	return n
}

// scanJunk consumes everything up to the next whitespace or comma.
func scanJunk(s string) int {
	n := 0
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if r == ',' || unicode.IsSpace(r) {
			break
		}
		n += size
	}
	return n
}

// parseNumber converts a number lexeme. Text with a '.' is a float; anything
// else is a decimal integer, or hex with a 0x prefix, with an optional sign.
// Malformed lexemes such as "12.3.4" or "0xZZ" are errors, never partial
// numbers.
func parseNumber(tok string) (Value, error) {
	if strings.Contains(tok, ".") {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return Invalid(), err
		}
		return NewFloat(f), nil
	}
	sign, body := "", tok
	if body != "" && (body[0] == '+' || body[0] == '-') {
		sign, body = body[:1], body[1:]
	}
	base := 10
	if len(body) > 2 && body[0] == '0' && (body[1] == 'x' || body[1] == 'X') {
		base, body = 16, body[2:]
	}
	i, err := strconv.ParseInt(sign+body, base, 64)
	if err != nil {
		return Invalid(), err
	}
	return NewInt(i), nil
}
