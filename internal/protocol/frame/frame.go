// Package frame extracts complete LWCP message spans from a stream of text.
//
// A message ends at '\n' unless the newline sits inside an
// %BeginEncap% ... %EndEncap% region, in which case the message runs on to
// the next newline after the region closes.
package frame

import (
	"bytes"
	"errors"
)

const (
	EncapBegin = "%BeginEncap%"
	EncapEnd   = "%EndEncap%"
)

var (
	ErrIncomplete      = errors.New("frame: message incomplete")
	ErrBufferOverflow  = errors.New("frame: pending buffer exceeds limit")
	ErrMessageTooLarge = errors.New("frame: message exceeds limit")
)

var (
	encapBegin = []byte(EncapBegin)
	encapEnd   = []byte(EncapEnd)
)

// Limits constrains splitter memory use. Zero fields mean no limit.
type Limits struct {
	MaxPendingBytes int
	MaxMessageBytes int
}

func DefaultLimits() Limits {
	return Limits{
		MaxPendingBytes: 1024 * 1024,
		MaxMessageBytes: 64 * 1024,
	}
}

// Splitter buffers stream text and hands out complete message spans. It is
// not safe for concurrent use.
type Splitter struct {
	limits Limits
	buf    []byte
}

func NewSplitter(limits Limits) *Splitter {
	return &Splitter{limits: limits}
}

func (s *Splitter) Append(p []byte) {
	s.buf = append(s.buf, p...)
}

func (s *Splitter) AppendString(p string) {
	s.buf = append(s.buf, p...)
}

// Pending returns the number of buffered bytes not yet handed out.
func (s *Splitter) Pending() int { return len(s.buf) }

// Reset drops all buffered text.
func (s *Splitter) Reset() { s.buf = s.buf[:0] }

// Next removes and returns the next complete span, newline included.
//
// ErrIncomplete means more input is needed. If the incomplete remainder is
// already larger than MaxPendingBytes it is discarded and ErrBufferOverflow
// is returned instead. A complete span longer than MaxMessageBytes is
// consumed and reported as ErrMessageTooLarge.
func (s *Splitter) Next() (string, error) {
	end, ok := s.spanEnd()
	if !ok {
		if s.limits.MaxPendingBytes > 0 && len(s.buf) > s.limits.MaxPendingBytes {
			s.Reset()
			return "", ErrBufferOverflow
		}
		return "", ErrIncomplete
	}
	span := string(s.buf[:end])
	s.buf = s.buf[:copy(s.buf, s.buf[end:])]
	if s.limits.MaxMessageBytes > 0 && len(span) > s.limits.MaxMessageBytes {
		return "", ErrMessageTooLarge
	}
	return span, nil
}

// spanEnd returns the length of the first complete span in buf.
func (s *Splitter) spanEnd() (int, bool) {
	scan := 0
	for {
		nl := bytes.IndexByte(s.buf[scan:], '\n')
		if nl < 0 {
			return 0, false
		}
		nl += scan

		inside := false
		for {
			b := bytes.Index(s.buf[scan:nl+1], encapBegin)
			if b < 0 {
				break
			}
			body := scan + b + len(encapBegin)
			e := bytes.Index(s.buf[body:], encapEnd)
			if e < 0 {
				// payload has not fully arrived yet
				return 0, false
			}
			scan = body + e + len(encapEnd)
			if scan > nl {
				inside = true
				break
			}
		}
		if !inside {
			return nl + 1, true
		}
	}
}
