package protocol

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danmuck/lwcp/internal/protocol/frame"
)

// SpanError describes a problem with one framed span. Dropped reports
// whether the span produced no message at all.
type SpanError struct {
	Span    string
	Dropped bool
	Err     error
}

func (e *SpanError) Error() string {
	if e.Dropped {
		return fmt.Sprintf("dropped %q: %v", e.Span, e.Err)
	}
	return fmt.Sprintf("in %q: %v", e.Span, e.Err)
}

func (e *SpanError) Unwrap() error { return e.Err }

// SpanErrors flattens an error returned by Decoder.Feed.
func SpanErrors(err error) []*SpanError {
	if err == nil {
		return nil
	}
	var out []*SpanError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, SpanErrors(e)...)
		}
		return out
	}
	var se *SpanError
	if errors.As(err, &se) {
		out = append(out, se)
	}
	return out
}

// Decoder turns fragments of stream text into a FIFO queue of messages.
// It runs entirely on the caller's goroutine and is not safe for
// concurrent use.
type Decoder struct {
	splitter *frame.Splitter
	queue    []*Message
}

// NewDecoder creates a Decoder. The zero Limits buffer without bound.
func NewDecoder(limits frame.Limits) *Decoder {
	return &Decoder{splitter: frame.NewSplitter(limits)}
}

// Feed appends text and parses every message that is now complete. A
// partial trailing message stays buffered for the next call.
//
// Messages that parse are queued even when some of their values were
// invalid. The returned error joins one *SpanError per problem span;
// blank lines are skipped silently.
func (d *Decoder) Feed(text string) error {
	d.splitter.AppendString(text)

	var errs []error
	for {
		span, err := d.splitter.Next()
		if errors.Is(err, frame.ErrIncomplete) {
			break
		}
		if err != nil {
			errs = append(errs, &SpanError{Dropped: true, Err: err})
			if errors.Is(err, frame.ErrBufferOverflow) {
				break
			}
			continue
		}

		msg, err := ParseMessage(span)
		if errors.Is(err, ErrEmptyMessage) {
			continue
		}
		if err != nil {
			errs = append(errs, &SpanError{
				Span:    strings.TrimSpace(span),
				Dropped: msg == nil,
				Err:     err,
			})
		}
		if msg != nil {
			d.queue = append(d.queue, msg)
		}
	}
	return errors.Join(errs...)
}

// Dequeue pops the oldest message. ok is false when the queue is empty.
func (d *Decoder) Dequeue() (msg *Message, ok bool) {
	if len(d.queue) == 0 {
		return nil, false
	}
	msg = d.queue[0]
	d.queue[0] = nil
	d.queue = d.queue[1:]
	return msg, true
}

// DequeueAll drains the queue.
func (d *Decoder) DequeueAll() []*Message {
	out := d.queue
	d.queue = nil
	return out
}

// Len returns the number of queued messages.
func (d *Decoder) Len() int { return len(d.queue) }

// Pending returns the number of buffered bytes that do not yet form a
// complete message.
func (d *Decoder) Pending() int { return d.splitter.Pending() }

// Reset drops buffered text and queued messages.
func (d *Decoder) Reset() {
	d.splitter.Reset()
	d.queue = nil
}
