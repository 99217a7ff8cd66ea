package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/danmuck/lwcp/internal/logging"
	"github.com/danmuck/lwcp/internal/observability"
	"github.com/danmuck/lwcp/internal/protocol"
)

// Stats counts what a Reader has seen so far.
type Stats struct {
	Bytes    int
	Messages int
	Dropped  int
	Damaged  int
}

// Reader yields messages decoded from an io.Reader. Spans that fail to
// parse are logged and counted but never stop the stream.
type Reader struct {
	id      string
	src     io.Reader
	dec     *protocol.Decoder
	chunk   []byte
	log     zerolog.Logger
	stats   Stats
	eof     bool
	flushed bool
}

func NewReader(src io.Reader, cfg Config) *Reader {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultConfig().ChunkSize
	}
	id := uuid.NewString()
	return &Reader{
		id:    id,
		src:   src,
		dec:   protocol.NewDecoder(cfg.Limits),
		chunk: make([]byte, cfg.ChunkSize),
		log:   logging.For("stream").With().Str("stream", id).Logger(),
	}
}

// ID identifies this stream in logs.
func (r *Reader) ID() string { return r.id }

func (r *Reader) Stats() Stats { return r.stats }

// ReadMessage returns the next message. At the end of input a final line
// without a trailing newline is still delivered. io.EOF follows once
// everything is consumed, or io.ErrUnexpectedEOF (wrapped) if an
// encapsulated payload was left open.
func (r *Reader) ReadMessage() (*protocol.Message, error) {
	for {
		if msg, ok := r.dec.Dequeue(); ok {
			r.stats.Messages++
			observability.RecordMessage()
			return msg, nil
		}
		if r.eof {
			if r.dec.Pending() > 0 && !r.flushed {
				r.flushed = true
				r.feed([]byte("\n"))
				continue
			}
			if pending := r.dec.Pending(); pending > 0 {
				r.dec.Reset()
				r.stats.Dropped++
				observability.RecordDropped("truncated")
				r.log.Warn().Int("pending", pending).Msg("input ended inside a message")
				return nil, fmt.Errorf("stream: %d bytes left unframed: %w", pending, io.ErrUnexpectedEOF)
			}
			return nil, io.EOF
		}

		n, err := r.src.Read(r.chunk)
		if n > 0 {
			r.stats.Bytes += n
			observability.RecordBytes(n)
			r.feed(r.chunk[:n])
		}
		if errors.Is(err, io.EOF) {
			r.eof = true
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("stream: read: %w", err)
		}
	}
}

// ReadAll drains the stream.
func (r *Reader) ReadAll() ([]*protocol.Message, error) {
	var out []*protocol.Message
	for {
		msg, err := r.ReadMessage()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, msg)
	}
}

func (r *Reader) feed(p []byte) {
	err := r.dec.Feed(string(p))
	for _, se := range protocol.SpanErrors(err) {
		if se.Dropped {
			r.stats.Dropped++
			observability.RecordDropped(dropReason(se.Err))
			r.log.Warn().Err(se.Err).Str("span", se.Span).Msg("message dropped")
			continue
		}
		r.stats.Damaged++
		observability.RecordDamaged()
		r.log.Debug().Err(se.Err).Str("span", se.Span).Msg("message kept with invalid values")
	}
}

func dropReason(err error) string {
	switch {
	case errors.Is(err, protocol.ErrBufferOverflow):
		return "overflow"
	case errors.Is(err, protocol.ErrMessageTooLarge):
		return "too_large"
	case errors.Is(err, protocol.ErrInvalidOperation):
		return "operation"
	case errors.Is(err, protocol.ErrInvalidObject):
		return "object"
	default:
		return "other"
	}
}
