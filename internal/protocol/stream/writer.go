package stream

import (
	"io"
	"sync"

	"github.com/danmuck/lwcp/internal/observability"
	"github.com/danmuck/lwcp/internal/protocol"
)

// Writer writes newline-terminated messages. Whole messages are written
// under a lock, so concurrent writers never interleave lines.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) WriteMessage(msg *protocol.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := protocol.Encode(w.w, msg); err != nil {
		return err
	}
	observability.RecordEncoded()
	return nil
}
