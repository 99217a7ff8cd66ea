package stream

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/lwcp/internal/protocol"
	"github.com/danmuck/lwcp/internal/testutil/testlog"
)

func TestReaderOneByteAtATime(t *testing.T) {
	testlog.Start(t)
	in := "call studio#room700.line#3 number=\"555-1234\", hybrid=false $ack\n" +
		"drop studio.line#3 data=%BeginEncap%\n%EndEncap%\n"
	r := NewReader(iotest.OneByteReader(strings.NewReader(in)), Config{ChunkSize: 1})

	msgs, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "call", msgs[0].Op())
	assert.Equal(t, "drop", msgs[1].Op())
	assert.Equal(t, Stats{Bytes: len(in), Messages: 2}, r.Stats())
	assert.NotEmpty(t, r.ID())
}

func TestReaderFlushesFinalLine(t *testing.T) {
	testlog.Start(t)
	r := NewReader(strings.NewReader("ping\npong"), DefaultConfig())
	msgs, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "pong", msgs[1].Op())
}

func TestReaderOpenEncapAtEOF(t *testing.T) {
	testlog.Start(t)
	r := NewReader(strings.NewReader("ping\nset a x=%BeginEncap%never closed\n"), DefaultConfig())

	msg, err := r.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "ping", msg.Op())

	_, err = r.ReadMessage()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, 1, r.Stats().Dropped)

	_, err = r.ReadMessage()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderCountsDroppedAndDamaged(t *testing.T) {
	testlog.Start(t)
	in := "9bad x\nset mixer gain=!!!\nget mixer\n"
	r := NewReader(strings.NewReader(in), DefaultConfig())
	msgs, err := r.ReadAll()
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
	stats := r.Stats()
	assert.Equal(t, 1, stats.Dropped)
	assert.Equal(t, 1, stats.Damaged)
}

func TestReaderSourceError(t *testing.T) {
	testlog.Start(t)
	boom := errors.New("boom")
	r := NewReader(iotest.ErrReader(boom), DefaultConfig())
	_, err := r.ReadMessage()
	assert.ErrorIs(t, err, boom)
}

func TestWriterRoundTrip(t *testing.T) {
	testlog.Start(t)
	msg, err := protocol.NewMessage("call")
	require.NoError(t, err)
	require.NoError(t, msg.AddObjectName("studio", "1"))
	require.NoError(t, msg.SetNative("number", "101"))

	var buf bytes.Buffer
	w := NewWriter(&buf)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, w.WriteMessage(msg))
		}()
	}
	wg.Wait()

	msgs, err := NewReader(&buf, DefaultConfig()).ReadAll()
	require.NoError(t, err)
	require.Len(t, msgs, 8)
	for _, m := range msgs {
		assert.Equal(t, `call studio#1 number="101"`, m.String())
	}
}
