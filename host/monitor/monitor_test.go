package monitor

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptPort replays a fixed byte stream, then blocks until closed.
type scriptPort struct {
	data   []byte
	closed chan struct{}
}

func newScriptPort(data []byte) *scriptPort {
	return &scriptPort{data: data, closed: make(chan struct{})}
}

func (p *scriptPort) Read(b []byte) (int, error) {
	if len(p.data) == 0 {
		select {
		case <-p.closed:
			return 0, io.ErrClosedPipe
		case <-time.After(5 * time.Millisecond):
			return 0, io.EOF // read timeout on a quiet line
		}
	}
	n := copy(b, p.data)
	p.data = p.data[n:]
	return n, nil
}

func (p *scriptPort) Write(b []byte) (int, error) { return len(b), nil }

func (p *scriptPort) Close() error {
	select {
	case <-p.closed:
	default:
		close(p.closed)
	}
	return nil
}

func (p *scriptPort) Flush() error { return nil }

func collect(t *testing.T, m *Monitor, n int) []Event {
	t.Helper()
	var events []Event
	timeout := time.After(time.Second)
	for len(events) < n {
		select {
		case ev, ok := <-m.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatalf("timed out after %d/%d events", len(events), n)
		}
	}
	return events
}

func TestMonitorParsesCCStream(t *testing.T) {
	port := newScriptPort([]byte{
		0xB0, 16, 100,
		0xB0, 17, 42,
	})
	m := New(port)
	m.Start()
	defer m.Close()

	events := collect(t, m, 2)
	assert.Equal(t, uint8(16), events[0].CC)
	assert.Equal(t, uint8(100), events[0].Value)
	assert.Equal(t, uint8(17), events[1].CC)

	stats := m.Stats()
	assert.Equal(t, uint64(6), stats.Bytes)
	assert.Equal(t, uint64(2), stats.Messages)
}

func TestMonitorSkipsGarbageAndNonCC(t *testing.T) {
	port := newScriptPort([]byte{
		0x01, 0x02, // line noise before sync
		0x90, 60, 127, // note on: complete but not CC
		0xB3, 21, 64, // the one we want
	})
	m := New(port)
	m.Start()
	defer m.Close()

	events := collect(t, m, 1)
	require.Len(t, events, 1)
	assert.Equal(t, uint8(3), events[0].Channel)
	assert.Equal(t, uint8(21), events[0].CC)

	assert.Equal(t, uint64(1), m.Stats().Ignored)
}

func TestMonitorCloseEndsStream(t *testing.T) {
	port := newScriptPort(nil)
	m := New(port)
	m.Start()

	require.NoError(t, m.Close())

	select {
	case _, ok := <-m.Events():
		assert.False(t, ok, "event channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("event channel never closed")
	}
}
