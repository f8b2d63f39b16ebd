// Package monitor taps the MIDI byte stream coming back from a control
// surface and turns it into structured CC events for host tooling.
package monitor

import (
	"errors"
	"io"
	"sync/atomic"
	"time"

	"opencontrol/host/serial"
	"opencontrol/midi"
)

// Event is one Control Change observed on the wire.
type Event struct {
	Channel uint8
	CC      uint8
	Value   uint8
	When    time.Time
}

// Stats are cumulative stream counters.
type Stats struct {
	Bytes    uint64
	Messages uint64
	Ignored  uint64 // complete messages that were not CC
	Dropped  uint64 // events lost to a full consumer
}

// Monitor reads a serial port and publishes CC events on a channel.
type Monitor struct {
	port   serial.Port
	events chan Event
	done   chan struct{}

	bytes    atomic.Uint64
	messages atomic.Uint64
	ignored  atomic.Uint64
	dropped  atomic.Uint64
}

// New creates a monitor over an open port.
func New(port serial.Port) *Monitor {
	return &Monitor{
		port:   port,
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}
}

// Events returns the CC event stream. The channel closes when the port
// reader exits.
func (m *Monitor) Events() <-chan Event {
	return m.events
}

// Stats returns a snapshot of the stream counters.
func (m *Monitor) Stats() Stats {
	return Stats{
		Bytes:    m.bytes.Load(),
		Messages: m.messages.Load(),
		Ignored:  m.ignored.Load(),
		Dropped:  m.dropped.Load(),
	}
}

// Start launches the port reader goroutine.
func (m *Monitor) Start() {
	go m.readLoop()
}

// Close stops the reader and closes the underlying port.
func (m *Monitor) Close() error {
	select {
	case <-m.done:
	default:
		close(m.done)
	}
	return m.port.Close()
}

func (m *Monitor) readLoop() {
	defer close(m.events)

	var parser midi.StreamParser
	buf := make([]byte, 256)
	for {
		select {
		case <-m.done:
			return
		default:
		}

		n, err := m.port.Read(buf)
		if n > 0 {
			m.bytes.Add(uint64(n))
			for _, b := range buf[:n] {
				msg, ok := parser.Feed(b)
				if !ok {
					continue
				}
				m.messages.Add(1)
				if !msg.IsCC() {
					m.ignored.Add(1)
					continue
				}
				ev := Event{
					Channel: msg.Channel(),
					CC:      msg.Data1,
					Value:   msg.Data2,
					When:    time.Now(),
				}
				select {
				case m.events <- ev:
				default:
					m.dropped.Add(1)
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Read timeout on a quiet line; keep polling.
				continue
			}
			return
		}
	}
}
