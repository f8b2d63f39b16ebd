// Package midi implements the MIDI 1.0 byte layer used by the firmware.
// Only channel voice messages needed by the control surface are covered;
// framing is stateless (no running status on the send side).
package midi

import (
	"errors"
	"io"
)

// Status nibbles for channel voice messages
const (
	StatusNoteOff       = 0x80
	StatusNoteOn        = 0x90
	StatusControlChange = 0xB0
)

const (
	MaxChannel = 15  // Channels are 0-based on the wire
	MaxData    = 127 // Data bytes carry 7 bits
)

var (
	ErrChannelRange = errors.New("midi: channel out of range")
	ErrDataRange    = errors.New("midi: data byte out of range")
)

// Sender frames MIDI messages onto an io.Writer (a TinyGo machine.Serial,
// a host serial port, or a test buffer). The scratch buffer is reused so
// sending allocates nothing.
type Sender struct {
	w   io.Writer
	buf [3]byte
}

// NewSender creates a Sender writing to w.
func NewSender(w io.Writer) *Sender {
	return &Sender{w: w}
}

// SendCC emits a Control Change message.
func (s *Sender) SendCC(channel, cc, value uint8) error {
	if channel > MaxChannel {
		return ErrChannelRange
	}
	if cc > MaxData || value > MaxData {
		return ErrDataRange
	}
	s.buf[0] = StatusControlChange | channel
	s.buf[1] = cc
	s.buf[2] = value
	_, err := s.w.Write(s.buf[:])
	return err
}

// Message is one parsed 3-byte channel voice message.
type Message struct {
	Status byte
	Data1  byte
	Data2  byte
}

// IsCC reports whether the message is a Control Change.
func (m Message) IsCC() bool { return m.Status&0xF0 == StatusControlChange }

// Channel returns the 0-based channel of the message.
func (m Message) Channel() uint8 { return m.Status & 0x0F }

// StreamParser incrementally de-frames 3-byte channel messages from a
// raw byte stream. Leading garbage is discarded until a status byte is
// seen (the same resync-on-marker posture the firmware transport uses);
// running status is honored on the receive side.
type StreamParser struct {
	status byte
	data   [2]byte
	have   int
}

// Feed consumes one byte. When a complete message is assembled it is
// returned with ok=true.
func (p *StreamParser) Feed(b byte) (Message, bool) {
	if b >= 0xF8 {
		// System realtime bytes may appear anywhere; they never
		// disturb channel message assembly.
		return Message{}, false
	}
	if b >= 0xF0 {
		// System common messages have their own data lengths and also
		// cancel running status. Skip until the next channel status.
		p.status = 0
		p.have = 0
		return Message{}, false
	}
	if b&0x80 != 0 {
		p.status = b
		p.have = 0
		return Message{}, false
	}
	if p.status == 0 {
		// Garbage before the first status byte.
		return Message{}, false
	}
	p.data[p.have] = b
	p.have++
	if p.have < 2 {
		return Message{}, false
	}
	p.have = 0 // running status: keep p.status for the next message
	return Message{Status: p.status, Data1: p.data[0], Data2: p.data[1]}, true
}
