package midi

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opencontrol/core"
)

func TestSendCCFraming(t *testing.T) {
	var buf bytes.Buffer
	s := NewSender(&buf)

	require.NoError(t, s.SendCC(0, 16, 127))
	assert.Equal(t, []byte{0xB0, 16, 127}, buf.Bytes())

	buf.Reset()
	require.NoError(t, s.SendCC(9, 74, 0))
	assert.Equal(t, []byte{0xB9, 74, 0}, buf.Bytes())
}

func TestSendCCValidation(t *testing.T) {
	s := NewSender(&bytes.Buffer{})

	assert.ErrorIs(t, s.SendCC(16, 0, 0), ErrChannelRange)
	assert.ErrorIs(t, s.SendCC(0, 128, 0), ErrDataRange)
	assert.ErrorIs(t, s.SendCC(0, 0, 200), ErrDataRange)
}

func TestStreamParserRoundTrip(t *testing.T) {
	var p StreamParser
	var got []Message
	for _, b := range []byte{0xB0, 16, 100, 0xB0, 17, 5} {
		if m, ok := p.Feed(b); ok {
			got = append(got, m)
		}
	}

	require.Len(t, got, 2)
	assert.True(t, got[0].IsCC())
	assert.Equal(t, uint8(0), got[0].Channel())
	assert.Equal(t, byte(16), got[0].Data1)
	assert.Equal(t, byte(100), got[0].Data2)
	assert.Equal(t, byte(17), got[1].Data1)
}

func TestStreamParserResyncAndRunningStatus(t *testing.T) {
	var p StreamParser
	var got []Message

	// Garbage, then a status byte, then running-status data pairs with a
	// realtime clock byte (0xF8) interleaved.
	stream := []byte{0x12, 0x34, 0xB2, 16, 60, 0xF8, 17, 61}
	for _, b := range stream {
		if m, ok := p.Feed(b); ok {
			got = append(got, m)
		}
	}

	require.Len(t, got, 2)
	assert.Equal(t, uint8(2), got[0].Channel())
	assert.Equal(t, byte(16), got[0].Data1)
	assert.Equal(t, byte(17), got[1].Data1, "running status reuses the last status byte")
}

func TestStreamParserSkipsSystemCommon(t *testing.T) {
	var p StreamParser
	var got []Message

	// Song Select (one data byte) must not be framed as a channel
	// message, and must not poison the CC that follows.
	stream := []byte{0xF3, 0x05, 0xB0, 16, 40}
	for _, b := range stream {
		if m, ok := p.Feed(b); ok {
			got = append(got, m)
		}
	}

	require.Len(t, got, 1)
	assert.True(t, got[0].IsCC())
	assert.Equal(t, byte(16), got[0].Data1)
	assert.Equal(t, byte(40), got[0].Data2)
}

func TestStreamParserSystemCommonCancelsRunningStatus(t *testing.T) {
	var p StreamParser
	var got []Message

	// Tune Request between CC messages: the data pair after it has no
	// status and must be dropped, not glued to the stale 0xB0.
	stream := []byte{0xB0, 16, 1, 0xF6, 17, 2, 0xB0, 18, 3}
	for _, b := range stream {
		if m, ok := p.Feed(b); ok {
			got = append(got, m)
		}
	}

	require.Len(t, got, 2)
	assert.Equal(t, byte(16), got[0].Data1)
	assert.Equal(t, byte(18), got[1].Data1)
}

func TestCCBindingNormalized(t *testing.T) {
	var buf bytes.Buffer
	b := &CCBinding{Channel: 0, CCBase: 16, Sender: NewSender(&buf)}

	b.Handle(1, 1.0)
	b.Handle(2, 0.5)
	b.Handle(1, 0.0)

	require.Equal(t, 9, buf.Len())
	msgs := buf.Bytes()
	assert.Equal(t, []byte{0xB0, 16, 127}, msgs[0:3])
	assert.Equal(t, []byte{0xB0, 17, 63}, msgs[3:6])
	assert.Equal(t, []byte{0xB0, 16, 0}, msgs[6:9])
}

func TestCCBindingRelative(t *testing.T) {
	var buf bytes.Buffer
	b := &CCBinding{Channel: 1, CCBase: 20, Modes: map[uint8]core.MapMode{1: core.ModeRelative}, Sender: NewSender(&buf)}

	b.Handle(1, 1)
	b.Handle(1, -1)

	msgs := buf.Bytes()
	require.Len(t, msgs, 6)
	assert.Equal(t, []byte{0xB1, 20, 65}, msgs[0:3])
	assert.Equal(t, []byte{0xB1, 20, 63}, msgs[3:6])
}

func TestCCBindingRawClamps(t *testing.T) {
	var buf bytes.Buffer
	b := &CCBinding{Channel: 0, CCBase: 16, Modes: map[uint8]core.MapMode{1: core.ModeRaw}, Sender: NewSender(&buf)}

	b.Handle(1, 300) // above CC range
	b.Handle(1, -5)  // below

	msgs := buf.Bytes()
	require.Len(t, msgs, 6)
	assert.Equal(t, byte(127), msgs[2])
	assert.Equal(t, byte(0), msgs[5])
}

func TestCCBindingIgnoresOutOfRangeCC(t *testing.T) {
	var buf bytes.Buffer
	b := &CCBinding{Channel: 0, CCBase: 127, Sender: NewSender(&buf)}

	b.Handle(2, 1.0) // CC would be 128
	b.Handle(0, 1.0) // id 0 is invalid

	assert.Zero(t, buf.Len())
}

func TestCCBindingPerEncoderModes(t *testing.T) {
	var buf bytes.Buffer
	defs := []core.EncoderDef{
		{ID: 1, Mode: core.ModeNormalized},
		{ID: 2, Mode: core.ModeRelative},
		{ID: 3, Mode: core.ModeRaw},
	}
	b := NewCCBinding(0, 16, defs, NewSender(&buf))

	b.Handle(1, 0.5) // normalized -> 63
	b.Handle(2, -1)  // relative -> 63, not a clamp to 0
	b.Handle(3, 100) // raw -> 100

	msgs := buf.Bytes()
	require.Len(t, msgs, 9)
	assert.Equal(t, []byte{0xB0, 16, 63}, msgs[0:3])
	assert.Equal(t, []byte{0xB0, 17, 63}, msgs[3:6])
	assert.Equal(t, []byte{0xB0, 18, 100}, msgs[6:9])
}
