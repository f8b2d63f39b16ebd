package midi

import "opencontrol/core"

// RelativeCenter is the conventional center value for relative CC:
// 64 means no movement, 65 one step up, 63 one step down.
const RelativeCenter = 64

// CCBinding maps encoder events onto Control Change messages. It holds
// only the data it needs - channel, CC base, per-encoder modes and the
// sender - so there is no hidden lifetime coupling to any application
// context object.
//
// Encoder id N drives controller CCBase+N-1; ids are 1-based.
type CCBinding struct {
	Channel uint8
	CCBase  uint8
	Modes   map[uint8]core.MapMode // encoder id -> mapping mode
	Sender  *Sender
}

// NewCCBinding builds a binding whose value scaling follows each
// encoder's own mapping mode.
func NewCCBinding(channel, ccBase uint8, defs []core.EncoderDef, sender *Sender) *CCBinding {
	modes := make(map[uint8]core.MapMode, len(defs))
	for i := range defs {
		modes[defs[i].ID] = defs[i].Mode
	}
	return &CCBinding{
		Channel: channel,
		CCBase:  ccBase,
		Modes:   modes,
		Sender:  sender,
	}
}

// Handle is the controller callback. Value scaling follows the emitting
// encoder's mapping mode: normalized values span 0..127, raw counts
// clamp into 0..127, relative deltas are sent 64-centered.
func (b *CCBinding) Handle(id uint8, value float32) {
	if id == 0 {
		return
	}
	cc := uint16(b.CCBase) + uint16(id) - 1
	if cc > MaxData {
		return
	}

	var out int32
	switch b.Modes[id] {
	case core.ModeRelative:
		out = RelativeCenter + int32(value)
	case core.ModeRaw:
		out = int32(value)
	default: // core.ModeNormalized
		out = int32(value * MaxData)
	}
	if out < 0 {
		out = 0
	} else if out > MaxData {
		out = MaxData
	}

	// Send errors are swallowed here: the callback runs inside the
	// acquisition pass and a stalled transport must not break it.
	_ = b.Sender.SendCC(b.Channel, uint8(cc), uint8(out))
}
