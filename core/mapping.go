// Tick-to-value mapping
package core

// MapValue converts per-encoder movement state into the callback payload.
//
// position is the absolute logical step count since Init, delta the signed
// step count of the event being emitted. The mode set is closed, so a
// plain switch is used instead of dynamic dispatch.
func MapValue(def *EncoderDef, position int32, delta int32) float32 {
	switch def.Mode {
	case ModeNormalized:
		limit := rangeSteps(def)
		if limit <= 0 {
			return 0
		}
		v := float32(position) / float32(limit)
		// Saturate, never wrap: a bounded knob must not exceed its
		// declared range even if ticks were mis-counted transiently.
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		return v
	case ModeRelative:
		return float32(delta)
	default: // ModeRaw
		return float32(position)
	}
}
