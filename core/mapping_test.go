package core

import (
	"testing"
)

func TestMapNormalized(t *testing.T) {
	// 24 detents/rev over 270 degrees: 18 steps of usable travel.
	def := &EncoderDef{ID: 1, PulsesPerRev: 24, RangeAngle: 270, TicksPerEvent: 4, Mode: ModeNormalized}

	cases := []struct {
		position int32
		want     float32
	}{
		{0, 0.0},
		{9, 0.5},
		{18, 1.0},
		{19, 1.0},  // overshoot clamps
		{100, 1.0}, // never wraps
		{-1, 0.0},  // undershoot clamps
	}
	for _, c := range cases {
		if got := MapValue(def, c.position, 1); got != c.want {
			t.Errorf("MapValue(pos=%d) = %v, want %v", c.position, got, c.want)
		}
	}
}

func TestMapRawUnbounded(t *testing.T) {
	def := &EncoderDef{ID: 1, PulsesPerRev: 24, TicksPerEvent: 4, Mode: ModeRaw}

	for _, pos := range []int32{0, 1, -1, 500, -500, 100000} {
		if got := MapValue(def, pos, 1); got != float32(pos) {
			t.Errorf("MapValue(pos=%d) = %v, want %v", pos, got, float32(pos))
		}
	}
}

func TestMapRelativeReportsDelta(t *testing.T) {
	def := &EncoderDef{ID: 1, PulsesPerRev: 24, TicksPerEvent: 4, Mode: ModeRelative}

	if got := MapValue(def, 1000, 1); got != 1 {
		t.Errorf("relative delta +1 mapped to %v", got)
	}
	if got := MapValue(def, 1000, -1); got != -1 {
		t.Errorf("relative delta -1 mapped to %v", got)
	}
}
