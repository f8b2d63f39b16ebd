//go:build !tinygo

// Encoder simulation harness
//
// Runs the full acquisition pipeline on the host against synthetic
// quadrature waveforms: a simulated GPIO driver replays scripted A/B
// states, the controller decodes and maps them, and the resulting CC
// traffic is counted instead of sent to hardware.
//
// Scenarios:
// - clean full sweep: four revolutions forward, value must ramp to 1.0
//   and clamp there
// - direction reversal: forward then back, position must return to zero
// - contact bounce: single-channel glitches injected between ticks
//   cancel in the accumulator and must not produce events
//
// Usage: go run ./test/simenc
package main

import (
	"fmt"
	"os"

	"opencontrol/config"
	"opencontrol/core"
	"opencontrol/midi"
)

// simGPIO replays scripted pin states. Writes go through setPins, the
// controller only ever reads.
type simGPIO struct {
	pins map[core.Pin]bool
}

func newSimGPIO() *simGPIO {
	return &simGPIO{pins: make(map[core.Pin]bool)}
}

func (s *simGPIO) ConfigureInputPullUp(pin core.Pin) error {
	s.pins[pin] = true // pull-up idle
	return nil
}

func (s *simGPIO) GetPin(pin core.Pin) (bool, error) {
	return s.pins[pin], nil
}

func (s *simGPIO) ReadPin(pin core.Pin) bool {
	return s.pins[pin]
}

func (s *simGPIO) setPins(def *core.EncoderDef, state uint8) {
	s.pins[def.PinA] = state&2 != 0
	s.pins[def.PinB] = state&1 != 0
}

// countingWriter tallies MIDI bytes instead of sending them.
type countingWriter struct {
	bytes    int
	messages int
	last     [3]byte
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.bytes += len(p)
	if len(p) == 3 {
		w.messages++
		copy(w.last[:], p)
	}
	return len(p), nil
}

// rig is one simulated encoder wired end to end.
type rig struct {
	gpio   *simGPIO
	ctrl   *core.Controller
	wire   *countingWriter
	def    *core.EncoderDef
	idx    int // position in the quadrature cycle
	events int
	values []float32
}

var cwCycle = [4]uint8{0b00, 0b01, 0b11, 0b10}

func newRig() (*rig, error) {
	cfg := config.DefaultConfig()
	cfg.Encoders = cfg.Encoders[:1]
	defs, err := cfg.Definitions()
	if err != nil {
		return nil, err
	}

	r := &rig{gpio: newSimGPIO(), wire: &countingWriter{}}
	r.ctrl = core.NewController(defs, r.gpio)
	if err := r.ctrl.Init(); err != nil {
		return nil, err
	}
	r.def = r.ctrl.Def(0)
	r.idx = 2 // pins idle high, init seeds state 0b11

	binding := midi.NewCCBinding(cfg.MIDIChannel, cfg.CCBase, defs, midi.NewSender(r.wire))
	r.ctrl.SetCallback(func(id uint8, value float32) {
		r.events++
		r.values = append(r.values, value)
		binding.Handle(id, value)
	})
	return r, nil
}

// rotate advances the encoder n quadrature ticks (negative for reverse),
// scanning after every edge.
func (r *rig) rotate(n int) {
	step := 1
	if n < 0 {
		step = -1
		n = -n
	}
	for i := 0; i < n; i++ {
		r.idx = (r.idx + step + 4) % 4
		r.gpio.setPins(r.def, cwCycle[r.idx])
		r.ctrl.Update()
	}
}

// bounce injects glitch pairs on channel A without advancing the cycle.
func (r *rig) bounce(n int) {
	a := r.gpio.pins[r.def.PinA]
	for i := 0; i < n; i++ {
		r.gpio.pins[r.def.PinA] = !a
		r.ctrl.Update()
		r.gpio.pins[r.def.PinA] = a
		r.ctrl.Update()
	}
}

func main() {
	fail := false

	// Clean full sweep: 24 ppr, 270 degrees, 4 ticks/detent. Four
	// revolutions is 384 ticks, far past the 18-step travel.
	r, err := newRig()
	if err != nil {
		fmt.Println("setup:", err)
		os.Exit(1)
	}
	r.rotate(-384) // reference config inverts direction
	fmt.Printf("sweep:    %d ticks -> %d events, %d cc messages\n",
		384, r.events, r.wire.messages)
	if r.events != 96 {
		fmt.Printf("  FAIL: want 96 events\n")
		fail = true
	}
	if last := r.values[len(r.values)-1]; last != 1.0 {
		fmt.Printf("  FAIL: final value %v, want 1.0\n", last)
		fail = true
	}
	for i := 1; i < len(r.values); i++ {
		if r.values[i] < r.values[i-1] {
			fmt.Printf("  FAIL: value regressed at event %d\n", i)
			fail = true
			break
		}
	}
	if r.wire.last != [3]byte{0xB0, 16, 127} {
		fmt.Printf("  FAIL: last message % X, want B0 10 7F\n", r.wire.last)
		fail = true
	}

	// Reversal: half travel forward, full travel back, value pins at 0.
	r, _ = newRig()
	r.rotate(-36)
	r.rotate(72)
	pos, _ := r.ctrl.Position(r.def.ID)
	fmt.Printf("reversal: 36 fwd, 72 back -> position %d, %d events\n",
		pos, r.events)
	if pos != 0 {
		fmt.Printf("  FAIL: position %d, want 0\n", pos)
		fail = true
	}
	if last := r.values[len(r.values)-1]; last != 0 {
		fmt.Printf("  FAIL: final value %v, want 0\n", last)
		fail = true
	}

	// Bounce: glitches alone must produce no events; ticks threaded
	// between glitches must still all land.
	r, _ = newRig()
	r.bounce(50)
	noiseOnly := r.events
	for i := 0; i < 8; i++ {
		r.rotate(-1)
		r.bounce(3)
	}
	fmt.Printf("bounce:   50 glitches -> %d events, 8 noisy ticks -> %d events\n",
		noiseOnly, r.events)
	if noiseOnly != 0 {
		fmt.Printf("  FAIL: glitches produced events\n")
		fail = true
	}
	if r.events != 2 {
		fmt.Printf("  FAIL: want 2 events from 8 ticks\n")
		fail = true
	}

	if fail {
		fmt.Println("FAIL")
		os.Exit(1)
	}
	fmt.Println("OK")
}
