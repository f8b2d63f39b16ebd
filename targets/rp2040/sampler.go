//go:build rp2040

package main

// PIO-based quadrature sampling
// One state machine per encoder captures both channels at a fixed rate;
// the CPU never touches a pin, it only drains the RX FIFO.

import (
	"errors"
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"opencontrol/core"
)

// buildSamplerProgram creates the sampling PIO program: a single
// "in pins, 2" wrapped on itself. With autopush at 32 bits, every RX
// word carries 16 consecutive 2-bit samples taken at the divided clock.
func buildSamplerProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.In(rp2pio.InSrcPins, 2).Encode(), // 0: in pins, 2
		// .wrap
	}
}

const samplerOrigin = 0 // Single instruction, offset is irrelevant but fixed

// PIOSampler captures quadrature samples for one encoder. The A/B
// channels must sit on consecutive GPIOs (A = base, B = base+1).
type PIOSampler struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	slot   int
	pinA   machine.Pin
	offset uint8
}

// NewPIOSampler creates a sampler on the given PIO block/state machine
// for the controller slot whose channel A is pinA.
func NewPIOSampler(pioNum, smNum uint8, slot int, pinA machine.Pin) *PIOSampler {
	var pioHW *rp2pio.PIO
	if pioNum == 0 {
		pioHW = rp2pio.PIO0
	} else {
		pioHW = rp2pio.PIO1
	}

	return &PIOSampler{
		pio:  pioHW,
		sm:   pioHW.StateMachine(smNum),
		slot: slot,
		pinA: pinA,
	}
}

// Init loads the program and starts free-running capture at sampleHz.
func (s *PIOSampler) Init(sampleHz uint32) error {
	if sampleHz == 0 {
		return errors.New("sample rate must be non-zero")
	}

	s.sm.TryClaim()

	program := buildSamplerProgram()
	offset, err := s.pio.AddProgram(program, samplerOrigin)
	if err != nil {
		return err
	}
	s.offset = offset

	// Pull-ups first: pad pulls survive the function select change to PIO.
	pinB := s.pinA + 1
	s.pinA.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	pinB.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	s.pinA.Configure(machine.PinConfig{Mode: s.pio.PinMode()})
	pinB.Configure(machine.PinConfig{Mode: s.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetInPins(s.pinA)

	// Shift left so the oldest sample ends up in the highest bits;
	// autopush once 16 samples (32 bits) have accumulated.
	cfg.SetInShift(false, true, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)

	// One instruction per sample: divider = sysclk / rate.
	div := machine.CPUFrequency() / sampleHz
	if div < 1 {
		div = 1
	}
	cfg.SetClkDivIntFrac(uint16(div), 0)

	s.sm.Init(offset, cfg)
	s.sm.SetPindirsConsecutive(s.pinA, 2, false) // both channels are inputs
	s.sm.SetEnabled(true)

	return nil
}

// Drain pushes every captured sample through the controller's
// decode-and-accumulate path. Bounded by FIFO depth, no allocation.
func (s *PIOSampler) Drain(c *core.Controller) {
	for !s.sm.IsRxFIFOEmpty() {
		word := s.sm.RxGet()
		// Oldest sample sits at bits 31:30. "in pins" places the base
		// pin (channel A) in the low bit of each 2-bit sample.
		for shift := 30; shift >= 0; shift -= 2 {
			sample := uint8(word>>uint(shift)) & 3
			c.Feed(s.slot, sample&1 != 0, sample&2 != 0)
		}
	}
}

// Stop halts capture and flushes pending samples.
func (s *PIOSampler) Stop() {
	s.sm.SetEnabled(false)
	s.sm.ClearFIFOs()
}
