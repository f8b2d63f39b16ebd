//go:build rp2040

// OpenControl firmware entry for RP2040 boards (Pico and friends).
// Each encoder's A/B channels are captured by a PIO state machine; the
// main loop drains the sample FIFOs and forwards completed logical
// events as MIDI CC over USB.
package main

import (
	"machine"
	"time"

	"opencontrol/config"
	"opencontrol/core"
	"opencontrol/midi"
)

// Sample rate per encoder channel pair. 100kHz oversamples even a fast
// hand spin by two orders of magnitude.
const sampleHz = 100000

func main() {
	time.Sleep(500 * time.Millisecond)

	core.SetDebugWriter(func(s string) { println(s) })
	core.SetDebugEnabled(true)

	cfg := config.DefaultConfig()
	// Reference wiring on the Pico: consecutive pins per encoder, as
	// required by the PIO sampler.
	cfg.Encoders[0].PinA, cfg.Encoders[0].PinB = 2, 3
	cfg.Encoders[1].PinA, cfg.Encoders[1].PinB = 4, 5

	defs, err := cfg.Definitions()
	if err != nil {
		halt(err)
	}

	gpio := machineGPIO{}
	core.SetGPIODriver(gpio)

	ctrl := core.NewController(defs, gpio)
	ctrl.EnableFeed()
	if err := ctrl.Init(); err != nil {
		halt(err)
	}

	binding := midi.NewCCBinding(cfg.MIDIChannel, cfg.CCBase, defs, midi.NewSender(machine.Serial))
	ctrl.SetCallback(binding.Handle)

	samplers := make([]*PIOSampler, ctrl.NumEncoders())
	for i := 0; i < ctrl.NumEncoders(); i++ {
		def := ctrl.Def(i)
		if def.PinB != def.PinA+1 {
			halt(core.ErrInvalidDefinition)
		}
		s := NewPIOSampler(0, uint8(i), i, machine.Pin(def.PinA))
		if err := s.Init(sampleHz); err != nil {
			halt(err)
		}
		samplers[i] = s
	}

	interval := core.TimerFromUS(cfg.ScanIntervalUS)
	scan := core.NewScanTimer(ctrl, interval)
	core.StartScan(scan, interval)

	start := time.Now()
	for {
		core.SetTime(uint32(time.Since(start).Microseconds()))
		for _, s := range samplers {
			s.Drain(ctrl)
		}
		core.ProcessTimers()
		time.Sleep(50 * time.Microsecond)
	}
}

// halt reports a fatal startup error and blinks the LED forever.
func halt(err error) {
	core.DebugPrintln("init failed: " + err.Error())
	core.DumpTraceRing()
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		led.High()
		time.Sleep(100 * time.Millisecond)
		led.Low()
		time.Sleep(100 * time.Millisecond)
	}
}
