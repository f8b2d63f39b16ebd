//go:build teensy41

// OpenControl firmware entry for the Teensy 4.1 reference hardware.
// Acquisition is interrupt-fed: pin-change interrupts on the A/B
// channels run the decode-and-accumulate step, and the scan timer only
// drains completed logical events into MIDI.
package main

import (
	"machine"
	"time"

	"opencontrol/config"
	"opencontrol/core"
	"opencontrol/midi"
)

// Controller is package-global only because the interrupt handler has
// no other way to reach it; everything else is wired in main.
var ctrl *core.Controller

// isrSlot maps a physical pin pair to a controller slot for the
// pin-change handler.
type isrSlot struct {
	slot int
	pinA machine.Pin
	pinB machine.Pin
}

var isrSlots []isrSlot

// pinChange services one A/B edge. O(1) over a handful of encoders;
// nothing here blocks or allocates. Reads go through the registered
// driver, the same path Init used to seed the decoder state.
func pinChange(p machine.Pin) {
	gpio := core.MustGPIO()
	for i := range isrSlots {
		s := &isrSlots[i]
		if p == s.pinA || p == s.pinB {
			ctrl.Feed(s.slot, gpio.ReadPin(core.Pin(s.pinA)), gpio.ReadPin(core.Pin(s.pinB)))
			return
		}
	}
}

func main() {
	// Give USB a moment to enumerate before any output.
	time.Sleep(500 * time.Millisecond)

	core.SetDebugWriter(func(s string) { println(s) })
	core.SetDebugEnabled(true)

	cfg := config.DefaultConfig()
	defs, err := cfg.Definitions()
	if err != nil {
		halt(err)
	}

	gpio := machineGPIO{}
	core.SetGPIODriver(gpio)

	ctrl = core.NewController(defs, gpio)
	ctrl.EnableFeed()
	if err := ctrl.Init(); err != nil {
		halt(err)
	}

	binding := midi.NewCCBinding(cfg.MIDIChannel, cfg.CCBase, defs, midi.NewSender(machine.Serial))
	ctrl.SetCallback(binding.Handle)

	attachInterrupts()

	interval := core.TimerFromUS(cfg.ScanIntervalUS)
	scan := core.NewScanTimer(ctrl, interval)
	core.StartScan(scan, interval)

	start := time.Now()
	for {
		core.SetTime(uint32(time.Since(start).Microseconds()))
		core.ProcessTimers()
		time.Sleep(50 * time.Microsecond)
	}
}

// attachInterrupts registers the change handler on every encoder pin.
// Slots follow the controller's post-Init (ascending id) order.
func attachInterrupts() {
	isrSlots = make([]isrSlot, ctrl.NumEncoders())
	for i := 0; i < ctrl.NumEncoders(); i++ {
		def := ctrl.Def(i)
		s := isrSlot{
			slot: i,
			pinA: machine.Pin(def.PinA),
			pinB: machine.Pin(def.PinB),
		}
		isrSlots[i] = s
		if err := s.pinA.SetInterrupt(machine.PinToggle, pinChange); err != nil {
			halt(err)
		}
		if err := s.pinB.SetInterrupt(machine.PinToggle, pinChange); err != nil {
			halt(err)
		}
	}
}

// halt reports a fatal startup error and blinks the LED forever.
// Embedded posture: better a clearly dead board than one running with a
// half-configured control surface.
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
