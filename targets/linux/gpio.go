//go:build linux && !tinygo

package main

import (
	"fmt"

	gpio "github.com/aamcrae/gpio"

	"opencontrol/core"
)

// sysfsGPIO adapts the sysfs GPIO library to the core driver interface.
//
// Sysfs cannot program pad pulls, so the pull-up half of the contract
// has to come from the device tree overlay or external resistors; the
// configure call only exports the pin as an input.
type sysfsGPIO struct {
	pins map[core.Pin]*gpio.Gpio
}

func newSysfsGPIO() *sysfsGPIO {
	return &sysfsGPIO{pins: make(map[core.Pin]*gpio.Gpio)}
}

func (g *sysfsGPIO) ConfigureInputPullUp(pin core.Pin) error {
	if _, ok := g.pins[pin]; ok {
		return nil
	}
	p, err := gpio.Pin(int(pin))
	if err != nil {
		return fmt.Errorf("gpio%d: %w", pin, err)
	}
	g.pins[pin] = p
	return nil
}

func (g *sysfsGPIO) GetPin(pin core.Pin) (bool, error) {
	p, ok := g.pins[pin]
	if !ok {
		return false, fmt.Errorf("gpio%d: not configured", pin)
	}
	v, err := p.Get()
	return v != 0, err
}

func (g *sysfsGPIO) ReadPin(pin core.Pin) bool {
	v, _ := g.GetPin(pin)
	return v
}

// Close unexports every pin.
func (g *sysfsGPIO) Close() {
	for _, p := range g.pins {
		p.Close()
	}
}
