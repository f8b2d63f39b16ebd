//go:build rp2040

package main

import (
	"machine"

	"opencontrol/core"
)

// machineGPIO implements core.GPIODriver over the machine package.
type machineGPIO struct{}

func (machineGPIO) ConfigureInputPullUp(pin core.Pin) error {
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return nil
}

func (machineGPIO) GetPin(pin core.Pin) (bool, error) {
	return machine.Pin(pin).Get(), nil
}

func (machineGPIO) ReadPin(pin core.Pin) bool {
	return machine.Pin(pin).Get()
}
