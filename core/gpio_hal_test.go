package core

import "testing"

func TestGPIODriverRegistration(t *testing.T) {
	prev := gpioDriver
	defer func() { gpioDriver = prev }()

	d := newMockGPIO()
	SetGPIODriver(d)
	if MustGPIO() != GPIODriver(d) {
		t.Fatalf("MustGPIO() did not return the registered driver")
	}

	d.pins[7] = true
	if !MustGPIO().ReadPin(7) {
		t.Errorf("ReadPin(7) = false through registered driver")
	}
}

func TestMustGPIOPanicsWhenUnset(t *testing.T) {
	prev := gpioDriver
	defer func() { gpioDriver = prev }()
	gpioDriver = nil

	defer func() {
		if recover() == nil {
			t.Errorf("MustGPIO() with no driver did not panic")
		}
	}()
	MustGPIO()
}
