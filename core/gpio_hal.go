package core

// Pin identifies a hardware GPIO pin number
type Pin uint32

// GPIODriver is the abstract GPIO interface that core code uses.
// Platform-specific implementations handle actual hardware access.
type GPIODriver interface {
	// ConfigureInputPullUp configures a pin as a digital input with pull-up resistor.
	// Encoder common pins are wired to ground, so idle channels read high.
	ConfigureInputPullUp(pin Pin) error

	// GetPin reads the current pin state
	GetPin(pin Pin) (bool, error)

	// ReadPin reads the current pin state, discarding errors.
	// For interrupt handlers, where there is no path to report a fault.
	ReadPin(pin Pin) bool
}

// Global driver used by target code that has no injection seam
// (pin-change interrupt handlers, debug tooling). The Controller itself
// takes its driver as a constructor argument.
var gpioDriver GPIODriver

// SetGPIODriver is called by target-specific code to register its driver.
func SetGPIODriver(d GPIODriver) {
	gpioDriver = d
}

// MustGPIO returns the configured driver or panics if missing.
func MustGPIO() GPIODriver {
	if gpioDriver == nil {
		panic("GPIO driver not configured")
	}
	return gpioDriver
}
