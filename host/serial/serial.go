package serial

import (
	"io"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - Mock serial (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate. USB CDC devices ignore this; wired serial MIDI runs
	// at the MIDI standard 31250.
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// MIDIBaud is the wire rate of a DIN serial MIDI connection.
const MIDIBaud = 31250

// DefaultConfig returns a default configuration for a USB CDC device.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200, // Ignored by USB CDC
		ReadTimeout: 100,    // 100ms read timeout
	}
}
