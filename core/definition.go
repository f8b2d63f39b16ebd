// Encoder hardware definitions and validation
package core

import "errors"

// MapMode selects how accumulated movement becomes a callback value
type MapMode uint8

const (
	// ModeNormalized maps absolute position to [0.0, 1.0] over RangeAngle,
	// clamped at both ends (bounded, potentiometer-style knob)
	ModeNormalized MapMode = iota

	// ModeRaw reports the unbounded absolute step count
	ModeRaw

	// ModeRelative reports only the delta of each event (jog wheel)
	ModeRelative
)

// Validation and lifecycle errors
var (
	ErrDuplicateID        = errors.New("duplicate encoder id")
	ErrInvalidDefinition  = errors.New("invalid encoder definition")
	ErrAlreadyInitialized = errors.New("controller already initialized")
	ErrNotInitialized     = errors.New("controller not initialized")
	ErrUnknownEncoder     = errors.New("unknown encoder id")
)

// DefError wraps a controller error with the offending encoder id.
type DefError struct {
	ID  uint8
	Err error
}

func (e *DefError) Error() string {
	return "encoder " + itoa(int(e.ID)) + ": " + e.Err.Error()
}

func (e *DefError) Unwrap() error { return e.Err }

// EncoderDef describes one physical quadrature encoder.
// Pure configuration data: created once, never mutated.
type EncoderDef struct {
	ID            uint8   // Unique within a controller, non-zero
	PinA          Pin     // Quadrature channel A
	PinB          Pin     // Quadrature channel B
	PulsesPerRev  uint16  // Detents per revolution (physical resolution)
	RangeAngle    float32 // Usable angular span in degrees (normalized mode)
	TicksPerEvent uint8   // Raw quadrature ticks per logical event
	Invert        bool    // Flip decoded direction (per-hardware calibration)
	Mode          MapMode // Value mapping mode
}

// Validate checks a single definition for internal consistency.
// ID uniqueness across a controller is checked at Init.
func (d *EncoderDef) Validate() error {
	if d.ID == 0 {
		return &DefError{d.ID, ErrInvalidDefinition}
	}
	if d.TicksPerEvent < 1 || d.PulsesPerRev < 1 {
		return &DefError{d.ID, ErrInvalidDefinition}
	}
	if d.PinA == d.PinB {
		return &DefError{d.ID, ErrInvalidDefinition}
	}
	if d.Mode == ModeNormalized && !(d.RangeAngle > 0) {
		return &DefError{d.ID, ErrInvalidDefinition}
	}
	return nil
}

// rangeSteps returns the logical step count covering RangeAngle degrees.
// One logical step is one detent, i.e. 360/PulsesPerRev degrees.
func rangeSteps(d *EncoderDef) int32 {
	return int32(float32(d.PulsesPerRev) * d.RangeAngle / 360)
}
