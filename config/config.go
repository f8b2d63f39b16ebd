// Package config loads the control surface configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"opencontrol/core"
)

// Defaults match the reference hardware: 24-detent encoders with a 270
// degree usable range and 4 quadrature ticks per detent.
const (
	DefaultPulsesPerRev   = 24
	DefaultRangeAngle     = 270
	DefaultTicksPerEvent  = 4
	DefaultScanIntervalUS = 250
	DefaultCCBase         = 16
)

var ErrBadMode = errors.New("config: unknown mapping mode")

// EncoderSpec is the on-disk form of one encoder definition.
type EncoderSpec struct {
	ID            uint8   `json:"id"`
	PinA          uint32  `json:"pin_a"`
	PinB          uint32  `json:"pin_b"`
	PulsesPerRev  uint16  `json:"ppr,omitempty"`
	RangeAngle    float32 `json:"range_angle,omitempty"`
	TicksPerEvent uint8   `json:"ticks_per_event,omitempty"`
	Invert        bool    `json:"invert,omitempty"`
	Mode          string  `json:"mode,omitempty"` // normalized|raw|relative
}

// Config is the full configuration for one control surface.
type Config struct {
	MIDIChannel    uint8         `json:"midi_channel"`
	CCBase         uint8         `json:"cc_base"`
	ScanIntervalUS uint32        `json:"scan_interval_us"`
	Encoders       []EncoderSpec `json:"encoders"`
}

// Load parses a JSON configuration and fills in missing values with
// sensible defaults.
func Load(jsonData []byte) (*Config, error) {
	var cfg Config

	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	// Fail early on mode typos instead of at controller Init.
	for i := range cfg.Encoders {
		if _, err := ParseMode(cfg.Encoders[i].Mode); err != nil {
			return nil, fmt.Errorf("encoder %d: %w", cfg.Encoders[i].ID, err)
		}
	}
	return &cfg, nil
}

// applyDefaults fills in missing configuration values
func applyDefaults(cfg *Config) {
	if cfg.CCBase == 0 {
		cfg.CCBase = DefaultCCBase
	}
	if cfg.ScanIntervalUS == 0 {
		cfg.ScanIntervalUS = DefaultScanIntervalUS
	}
	for i := range cfg.Encoders {
		e := &cfg.Encoders[i]
		if e.PulsesPerRev == 0 {
			e.PulsesPerRev = DefaultPulsesPerRev
		}
		if e.RangeAngle == 0 {
			e.RangeAngle = DefaultRangeAngle
		}
		if e.TicksPerEvent == 0 {
			e.TicksPerEvent = DefaultTicksPerEvent
		}
		if e.Mode == "" {
			e.Mode = "normalized"
		}
	}
}

// ParseMode converts a mode name to its core constant.
func ParseMode(s string) (core.MapMode, error) {
	switch s {
	case "normalized", "":
		return core.ModeNormalized, nil
	case "raw":
		return core.ModeRaw, nil
	case "relative":
		return core.ModeRelative, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadMode, s)
}

// Definitions converts the encoder specs into controller definitions.
func (c *Config) Definitions() ([]core.EncoderDef, error) {
	defs := make([]core.EncoderDef, 0, len(c.Encoders))
	for i := range c.Encoders {
		e := &c.Encoders[i]
		mode, err := ParseMode(e.Mode)
		if err != nil {
			return nil, fmt.Errorf("encoder %d: %w", e.ID, err)
		}
		defs = append(defs, core.EncoderDef{
			ID:            e.ID,
			PinA:          core.Pin(e.PinA),
			PinB:          core.Pin(e.PinB),
			PulsesPerRev:  e.PulsesPerRev,
			RangeAngle:    e.RangeAngle,
			TicksPerEvent: e.TicksPerEvent,
			Invert:        e.Invert,
			Mode:          mode,
		})
	}
	return defs, nil
}

// DefaultConfig returns the two-encoder reference layout (pins adapted
// per board in the target mains).
func DefaultConfig() *Config {
	return &Config{
		MIDIChannel:    0,
		CCBase:         DefaultCCBase,
		ScanIntervalUS: DefaultScanIntervalUS,
		Encoders: []EncoderSpec{
			{ID: 1, PinA: 22, PinB: 23, PulsesPerRev: 24, RangeAngle: 270, TicksPerEvent: 4, Invert: true, Mode: "normalized"},
			{ID: 2, PinA: 18, PinB: 19, PulsesPerRev: 24, RangeAngle: 270, TicksPerEvent: 4, Invert: true, Mode: "normalized"},
		},
	}
}
