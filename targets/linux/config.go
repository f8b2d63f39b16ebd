//go:build linux && !tinygo

package main

import (
	"fmt"

	"github.com/aamcrae/config"

	appcfg "opencontrol/config"
)

// Daemon configuration, read from a section-style config file.
// Sample config:
//
//	[midi]
//	device=/dev/ttyAMA0      # serial MIDI out
//	channel=0
//	ccbase=16
//	scan=250                 # scan interval in microseconds
//
//	[encoder1]
//	pins=22,23               # GPIOs for channels A and B
//	ppr=24                   # detents per revolution
//	range=270                # usable span in degrees
//	ticks=4                  # quadrature ticks per detent
//	invert=true
//	mode=normalized          # normalized | raw | relative
type daemonConfig struct {
	Device string
	Cfg    *appcfg.Config
}

// loadConfig reads and validates the daemon config file. Encoder
// sections are numbered from 1 and must be contiguous.
func loadConfig(path string) (*daemonConfig, error) {
	conf, err := config.ParseFile(path)
	if err != nil {
		return nil, err
	}

	dc := &daemonConfig{Cfg: &appcfg.Config{}}

	m := conf.GetSection("midi")
	if m == nil {
		return nil, fmt.Errorf("no [midi] section")
	}
	dc.Device, err = m.GetArg("device")
	if err != nil {
		return nil, fmt.Errorf("midi device: %w", err)
	}
	var channel, ccbase, scan int
	if n, err := m.Parse("channel", "%d", &channel); err != nil || n != 1 {
		return nil, fmt.Errorf("midi channel: %v", err)
	}
	if n, err := m.Parse("ccbase", "%d", &ccbase); err != nil || n != 1 {
		return nil, fmt.Errorf("midi ccbase: %v", err)
	}
	if n, err := m.Parse("scan", "%d", &scan); err != nil || n != 1 {
		return nil, fmt.Errorf("midi scan: %v", err)
	}
	dc.Cfg.MIDIChannel = uint8(channel)
	dc.Cfg.CCBase = uint8(ccbase)
	dc.Cfg.ScanIntervalUS = uint32(scan)

	for i := 1; ; i++ {
		name := fmt.Sprintf("encoder%d", i)
		s := conf.GetSection(name)
		if s == nil {
			break
		}
		spec, err := parseEncoder(s, uint8(i))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		dc.Cfg.Encoders = append(dc.Cfg.Encoders, spec)
	}
	if len(dc.Cfg.Encoders) == 0 {
		return nil, fmt.Errorf("no encoder sections")
	}
	return dc, nil
}

func parseEncoder(s *config.Section, id uint8) (appcfg.EncoderSpec, error) {
	spec := appcfg.EncoderSpec{
		ID:            id,
		PulsesPerRev:  appcfg.DefaultPulsesPerRev,
		RangeAngle:    appcfg.DefaultRangeAngle,
		TicksPerEvent: appcfg.DefaultTicksPerEvent,
		Mode:          "normalized",
	}

	var pinA, pinB int
	if n, err := s.Parse("pins", "%d,%d", &pinA, &pinB); err != nil || n != 2 {
		return spec, fmt.Errorf("pins: %v", err)
	}
	spec.PinA = uint32(pinA)
	spec.PinB = uint32(pinB)

	var ppr, ticks int
	var rangeAngle float64
	if n, err := s.Parse("ppr", "%d", &ppr); err == nil && n == 1 {
		spec.PulsesPerRev = uint16(ppr)
	}
	if n, err := s.Parse("range", "%f", &rangeAngle); err == nil && n == 1 {
		spec.RangeAngle = float32(rangeAngle)
	}
	if n, err := s.Parse("ticks", "%d", &ticks); err == nil && n == 1 {
		spec.TicksPerEvent = uint8(ticks)
	}
	if v, err := s.GetArg("invert"); err == nil {
		spec.Invert = v == "true" || v == "1"
	}
	if v, err := s.GetArg("mode"); err == nil {
		spec.Mode = v
	}
	if _, err := appcfg.ParseMode(spec.Mode); err != nil {
		return spec, err
	}
	return spec, nil
}
