package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opencontrol/core"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load([]byte(`{
		"midi_channel": 2,
		"encoders": [
			{"id": 1, "pin_a": 22, "pin_b": 23}
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, uint8(2), cfg.MIDIChannel)
	assert.Equal(t, uint8(DefaultCCBase), cfg.CCBase)
	assert.Equal(t, uint32(DefaultScanIntervalUS), cfg.ScanIntervalUS)

	require.Len(t, cfg.Encoders, 1)
	e := cfg.Encoders[0]
	assert.Equal(t, uint16(DefaultPulsesPerRev), e.PulsesPerRev)
	assert.Equal(t, float32(DefaultRangeAngle), e.RangeAngle)
	assert.Equal(t, uint8(DefaultTicksPerEvent), e.TicksPerEvent)
	assert.Equal(t, "normalized", e.Mode)
	assert.False(t, e.Invert)
}

func TestLoadRejectsBadMode(t *testing.T) {
	_, err := Load([]byte(`{
		"encoders": [{"id": 1, "pin_a": 4, "pin_b": 5, "mode": "bogus"}]
	}`))
	assert.ErrorIs(t, err, ErrBadMode)
}

func TestLoadRejectsBadJSON(t *testing.T) {
	_, err := Load([]byte(`{`))
	assert.Error(t, err)
}

func TestParseMode(t *testing.T) {
	cases := map[string]core.MapMode{
		"":           core.ModeNormalized,
		"normalized": core.ModeNormalized,
		"raw":        core.ModeRaw,
		"relative":   core.ModeRelative,
	}
	for s, want := range cases {
		got, err := ParseMode(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}
}

func TestDefinitionsConversion(t *testing.T) {
	cfg := DefaultConfig()
	defs, err := cfg.Definitions()
	require.NoError(t, err)
	require.Len(t, defs, 2)

	assert.Equal(t, uint8(1), defs[0].ID)
	assert.Equal(t, core.Pin(22), defs[0].PinA)
	assert.Equal(t, core.Pin(23), defs[0].PinB)
	assert.Equal(t, core.ModeNormalized, defs[0].Mode)
	assert.True(t, defs[0].Invert)

	// Defaults must survive a controller's own validation.
	gpio := fakeDriver{}
	c := core.NewController(defs, gpio)
	require.NoError(t, c.Init())
}

type fakeDriver struct{}

func (fakeDriver) ConfigureInputPullUp(pin core.Pin) error { return nil }
func (fakeDriver) GetPin(pin core.Pin) (bool, error)       { return true, nil }
func (fakeDriver) ReadPin(pin core.Pin) bool               { return true }
