package core

import (
	"testing"
)

func TestTimerDispatchOrder(t *testing.T) {
	ClearTimers()
	SetTime(0)

	var fired []int
	mk := func(n int, wake uint32) *Timer {
		return &Timer{
			WakeTime: wake,
			Handler: func(tm *Timer) uint8 {
				fired = append(fired, n)
				return SF_DONE
			},
		}
	}

	// Insert out of order; dispatch must be by wake time.
	ScheduleTimer(mk(3, 300))
	ScheduleTimer(mk(1, 100))
	ScheduleTimer(mk(2, 200))

	SetTime(150)
	ProcessTimers()
	if len(fired) != 1 || fired[0] != 1 {
		t.Fatalf("fired = %v, want [1]", fired)
	}

	SetTime(300)
	ProcessTimers()
	if len(fired) != 3 || fired[1] != 2 || fired[2] != 3 {
		t.Fatalf("fired = %v, want [1 2 3]", fired)
	}
}

func TestTimerReschedule(t *testing.T) {
	ClearTimers()
	SetTime(0)

	count := 0
	tm := &Timer{
		WakeTime: 10,
		Handler: func(tm *Timer) uint8 {
			count++
			if count == 3 {
				return SF_DONE
			}
			tm.WakeTime += 10
			return SF_RESCHEDULE
		},
	}
	ScheduleTimer(tm)

	SetTime(100)
	ProcessTimers()
	if count != 3 {
		t.Errorf("handler ran %d times, want 3", count)
	}
}

func TestTimerUnitConversion(t *testing.T) {
	if got := TimerFromUS(250); got != 250*(TimerFreq/1000000) {
		t.Errorf("TimerFromUS(250) = %d", got)
	}
	if got := TimerToUS(TimerFromUS(1234)); got != 1234 {
		t.Errorf("round trip = %d, want 1234", got)
	}
}

func TestScanTimerDrivesController(t *testing.T) {
	ClearTimers()
	SetTime(0)

	gpio := newMockGPIO()
	def := EncoderDef{ID: 1, PinA: 22, PinB: 23, PulsesPerRev: 24, RangeAngle: 270, TicksPerEvent: 1, Mode: ModeRaw}
	c := NewController([]EncoderDef{def}, gpio)
	if err := c.Init(); err != nil {
		t.Fatalf("Init() = %v", err)
	}
	events := 0
	c.SetCallback(func(id uint8, value float32) { events++ })

	interval := TimerFromUS(250)
	scan := NewScanTimer(c, interval)
	StartScan(scan, interval)

	// One valid edge per scan period.
	cycle := []uint8{0b00, 0b01, 0b11, 0b10}
	idx := 2 // idle high
	for i := 0; i < 4; i++ {
		idx = (idx + 1) % len(cycle)
		gpio.setState(&def, cycle[idx])
		SetTime(uint32(250 * (i + 1)))
		ProcessTimers()
	}

	if events != 4 {
		t.Errorf("scan loop emitted %d events, want 4", events)
	}

	ClearTimers()
}
