// Cooperative timer scheduling for the acquisition loop
package core

// Timer represents a scheduled event
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
}

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

var (
	timerList   *Timer
	currentTime uint32
)

// ScheduleTimer adds a timer to the schedule
func ScheduleTimer(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	insertTimer(t)
}

// insertTimer inserts a timer in sorted order by WakeTime
func insertTimer(t *Timer) {
	if timerList == nil || t.WakeTime < timerList.WakeTime {
		t.Next = timerList
		timerList = t
		return
	}

	current := timerList
	for current.Next != nil && current.Next.WakeTime < t.WakeTime {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

// TimerDispatch processes due timers
func TimerDispatch() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for timerList != nil && timerList.WakeTime <= currentTime {
		timer := timerList
		timerList = timer.Next
		timer.Next = nil // Clear Next pointer to avoid circular references

		result := timer.Handler(timer)

		if result == SF_RESCHEDULE {
			insertTimer(timer)
		}
	}
}

// ClearTimers drops all scheduled timers (tests and target resets).
func ClearTimers() {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	timerList = nil
}

// NewScanTimer returns a timer that runs one controller Update pass
// every interval ticks. The handler reschedules relative to its own
// wake time, so scan spacing does not drift with dispatch latency.
func NewScanTimer(c *Controller, interval uint32) *Timer {
	t := &Timer{}
	t.Handler = func(tm *Timer) uint8 {
		c.Update()
		tm.WakeTime += interval
		return SF_RESCHEDULE
	}
	return t
}

// StartScan schedules t for its first wakeup, interval ticks from now.
func StartScan(t *Timer, interval uint32) {
	t.WakeTime = GetTime() + interval
	ScheduleTimer(t)
}
