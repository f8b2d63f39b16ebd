package core

// TimerFreq is the system tick rate. One tick per microsecond keeps the
// conversion helpers trivial and is well within every supported MCU.
const TimerFreq = 1000000

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return getSystemTicks()
}

// SetTime sets the current system time. Targets call this from their
// clock update; tests use it to drive the scheduler deterministically.
func SetTime(ticks uint32) {
	setSystemTicks(ticks)
}

// TimerFromUS converts microseconds to timer ticks
func TimerFromUS(us uint32) uint32 {
	return us * (TimerFreq / 1000000)
}

// TimerToUS converts timer ticks to microseconds
func TimerToUS(ticks uint32) uint32 {
	return ticks / (TimerFreq / 1000000)
}

// ProcessTimers runs all due scheduled timers. Called repeatedly from
// the target main loop.
func ProcessTimers() {
	currentTime = GetTime()
	TimerDispatch()
}
