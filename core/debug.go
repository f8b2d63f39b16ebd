package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TraceEvent captures an acquisition event for post-mortem analysis
type TraceEvent struct {
	EventType uint8  // Event type code
	ID        uint8  // Encoder id
	Clock     uint32 // System clock at event
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtEvent    = 1 // logical event emitted
	EvtPinFault = 2 // pin read failure (isolated)
	EvtBounce   = 3 // indeterminate transition rejected
)

const (
	TraceRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active.
	// Disabled by default; event dispatch timing must not depend on it.
	debugEnabled bool = false

	// Trace capture ring buffer (non-blocking, for post-mortem)
	traceRing     [TraceRingSize]TraceEvent
	traceRingHead uint8
	traceEnabled  bool = true
)

// SetDebugWriter sets the platform-specific debug output function.
// Targets redirect this to UART, USB CDC, or a host logger.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordTrace captures an acquisition event in the ring buffer.
// Always non-blocking; safe from the Update path.
func RecordTrace(eventType, id uint8, clock, value1, value2 uint32) {
	if !traceEnabled {
		return
	}
	idx := traceRingHead
	traceRing[idx] = TraceEvent{
		EventType: eventType,
		ID:        id,
		Clock:     clock,
		Value1:    value1,
		Value2:    value2,
	}
	traceRingHead = (idx + 1) % TraceRingSize
}

// DumpTraceRing outputs the trace ring buffer (call on shutdown/error).
// Not for time-critical paths.
func DumpTraceRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TRACE] === Encoder Trace Dump ===")

	start := traceRingHead
	for i := uint8(0); i < TraceRingSize; i++ {
		idx := (start + i) % TraceRingSize
		evt := &traceRing[idx]
		if evt.EventType == 0 {
			continue // Empty slot
		}

		var name string
		switch evt.EventType {
		case EvtEvent:
			name = "EVENT"
		case EvtPinFault:
			name = "PIN_FAULT"
		case EvtBounce:
			name = "BOUNCE"
		default:
			name = "UNKNOWN"
		}

		debugPrintln("[TRACE] " + name +
			" id=" + itoa(int(evt.ID)) +
			" clock=" + utoa(evt.Clock) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln("[TRACE] === End Dump ===")
}

// ClearTraceRing clears the trace buffer
func ClearTraceRing() {
	for i := range traceRing {
		traceRing[i] = TraceEvent{}
	}
	traceRingHead = 0
}
