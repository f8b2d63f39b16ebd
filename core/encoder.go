// Multi-encoder acquisition controller
package core

import "sort"

// Callback receives one logical encoder event.
// value is mode-dependent: [0,1] for normalized, step count for raw,
// signed delta for relative. Invoked synchronously from Update.
type Callback func(id uint8, value float32)

// encoderState is the mutable runtime state for one encoder.
//
// Owned exclusively by the Controller. When acquisition is interrupt-fed
// (Feed called from an ISR), lastState and acc are interrupt-shared and
// every multi-field access on the Update path runs inside a
// disableInterrupts critical section.
type encoderState struct {
	lastState uint8  // last observed 2-bit (A,B) sample
	acc       int16  // ticks accumulated since the last emitted event
	position  int32  // logical steps since Init
	faults    uint32 // pin read failures (isolated, non-fatal)
}

// Controller owns a fixed set of encoders and fans decoded changes out
// to a single registered callback. All per-call work is bounded and
// allocation-free; nothing is allocated after Init.
type Controller struct {
	defs        []EncoderDef
	state       []encoderState
	gpio        GPIODriver
	cb          Callback
	feed        bool // samples arrive via Feed, Update only drains
	initialized bool
}

// NewController creates a controller over the given definitions.
// The definition slice is copied; the driver is constructor-injected so
// the controller carries no hidden process-wide state.
func NewController(defs []EncoderDef, gpio GPIODriver) *Controller {
	c := &Controller{
		defs: append([]EncoderDef(nil), defs...),
		gpio: gpio,
	}
	return c
}

// SetCallback registers the change handler, replacing any previous one.
// A nil callback is allowed; dispatch becomes a no-op.
func (c *Controller) SetCallback(cb Callback) {
	c.cb = cb
}

// EnableFeed switches the controller to interrupt-fed acquisition:
// samples are pushed via Feed and Update only drains completed events.
// Must be called before Init.
func (c *Controller) EnableFeed() {
	c.feed = true
}

// Init validates all definitions, configures the A/B pins and seeds each
// encoder's last pin state from an initial read. Must be called exactly
// once before Update; on error the controller stays unusable and Update
// will never invoke the callback.
func (c *Controller) Init() error {
	if c.initialized {
		return ErrAlreadyInitialized
	}
	for i := range c.defs {
		if err := c.defs[i].Validate(); err != nil {
			return err
		}
		for j := 0; j < i; j++ {
			if c.defs[j].ID == c.defs[i].ID {
				return &DefError{c.defs[i].ID, ErrDuplicateID}
			}
		}
	}

	// Fixed deterministic processing order: ascending id.
	sort.Slice(c.defs, func(i, j int) bool { return c.defs[i].ID < c.defs[j].ID })

	c.state = make([]encoderState, len(c.defs))
	for i := range c.defs {
		def := &c.defs[i]
		if err := c.gpio.ConfigureInputPullUp(def.PinA); err != nil {
			return &DefError{def.ID, err}
		}
		if err := c.gpio.ConfigureInputPullUp(def.PinB); err != nil {
			return &DefError{def.ID, err}
		}
		a, err := c.gpio.GetPin(def.PinA)
		if err != nil {
			return &DefError{def.ID, err}
		}
		b, err := c.gpio.GetPin(def.PinB)
		if err != nil {
			return &DefError{def.ID, err}
		}
		c.state[i].lastState = PinState(a, b)
	}
	c.initialized = true
	return nil
}

// Update runs one acquisition pass: sample, decode and accumulate each
// encoder (unless interrupt-fed), then emit at most one logical event
// per encoder. Excess ticks carry over to the next call, bounding
// per-call callback latency.
func (c *Controller) Update() {
	if !c.initialized {
		return
	}
	for i := range c.defs {
		def := &c.defs[i]
		st := &c.state[i]
		if !c.feed {
			a, errA := c.gpio.GetPin(def.PinA)
			b, errB := c.gpio.GetPin(def.PinB)
			if errA != nil || errB != nil {
				// Isolated fault: skip this encoder for one cycle,
				// keep processing the rest.
				st.faults++
				RecordTrace(EvtPinFault, def.ID, GetTime(), uint32(st.faults), 0)
				continue
			}
			cur := PinState(a, b)
			is := disableInterrupts()
			d := DecodeStep(st.lastState, cur)
			if d == 0 && cur != st.lastState {
				// Both bits flipped within one sample interval.
				RecordTrace(EvtBounce, def.ID, GetTime(), uint32(st.lastState), uint32(cur))
			}
			st.acc += int16(d)
			st.lastState = cur
			restoreInterrupts(is)
		}
		c.drain(def, st)
	}
}

// Feed runs the decode-and-accumulate step for the encoder at slot i
// with a fresh (A,B) sample. Safe to call from a pin-change interrupt
// handler: O(1), no allocation, no locking (the ISR is the only writer).
func (c *Controller) Feed(i int, a, b bool) {
	if i < 0 || i >= len(c.state) {
		return
	}
	st := &c.state[i]
	cur := PinState(a, b)
	st.acc += int16(DecodeStep(st.lastState, cur))
	st.lastState = cur
}

// drain emits at most one logical event if enough ticks accumulated.
func (c *Controller) drain(def *EncoderDef, st *encoderState) {
	tpe := int16(def.TicksPerEvent)

	is := disableInterrupts()
	var dir int32
	if st.acc >= tpe {
		st.acc -= tpe
		dir = 1
	} else if st.acc <= -tpe {
		st.acc += tpe
		dir = -1
	}
	restoreInterrupts(is)
	if dir == 0 {
		return
	}
	if def.Invert {
		dir = -dir
	}

	pos := st.position + dir
	if def.Mode == ModeNormalized {
		// The physical knob is bounded; keep the tracked position inside
		// the declared range so transient mis-counts cannot offset it.
		if limit := rangeSteps(def); pos > limit {
			pos = limit
		} else if pos < 0 {
			pos = 0
		}
	}
	st.position = pos

	value := MapValue(def, pos, dir)
	RecordTrace(EvtEvent, def.ID, GetTime(), uint32(pos), uint32(int32(st.acc)))
	if c.cb != nil {
		c.cb(def.ID, value)
	}
}

// NumEncoders returns the number of configured encoders.
func (c *Controller) NumEncoders() int { return len(c.defs) }

// Def returns the definition at slot i (slots are in ascending-id order
// after Init).
func (c *Controller) Def(i int) *EncoderDef { return &c.defs[i] }

// Position returns the absolute logical step count for an encoder.
func (c *Controller) Position(id uint8) (int32, error) {
	st, err := c.lookup(id)
	if err != nil {
		return 0, err
	}
	return st.position, nil
}

// ResetPosition zeroes an encoder's absolute position and any partial
// tick accumulation.
func (c *Controller) ResetPosition(id uint8) error {
	st, err := c.lookup(id)
	if err != nil {
		return err
	}
	is := disableInterrupts()
	st.position = 0
	st.acc = 0
	restoreInterrupts(is)
	return nil
}

// Faults returns the pin read fault count for an encoder.
func (c *Controller) Faults(id uint8) (uint32, error) {
	st, err := c.lookup(id)
	if err != nil {
		return 0, err
	}
	return st.faults, nil
}

func (c *Controller) lookup(id uint8) (*encoderState, error) {
	if !c.initialized {
		return nil, ErrNotInitialized
	}
	for i := range c.defs {
		if c.defs[i].ID == id {
			return &c.state[i], nil
		}
	}
	return nil, &DefError{id, ErrUnknownEncoder}
}
