package clock

import "time"

// Action is a side effect the engine wants performed. The engine never
// touches storage or buses itself; the caller collects the actions
// returned by Step and carries them out.
type Action int

const (
	// ActionSaveSettings asks for the current Config to be persisted.
	ActionSaveSettings Action = iota
	// ActionWriteRTC asks for the current time to be written to the
	// hardware clock. Requested once, on leaving set-time mode.
	ActionWriteRTC
	// ActionPollRTC asks for the current time to be checked against the
	// hardware clock. Requested as the in-memory time crosses a minute.
	ActionPollRTC
)

// Engine combines the time model, the mode state machine and the fade
// logic. Feed it button samples and wall-clock instants through Step;
// it returns the View to display and any Actions to perform. Not safe
// for concurrent use.
type Engine struct {
	tm  TimeModel
	cfg Config

	mode Mode
	sub  int

	prev      Buttons
	overPlus  bool
	overMinus bool
	overZ     bool

	holdPM int
	holdPZ int
	holdZ  int
	idle   int

	resetArmed  bool
	brightWrap  bool
	dirtyBright bool
	unset       bool

	alignPos  int
	alignRate int

	sweepPos  int
	sweepLeft int
	sweepMs   int

	blankMs int

	lastStep time.Time
	msAcc    int

	actions []Action
}

// NewEngine returns an engine in normal mode showing 12:00:00. The
// display blinks until a time arrives from a sync source or a button
// press, and a plus/minus hold before any other button activity
// restores factory settings.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:        cfg,
		mode:       ModeNormal,
		resetArmed: true,
		brightWrap: true,
		unset:      true,
	}
}

// SetBrightWrap selects whether the main brightness wraps around at the
// ends of its range or stops there.
func (e *Engine) SetBrightWrap(wrap bool) {
	e.brightWrap = wrap
}

// SyncTime overwrites the clock from an external source and stops the
// unset blink.
func (e *Engine) SyncTime(seconds int) {
	e.tm.Set(seconds)
	e.unset = false
}

// Seconds returns the current time in seconds since 12 o'clock.
func (e *Engine) Seconds() int { return e.tm.Seconds() }

// Mode returns the current top-level mode.
func (e *Engine) Mode() Mode { return e.mode }

// Sub returns the sub-state within the current mode, zero in normal
// and sleep modes.
func (e *Engine) Sub() int { return e.sub }

// Config returns the current settings.
func (e *Engine) Config() Config { return e.cfg }

// Unset reports whether the clock is still waiting for a first time.
func (e *Engine) Unset() bool { return e.unset }

// Step advances the engine to now with the given button sample and
// returns the frame to display plus any requested side effects. The
// returned slice is reused by the next call.
func (e *Engine) Step(now time.Time, sample Buttons) (View, []Action) {
	e.actions = e.actions[:0]

	if e.lastStep.IsZero() {
		e.lastStep = now
	}
	ms := int(now.Sub(e.lastStep) / time.Millisecond)
	if ms < 0 {
		ms = 0
		e.lastStep = now
	} else {
		e.lastStep = e.lastStep.Add(time.Duration(ms) * time.Millisecond)
	}

	e.handleEdges(sample)
	e.advance(ms, sample)
	return e.view(), e.actions
}

func (e *Engine) advance(ms int, sample Buttons) {
	if e.blankMs > 0 {
		e.blankMs -= ms
		if e.blankMs < 0 {
			e.blankMs = 0
		}
	}

	if e.sweepLeft > 0 {
		e.sweepMs += ms
		for e.sweepMs >= sweepStepMs && e.sweepLeft > 0 {
			e.sweepMs -= sweepStepMs
			e.sweepPos = (e.sweepPos + 1) % e.optionRing().Size()
			e.sweepLeft--
		}
	}

	e.msAcc += ms
	for e.msAcc >= 1000 {
		e.msAcc -= 1000
		e.secondTick(sample)
	}
}

// secondTick is the 1 Hz heartbeat: the time advances, hold counters
// run, and periodic housekeeping fires.
func (e *Engine) secondTick(sample Buttons) {
	e.tm.Hold(e.mode == ModeSetTime && e.sub == setSecondsBack)
	e.tm.Tick()

	if e.mode == ModeAlign && e.sub%2 == 1 {
		size := e.alignRing().Size()
		e.alignPos = ((e.alignPos+e.alignRate)%size + size) % size
	}

	e.tickHolds(sample)

	if sample == (Buttons{}) {
		if e.idle < idleMax {
			e.idle++
		}
		if e.idle == idleSaveAt && e.dirtyBright {
			e.save()
		}
	} else {
		e.idle = 0
	}

	if e.tm.Seconds()%60 == 0 && (e.mode == ModeNormal || e.mode == ModeSleep) {
		e.actions = append(e.actions, ActionPollRTC)
	}
}

// save requests persistence and blanks the display briefly so the user
// sees the save happen.
func (e *Engine) save() {
	e.actions = append(e.actions, ActionSaveSettings)
	e.blankMs = saveBlinkMs
	e.dirtyBright = false
}

func (e *Engine) view() View {
	var v View
	v.Channels = [3]uint8{e.cfg.HourBright, e.cfg.MinuteBright, e.cfg.SecondBright}
	v.Global = uint8(e.cfg.MainBright)

	if e.mode == ModeSleep || e.blankMs > 0 || (e.unset && e.tm.Seconds()%2 == 1) {
		v.Global = 0
		return v
	}

	if e.mode == ModeAlign {
		r := e.alignRing()
		hi, lo := LinePair(r, e.alignPos)
		v.Slots[slotIndex(r, false)] = SlotLight{Hi: hi, Lo: lo, Weight: WeightMax}
		return v
	}

	advance := e.cfg.Fade == FadeClassicAdvance && e.mode != ModeSetTime
	hour, minute, second := TimeHands(e.tm.Seconds(), advance)
	hw, mw, sw := fadeWeights(e.cfg.Fade, e.tm.Seconds(), e.msAcc)

	if e.mode == ModeOption && e.sub <= optSecond && e.sweepLeft > 0 {
		h := Hand{Current: e.sweepPos, Next: e.sweepPos}
		w := Weights{Current: WeightMax}
		switch e.optionRing() {
		case RingHour:
			hour, hw = h, w
		case RingMinute:
			minute, mw = h, w
		case RingSecond:
			second, sw = h, w
		}
	}

	if e.cfg.CCW {
		hour = hour.Mirror(12)
		minute = minute.Mirror(30)
		second = second.Mirror(30)
	}

	fillRing(&v, RingHour, hour, hw)
	fillRing(&v, RingMinute, minute, mw)
	fillRing(&v, RingSecond, second, sw)
	return v
}

func fillRing(v *View, r Ring, h Hand, w Weights) {
	hi, lo := LinePair(r, h.Current)
	v.Slots[slotIndex(r, false)] = SlotLight{Hi: hi, Lo: lo, Weight: w.Current}
	hi, lo = LinePair(r, h.Next)
	v.Slots[slotIndex(r, true)] = SlotLight{Hi: hi, Lo: lo, Weight: w.Next}
}
