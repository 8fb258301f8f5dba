package clock

// Button identifiers for release dispatch.
const (
	btnPlus = iota
	btnMinus
	btnZ
)

// Align sub-states pair each ring with an auto-advancing and a manual
// variant: odd sub-states let plus/minus adjust the advance rate, even
// sub-states move the lit position directly.
const (
	alignSecondAuto   = 1
	alignSecondManual = 2
	alignMinuteAuto   = 3
	alignMinuteManual = 4
	alignHourAuto     = 5
	alignHourManual   = 6

	alignSubs = 6
)

// Option sub-states select which setting plus/minus edits. Entering
// one of the three channel sub-states sweeps the ring once so the user
// can see which ring is selected; the direction and fade sub-states
// leave the normal display up so their effect is directly visible.
const (
	optHour      = 1
	optMinute    = 2
	optSecond    = 3
	optDirection = 4
	optFade      = 5

	optSubs = 5
)

// Set-time sub-states. Seconds split into forward and backward
// variants because decrementing seconds also halts the tick, so the
// clock does not advance underneath the adjustment.
const (
	setHours       = 1
	setMinutes     = 2
	setSecondsFwd  = 3
	setSecondsBack = 4
)

const (
	holdTicks    = 3
	idleMax      = 250
	idleSaveAt   = 10
	alignRateMax = 5
	sweepStepMs  = 30
	saveBlinkMs  = 200
)

// handleEdges compares the sample against the previous one and
// dispatches release edges. Any fresh press also stops the unset blink.
func (e *Engine) handleEdges(sample Buttons) {
	if (sample.Plus && !e.prev.Plus) || (sample.Minus && !e.prev.Minus) || (sample.Z && !e.prev.Z) {
		e.unset = false
	}
	if e.prev.Plus && !sample.Plus {
		e.release(btnPlus)
	}
	if e.prev.Minus && !sample.Minus {
		e.release(btnMinus)
	}
	if e.prev.Z && !sample.Z {
		e.release(btnZ)
	}
	e.prev = sample
}

// release handles one button release. A release that ends a hold which
// already fired is consumed by its override flag instead of acting.
func (e *Engine) release(b int) {
	switch b {
	case btnPlus:
		if e.overPlus {
			e.overPlus = false
			return
		}
	case btnMinus:
		if e.overMinus {
			e.overMinus = false
			return
		}
	case btnZ:
		if e.overZ {
			e.overZ = false
			return
		}
	}

	e.resetArmed = false

	switch e.mode {
	case ModeSleep:
		e.mode = ModeNormal
	case ModeNormal:
		e.normalPress(b)
	case ModeAlign:
		e.alignPress(b)
	case ModeOption:
		e.optionPress(b)
	case ModeSetTime:
		e.setTimePress(b)
	}
}

func (e *Engine) normalPress(b int) {
	switch b {
	case btnPlus:
		e.bumpBright(1)
	case btnMinus:
		e.bumpBright(-1)
	case btnZ:
		e.mode = ModeSleep
	}
}

func (e *Engine) bumpBright(delta int) {
	next := e.cfg.MainBright + delta
	if e.brightWrap {
		if next > MainBrightMax {
			next = MainBrightMin
		} else if next < MainBrightMin {
			next = MainBrightMax
		}
	} else if next > MainBrightMax {
		next = MainBrightMax
	} else if next < MainBrightMin {
		next = MainBrightMin
	}
	if next != e.cfg.MainBright {
		e.cfg.MainBright = next
		e.dirtyBright = true
	}
}

func (e *Engine) alignPress(b int) {
	if b == btnZ {
		e.sub++
		if e.sub > alignSubs {
			e.sub = alignSecondAuto
		}
		e.alignPos = 0
		e.alignRate = 1
		return
	}
	delta := 1
	if b == btnMinus {
		delta = -1
	}
	if e.sub%2 == 1 {
		e.alignRate += delta
		if e.alignRate > alignRateMax {
			e.alignRate = alignRateMax
		} else if e.alignRate < -alignRateMax {
			e.alignRate = -alignRateMax
		}
		return
	}
	size := e.alignRing().Size()
	e.alignPos = ((e.alignPos+delta)%size + size) % size
}

func (e *Engine) optionPress(b int) {
	if b == btnZ {
		e.sub++
		if e.sub > optSubs {
			e.sub = optHour
		}
		if e.sub <= optSecond {
			e.startSweep()
		} else {
			e.stopSweep()
		}
		return
	}
	delta := 1
	if b == btnMinus {
		delta = -1
	}
	switch e.sub {
	case optHour:
		e.cfg.HourBright = bumpChannel(e.cfg.HourBright, delta)
	case optMinute:
		e.cfg.MinuteBright = bumpChannel(e.cfg.MinuteBright, delta)
	case optSecond:
		e.cfg.SecondBright = bumpChannel(e.cfg.SecondBright, delta)
	case optDirection:
		e.cfg.CCW = !e.cfg.CCW
	case optFade:
		n := (int(e.cfg.Fade)+delta)%numFadePolicies + numFadePolicies
		e.cfg.Fade = FadePolicy(n % numFadePolicies)
	}
}

func bumpChannel(v uint8, delta int) uint8 {
	next := int(v) + delta
	if next > WeightMax {
		return WeightMax
	}
	if next < 0 {
		return 0
	}
	return uint8(next)
}

func (e *Engine) setTimePress(b int) {
	if b == btnZ {
		if e.sub >= setSecondsFwd {
			e.sub = setHours
		} else {
			e.sub++
		}
		return
	}
	delta := 1
	if b == btnMinus {
		delta = -1
	}
	switch e.sub {
	case setHours:
		e.tm.Adjust(UnitHour, delta)
	case setMinutes:
		e.tm.Adjust(UnitMinute, delta)
	default:
		e.tm.Adjust(UnitSecond, delta)
		if delta < 0 {
			e.sub = setSecondsBack
		} else {
			e.sub = setSecondsFwd
		}
	}
}

// tickHolds classifies the held combination once per second and fires
// the matching one-shot when a counter reaches the threshold. Any
// combination outside the three recognised ones resets all counters.
func (e *Engine) tickHolds(sample Buttons) {
	pm := sample.Plus && sample.Minus && !sample.Z
	pz := sample.Plus && sample.Z && !sample.Minus
	z := sample.Z && !sample.Plus && !sample.Minus

	if pm {
		e.holdPM++
	} else {
		e.holdPM = 0
	}
	if pz {
		e.holdPZ++
	} else {
		e.holdPZ = 0
	}
	if z {
		e.holdZ++
	} else {
		e.holdZ = 0
	}

	if e.holdPM == holdTicks {
		e.fireAlignHold()
	}
	if e.holdPZ == holdTicks {
		e.fireOptionHold()
	}
	if e.holdZ == holdTicks {
		e.fireSetTimeHold()
	}
}

// fireAlignHold toggles align mode, except on a unit that has seen no
// other button activity since power-on, where it restores factory
// settings instead.
func (e *Engine) fireAlignHold() {
	e.overPlus = true
	e.overMinus = true
	armed := e.resetArmed
	e.resetArmed = false
	if armed {
		e.cfg = DefaultConfig()
		e.save()
		return
	}
	if e.mode == ModeAlign {
		e.mode = ModeNormal
		e.sub = 0
		return
	}
	e.enterAlign()
}

func (e *Engine) enterAlign() {
	e.mode = ModeAlign
	e.sub = alignSecondAuto
	e.alignPos = 0
	e.alignRate = 1
	e.stopSweep()
}

// fireOptionHold toggles option mode, saving settings on the way out.
func (e *Engine) fireOptionHold() {
	e.overPlus = true
	e.overZ = true
	e.resetArmed = false
	if e.mode == ModeOption {
		e.mode = ModeNormal
		e.sub = 0
		e.stopSweep()
		e.save()
		return
	}
	e.enterOption()
}

func (e *Engine) enterOption() {
	e.mode = ModeOption
	e.sub = optHour
	e.startSweep()
}

// fireSetTimeHold toggles set-time mode, pushing the adjusted time to
// the hardware clock on the way out.
func (e *Engine) fireSetTimeHold() {
	e.overZ = true
	e.resetArmed = false
	if e.mode == ModeSetTime {
		e.mode = ModeNormal
		e.sub = 0
		e.tm.Hold(false)
		e.actions = append(e.actions, ActionWriteRTC)
		return
	}
	e.enterSetTime()
}

func (e *Engine) enterSetTime() {
	e.mode = ModeSetTime
	e.sub = setHours
	e.stopSweep()
}

func (e *Engine) startSweep() {
	e.sweepPos = 0
	e.sweepLeft = e.optionRing().Size()
	e.sweepMs = 0
}

func (e *Engine) stopSweep() {
	e.sweepLeft = 0
}

func (e *Engine) optionRing() Ring {
	switch e.sub {
	case optMinute:
		return RingMinute
	case optSecond:
		return RingSecond
	}
	return RingHour
}

func (e *Engine) alignRing() Ring {
	switch (e.sub + 1) / 2 {
	case 2:
		return RingMinute
	case 3:
		return RingHour
	}
	return RingSecond
}
