package clock

import "fmt"

// HalfDay is the length of the clock's 12 hour cycle in seconds. All
// stored times live in [0, HalfDay).
const HalfDay = 12 * 60 * 60

// Unit selects which field a time adjustment applies to.
type Unit int

const (
	UnitHour Unit = iota
	UnitMinute
	UnitSecond
)

func (u Unit) seconds() int {
	switch u {
	case UnitHour:
		return 3600
	case UnitMinute:
		return 60
	}
	return 1
}

// TimeModel is the clock's notion of the current time: a second count
// within the half day, advanced by Tick unless held.
type TimeModel struct {
	seconds int
	held    bool
}

// Seconds returns the current time in seconds since 12 o'clock.
func (t *TimeModel) Seconds() int {
	return t.seconds
}

// Tick advances the time by one second, wrapping at the half day. While
// the model is held the tick is swallowed, which is how the set-time
// mode freezes the display between adjustments.
func (t *TimeModel) Tick() {
	if t.held {
		return
	}
	t.seconds = wrapSeconds(t.seconds + 1)
}

// Hold pauses or resumes the advance of time.
func (t *TimeModel) Hold(on bool) {
	t.held = on
}

// Held reports whether ticks are currently suppressed.
func (t *TimeModel) Held() bool {
	return t.held
}

// Adjust moves the time by delta units, wrapping in both directions:
// stepping minus at 12:00:00 lands on 11:59:59, never at a clamp.
func (t *TimeModel) Adjust(u Unit, delta int) {
	t.seconds = wrapSeconds(t.seconds + delta*u.seconds())
}

// Set replaces the time outright, normalising into [0, HalfDay).
func (t *TimeModel) Set(seconds int) {
	t.seconds = wrapSeconds(seconds)
}

func wrapSeconds(s int) int {
	s %= HalfDay
	if s < 0 {
		s += HalfDay
	}
	return s
}

// FormatSeconds renders a time on the dial as h:mm:ss, with the zero hour
// shown as 12 the way the face reads it.
func FormatSeconds(s int) string {
	s = wrapSeconds(s)
	h := s / 3600
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d:%02d", h, (s/60)%60, s%60)
}
