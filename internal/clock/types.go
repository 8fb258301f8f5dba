// Package clock holds the time model, LED geometry and fade logic for the
// bulbdial clock. Everything here is pure computation: callers feed in
// button samples and wall-clock instants, and get back a View describing
// which LEDs to light and how hard. No hardware access happens in this
// package.
package clock

// Ring identifies one of the three concentric LED rings.
type Ring int

const (
	RingHour Ring = iota
	RingMinute
	RingSecond
)

// Size returns the number of LEDs on the ring.
func (r Ring) Size() int {
	if r == RingHour {
		return 12
	}
	return 30
}

func (r Ring) String() string {
	switch r {
	case RingHour:
		return "hour"
	case RingMinute:
		return "minute"
	case RingSecond:
		return "second"
	}
	return "unknown"
}

// Line is a charlieplex drive line, numbered 1 through NumLines. Each LED
// sits between a distinct ordered pair of lines.
type Line uint8

// NumLines is the count of drive lines shared by all 72 LEDs.
const NumLines = 10

// Mode is the top-level state of the user interface.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSleep
	ModeAlign
	ModeOption
	ModeSetTime
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeSleep:
		return "sleep"
	case ModeAlign:
		return "align"
	case ModeOption:
		return "option"
	case ModeSetTime:
		return "settime"
	}
	return "unknown"
}

// Buttons is one debounced sample of the three front buttons.
type Buttons struct {
	Plus  bool
	Minus bool
	Z     bool
}

// Config is the set of user-adjustable settings that survive a power
// cycle.
type Config struct {
	MainBright   int
	HourBright   uint8
	MinuteBright uint8
	SecondBright uint8
	CCW          bool
	Fade         FadePolicy
}

// Brightness limits. MainBright scales every LED; the per-ring channels
// range over the full weight scale.
const (
	MainBrightMin = 1
	MainBrightMax = 8
	WeightMax     = 63
)

// DefaultConfig returns the factory settings.
func DefaultConfig() Config {
	return Config{
		MainBright:   MainBrightMax,
		HourBright:   30,
		MinuteBright: WeightMax,
		SecondBright: WeightMax,
		CCW:          false,
		Fade:         FadeClassicAdvance,
	}
}

// Hand is one ring's pair of adjacent LED positions: the one the hand is
// leaving and the one it is approaching. Positions count clockwise from
// the top of the ring.
type Hand struct {
	Current int
	Next    int
}

// Mirror reflects the hand for counter-clockwise display. Position zero
// is the mirror axis and maps to itself.
func (h Hand) Mirror(size int) Hand {
	return Hand{Current: mirrorPos(h.Current, size), Next: mirrorPos(h.Next, size)}
}

func mirrorPos(p, size int) int {
	if p == 0 {
		return 0
	}
	return size - p
}

// Weights is the fade split across a hand's two LEDs, each in
// [0, WeightMax].
type Weights struct {
	Current uint8
	Next    uint8
}

// SlotLight is one multiplexing slot: a line pair and the weight to show
// there. A zero weight means the slot is dark this frame.
type SlotLight struct {
	Hi     Line
	Lo     Line
	Weight uint8
}

// View is the engine's complete output for one frame. Slots hold up to
// two LEDs per ring in fixed positions; Channels carries the per-ring
// brightness and Global the master brightness, zero meaning blanked.
type View struct {
	Slots    [6]SlotLight
	Channels [3]uint8
	Global   uint8
}

// Slot layout inside View.Slots.
const (
	SlotHour = iota
	SlotHourNext
	SlotMinute
	SlotMinuteNext
	SlotSecond
	SlotSecondNext
)

func slotIndex(r Ring, next bool) int {
	i := int(r) * 2
	if next {
		i++
	}
	return i
}
