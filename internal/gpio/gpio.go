// Package gpio drives the charlieplexed LED lines and reads the front
// panel buttons with hardware abstraction.
// The real implementations use the Linux GPIO character device.
// The fake implementations allow testing without hardware.
package gpio

import "github.com/quiffman/BulbdialClock/internal/clock"

// LineDriver controls the ten shared LED lines. At most one line pair
// is driven at a time; all other lines float.
type LineDriver interface {
	// Activate drives hi as the high side and lo as the low side,
	// lighting the single LED wired between them.
	Activate(hi, lo clock.Line) error

	// AllOff releases every driven line. Safe to call repeatedly.
	AllOff() error

	// Close releases GPIO resources.
	Close() error
}

// ButtonReader reads the three front buttons.
type ButtonReader interface {
	// Read returns the pressed state of each button.
	// The raw GPIO values are inverted: the buttons short to ground,
	// so raw low = pressed.
	Read() (clock.Buttons, error)

	// Close releases GPIO resources.
	Close() error
}

// Pin definitions (BCM numbering)

// DefaultLinePins maps LED lines 1..10 to their BCM pins.
var DefaultLinePins = [clock.NumLines]int{17, 27, 22, 10, 9, 11, 5, 6, 13, 19}

const (
	PinPlus  = 20
	PinMinus = 21
	PinZ     = 26
)
