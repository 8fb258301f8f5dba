// Package display turns the engine's per-frame view into timed LED
// line activations. Compose folds brightness and fade weights into
// dwell counts, and Refresher replays the resulting frame against the
// line driver over and over.
package display

import "github.com/quiffman/BulbdialClock/internal/clock"

// Slot is one multiplexing step: drive the Hi/Lo pair for Dwell dwell
// units, then release. A zero dwell skips the slot.
type Slot struct {
	Hi    clock.Line
	Lo    clock.Line
	Dwell uint8
}

// Frame is everything the refresher needs for one pass: six slots, two
// per ring, plus a trailing dark period implementing global dimming.
type Frame struct {
	Slots [6]Slot
	Dark  uint8
}

// darkStretch scales the dark period relative to a single dwell unit,
// sized so stepping the main brightness looks roughly even.
const darkStretch = 32

// Compose folds the view's channel brightness, fade weight and global
// brightness into one dwell count per slot. A blanked view becomes an
// all-dark frame.
func Compose(v clock.View) Frame {
	if v.Global == 0 {
		return Frame{Dark: clock.MainBrightMax}
	}

	var f Frame
	f.Dark = clock.MainBrightMax - v.Global
	for i, s := range v.Slots {
		f.Slots[i] = Slot{
			Hi:    s.Hi,
			Lo:    s.Lo,
			Dwell: dwell(v.Channels[i/2], s.Weight, v.Global),
		}
	}
	return f
}

// dwell computes channel * weight * global / 128, which tops out at
// 248 and so fits a byte. A lit LED never rounds down to fully off:
// anything nonzero gets at least one dwell unit.
func dwell(channel, weight, global uint8) uint8 {
	d := int(channel) * int(weight) * int(global) / 128
	if d == 0 && channel > 0 && weight > 0 {
		return 1
	}
	return uint8(d)
}
