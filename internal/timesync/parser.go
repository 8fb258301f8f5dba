// Package timesync sets the clock from a time feed on the serial port.
// The wire format is a single 255 header byte followed by ten ASCII
// digits of a Unix timestamp, and every accepted frame is echoed back
// as a readable confirmation line.
package timesync

import (
	"github.com/quiffman/BulbdialClock/internal/clock"
)

// SyncHeader opens a time frame on the wire.
const SyncHeader = 0xFF

// frameDigits is the fixed number of timestamp bytes after the header.
const frameDigits = 10

// Parser extracts time frames from a raw byte stream. Bytes outside a
// frame are discarded. Inside a frame a non digit byte contributes zero
// to the value rather than aborting the frame.
type Parser struct {
	inFrame bool
	digits  int
	value   uint64
}

// Feed consumes raw bytes and returns the dial seconds of every frame
// they complete.
func (p *Parser) Feed(data []byte) []int {
	var out []int
	for _, b := range data {
		if !p.inFrame {
			if b == SyncHeader {
				p.inFrame = true
				p.digits = 0
				p.value = 0
			}
			continue
		}
		p.value *= 10
		if b >= '0' && b <= '9' {
			p.value += uint64(b - '0')
		}
		p.digits++
		if p.digits == frameDigits {
			p.inFrame = false
			out = append(out, int(p.value%clock.HalfDay))
		}
	}
	return out
}
