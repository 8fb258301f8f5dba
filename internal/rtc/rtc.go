// Package rtc talks to a DS1307 real time clock over I2C. The chip keeps
// time across power loss, so the display can come back up showing the right
// time without waiting for a button press or a serial sync.
package rtc

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"

	"github.com/quiffman/BulbdialClock/internal/clock"
)

// DefaultAddr is the I2C bus address of the DS1307.
const DefaultAddr = 0x68

// Time registers, BCD encoded.
const (
	regSeconds = 0x00
	regMinutes = 0x01
	regHours   = 0x02
)

// Device reads and writes the battery-backed hardware clock.
type Device struct {
	dev   i2c.Dev
	first bool
}

// New returns a Device on the given bus at DefaultAddr.
func New(bus i2c.Bus) *Device {
	return &Device{dev: i2c.Dev{Bus: bus, Addr: DefaultAddr}, first: true}
}

// Correct reads the hardware clock and decides whether its time should
// replace current, both counted in seconds on the 12 hour dial. The first
// successful read is always accepted. After that, reads with the minutes
// register at zero are ignored so a correction never lands right on the
// hour rollover, and other reads are applied only when they disagree with
// current by more than two seconds.
func (d *Device) Correct(current int) (int, bool, error) {
	var buf [2]byte
	if err := d.dev.Tx([]byte{regMinutes}, buf[:]); err != nil {
		return 0, false, fmt.Errorf("read time registers: %w", err)
	}
	min := bcdToDec(buf[0] & 0x7f)
	hr := bcdToDec(buf[1] & 0x3f)
	if hr >= 12 {
		hr -= 12
	}
	derived := hr*3600 + min*60
	if d.first {
		d.first = false
		return derived, true, nil
	}
	if min == 0 {
		return current, false, nil
	}
	diff := derived - current
	if diff < 0 {
		diff = -diff
	}
	if diff <= 2 {
		return current, false, nil
	}
	return derived, true, nil
}

// Write stores seconds on the hardware clock. Writing plain BCD keeps the
// clock halt flag in the seconds register clear, so the oscillator keeps
// running, and leaves the hours register in 24 hour mode.
func (d *Device) Write(seconds int) error {
	seconds = ((seconds % clock.HalfDay) + clock.HalfDay) % clock.HalfDay
	w := []byte{
		regSeconds,
		decToBCD(seconds % 60),
		decToBCD((seconds / 60) % 60),
		decToBCD(seconds / 3600),
	}
	if err := d.dev.Tx(w, nil); err != nil {
		return fmt.Errorf("write time registers: %w", err)
	}
	return nil
}

func bcdToDec(x byte) int {
	return int(x) - 6*(int(x)>>4)
}

func decToBCD(x int) byte {
	return byte(x/10*16 + x%10)
}
