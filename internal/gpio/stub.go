//go:build !linux

package gpio

import (
	"errors"

	"github.com/quiffman/BulbdialClock/internal/clock"
)

// RealDriver is not available on non-Linux platforms.
type RealDriver struct{}

// NewRealDriver returns an error on non-Linux platforms.
func NewRealDriver(chipName string, pins [clock.NumLines]int) (*RealDriver, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Activate is not implemented on non-Linux platforms.
func (d *RealDriver) Activate(hi, lo clock.Line) error {
	return errors.New("gpio: not supported")
}

// AllOff is not implemented on non-Linux platforms.
func (d *RealDriver) AllOff() error {
	return errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (d *RealDriver) Close() error {
	return nil
}

// RealButtons is not available on non-Linux platforms.
type RealButtons struct{}

// NewRealButtons returns an error on non-Linux platforms.
func NewRealButtons(chipName string, pinPlus, pinMinus, pinZ int) (*RealButtons, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Read is not implemented on non-Linux platforms.
func (b *RealButtons) Read() (clock.Buttons, error) {
	return clock.Buttons{}, errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (b *RealButtons) Close() error {
	return nil
}
