//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/quiffman/BulbdialClock/internal/clock"
)

// RealDriver drives the LED lines on actual hardware using the Linux
// GPIO character device. Idle lines are configured as inputs so they
// float; in a charlieplexed matrix only the driven pair may present a
// low impedance, or unrelated LEDs light up.
type RealDriver struct {
	chip   *gpiocdev.Chip
	lines  [clock.NumLines]*gpiocdev.Line
	active [2]*gpiocdev.Line
}

// NewRealDriver requests the given BCM pins as LED lines 1 through 10,
// all floating.
func NewRealDriver(chipName string, pins [clock.NumLines]int) (*RealDriver, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	d := &RealDriver{chip: chip}
	for i, pin := range pins {
		line, err := chip.RequestLine(pin, gpiocdev.AsInput)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("request line %d pin %d: %w", i+1, pin, err)
		}
		d.lines[i] = line
	}

	return d, nil
}

// Activate sources current from hi and sinks it into lo. Any pair
// still driven from the previous slot is released first.
func (d *RealDriver) Activate(hi, lo clock.Line) error {
	if err := d.AllOff(); err != nil {
		return err
	}

	hiLine := d.lines[hi-1]
	loLine := d.lines[lo-1]

	if err := hiLine.Reconfigure(gpiocdev.AsOutput(1)); err != nil {
		return fmt.Errorf("drive line %d high: %w", hi, err)
	}
	if err := loLine.Reconfigure(gpiocdev.AsOutput(0)); err != nil {
		hiLine.Reconfigure(gpiocdev.AsInput)
		return fmt.Errorf("drive line %d low: %w", lo, err)
	}

	d.active[0] = hiLine
	d.active[1] = loLine
	return nil
}

// AllOff returns the driven pair to floating inputs, darkening the
// whole matrix.
func (d *RealDriver) AllOff() error {
	var errs []error

	for i, line := range d.active {
		if line == nil {
			continue
		}
		if err := line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("release line: %w", err))
		}
		d.active[i] = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("all off errors: %v", errs)
	}
	return nil
}

// Close releases GPIO resources. Every line is reconfigured back to an
// input first so no LED is left lit across a shutdown or restart.
func (d *RealDriver) Close() error {
	var errs []error

	for i, line := range d.lines {
		if line == nil {
			continue
		}
		if err := line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure line %d: %w", i+1, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line %d: %w", i+1, err))
		}
		d.lines[i] = nil
	}
	if d.chip != nil {
		if err := d.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
		d.chip = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealButtons reads the front buttons from actual hardware.
type RealButtons struct {
	chip     *gpiocdev.Chip
	plusPin  *gpiocdev.Line
	minusPin *gpiocdev.Line
	zPin     *gpiocdev.Line
}

// NewRealButtons creates a button reader for actual hardware. The
// buttons short their pins to ground, so each pin gets a pull-up and
// reads active low.
func NewRealButtons(chipName string, pinPlus, pinMinus, pinZ int) (*RealButtons, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	plusLine, err := chip.RequestLine(pinPlus, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request plus pin %d: %w", pinPlus, err)
	}

	minusLine, err := chip.RequestLine(pinMinus, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		plusLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request minus pin %d: %w", pinMinus, err)
	}

	zLine, err := chip.RequestLine(pinZ, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		minusLine.Close()
		plusLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request z pin %d: %w", pinZ, err)
	}

	return &RealButtons{
		chip:     chip,
		plusPin:  plusLine,
		minusPin: minusLine,
		zPin:     zLine,
	}, nil
}

// Read returns the pressed state of each button.
// Inverts raw GPIO: raw low (0) = pressed, raw high (1) = released.
func (b *RealButtons) Read() (clock.Buttons, error) {
	plusRaw, err := b.plusPin.Value()
	if err != nil {
		return clock.Buttons{}, fmt.Errorf("read plus pin: %w", err)
	}

	minusRaw, err := b.minusPin.Value()
	if err != nil {
		return clock.Buttons{}, fmt.Errorf("read minus pin: %w", err)
	}

	zRaw, err := b.zPin.Value()
	if err != nil {
		return clock.Buttons{}, fmt.Errorf("read z pin: %w", err)
	}

	return clock.Buttons{
		Plus:  plusRaw == 0,
		Minus: minusRaw == 0,
		Z:     zRaw == 0,
	}, nil
}

// Close releases GPIO resources.
func (b *RealButtons) Close() error {
	var errs []error

	for _, line := range []*gpiocdev.Line{b.plusPin, b.minusPin, b.zPin} {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button pin: %w", err))
		}
	}
	if b.chip != nil {
		if err := b.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
