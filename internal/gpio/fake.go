package gpio

import (
	"sync"

	"github.com/quiffman/BulbdialClock/internal/clock"
)

// FakeDriver is a test double that records every line operation. It is
// safe for use from a refresher goroutine while a test inspects it.
type FakeDriver struct {
	mu  sync.Mutex
	ops []Op

	// ActivateErr, if set, will be returned by Activate.
	ActivateErr error

	// Closed tracks if Close was called.
	Closed bool
}

// Op is one recorded driver call: either an activation of the Hi/Lo
// pair or, when Off is set, an AllOff.
type Op struct {
	Hi  clock.Line
	Lo  clock.Line
	Off bool
}

// NewFakeDriver creates an idle FakeDriver.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{}
}

// Activate records the driven pair.
func (f *FakeDriver) Activate(hi, lo clock.Line) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ActivateErr != nil {
		return f.ActivateErr
	}
	f.ops = append(f.ops, Op{Hi: hi, Lo: lo})
	return nil
}

// AllOff records the release.
func (f *FakeDriver) AllOff() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, Op{Off: true})
	return nil
}

// Close marks the driver as closed.
func (f *FakeDriver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// Ops returns a copy of the recorded operations.
func (f *FakeDriver) Ops() []Op {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Op(nil), f.ops...)
}

// Reset clears the recorded operations.
func (f *FakeDriver) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = nil
}

// FakeButtons is a test double that returns scripted button samples.
type FakeButtons struct {
	// Samples contains scripted samples to return.
	// Each call to Read() consumes the next sample.
	Samples []clock.Buttons

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeButtons creates a FakeButtons with the given samples.
func NewFakeButtons(samples []clock.Buttons) *FakeButtons {
	return &FakeButtons{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly. With
// no samples at all every button reads released.
func (f *FakeButtons) Read() (clock.Buttons, error) {
	if f.ReadError != nil {
		return clock.Buttons{}, f.ReadError
	}

	if len(f.Samples) == 0 {
		return clock.Buttons{}, nil
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Close marks the reader as closed.
func (f *FakeButtons) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeButtons) Reset() {
	f.index = 0
	f.Closed = false
}
