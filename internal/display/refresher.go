package display

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/quiffman/BulbdialClock/internal/clock"
	"github.com/quiffman/BulbdialClock/internal/gpio"
)

var (
	refreshPasses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refresh_passes",
		Help: "count of completed multiplexing passes over all six slots",
	})

	slotsLit = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slots_lit",
		Help: "count of slots driven across all passes",
	})

	lineDriveErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "line_drive_errors",
		Help: "count of errors reported by the LED line driver",
	})
)

// Refresher replays the latest frame against the line driver. The
// frame is swapped in whole under a lock so a pass never sees half of
// an update: each slot it lights belongs to one published frame.
type Refresher struct {
	driver gpio.LineDriver
	unit   time.Duration

	mu    sync.Mutex
	frame Frame
}

// New creates a Refresher that holds each slot lit for dwell*unit.
func New(driver gpio.LineDriver, unit time.Duration) *Refresher {
	return &Refresher{driver: driver, unit: unit}
}

// Publish replaces the frame shown by subsequent passes.
func (r *Refresher) Publish(f Frame) {
	r.mu.Lock()
	r.frame = f
	r.mu.Unlock()
}

// Pass performs one multiplexing pass: every nonzero slot is lit for
// its dwell and released, then the dark period runs. A drive error
// forces the matrix off and moves on to the next slot.
func (r *Refresher) Pass() {
	r.mu.Lock()
	f := r.frame
	r.mu.Unlock()

	lit := false
	for _, s := range f.Slots {
		if s.Dwell == 0 {
			continue
		}
		lit = true
		if err := r.driver.Activate(s.Hi, s.Lo); err != nil {
			lineDriveErrors.Inc()
			r.driver.AllOff()
			continue
		}
		slotsLit.Inc()
		time.Sleep(time.Duration(s.Dwell) * r.unit)
		if err := r.driver.AllOff(); err != nil {
			lineDriveErrors.Inc()
		}
	}

	if f.Dark > 0 {
		time.Sleep(time.Duration(f.Dark) * darkStretch * r.unit)
	} else if !lit {
		// Nothing to show and no dark period configured; pace the
		// loop anyway.
		time.Sleep(time.Duration(clock.MainBrightMax) * darkStretch * r.unit)
	}

	refreshPasses.Inc()
}

// Run repeats passes until the context is cancelled, then darkens the
// matrix.
func (r *Refresher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			r.driver.AllOff()
			return
		default:
		}
		r.Pass()
	}
}
