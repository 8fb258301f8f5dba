// Package status provides a thread-safe status tracker for the clock
// daemon. It is designed to be read by HTTP handlers.
package status

import (
	"sync"
	"time"

	"github.com/quiffman/BulbdialClock/internal/clock"
)

// Config contains daemon configuration for display.
type Config struct {
	TickMs       int64
	DwellUnitUs  int64
	Chip         string
	SettingsPath string
	SerialDev    string
	HTTPAddr     string
	Sim          bool
}

// Counts accumulates noteworthy events since startup.
type Counts struct {
	Saves       int
	Syncs       int
	Corrections int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Seconds    int
	Mode       clock.Mode
	SubState   int
	Settings   clock.Config
	Unset      bool
	RTCPresent bool
	SerialOn   bool
	Counts     Counts
	StartTime  time.Time
	Now        time.Time
	Config     Config
}

// Clock returns the displayed time as h:mm:ss.
func (s Snapshot) Clock() string {
	return clock.FormatSeconds(s.Seconds)
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the clock state shown by the status page.
// Called from runLoop on every tick.
func (t *Tracker) Update(seconds int, mode clock.Mode, sub int, settings clock.Config, unset bool) {
	t.mu.Lock()
	t.snap.Seconds = seconds
	t.snap.Mode = mode
	t.snap.SubState = sub
	t.snap.Settings = settings
	t.snap.Unset = unset
	t.mu.Unlock()
}

// SetRTCPresent records whether the hardware clock answered at startup.
func (t *Tracker) SetRTCPresent(present bool) {
	t.mu.Lock()
	t.snap.RTCPresent = present
	t.mu.Unlock()
}

// SetSerialOn records whether the serial time feed is open.
func (t *Tracker) SetSerialOn(on bool) {
	t.mu.Lock()
	t.snap.SerialOn = on
	t.mu.Unlock()
}

// CountSave increments the settings save counter.
func (t *Tracker) CountSave() {
	t.mu.Lock()
	t.snap.Counts.Saves++
	t.mu.Unlock()
}

// CountSync increments the serial sync counter.
func (t *Tracker) CountSync() {
	t.mu.Lock()
	t.snap.Counts.Syncs++
	t.mu.Unlock()
}

// CountCorrection increments the RTC correction counter.
func (t *Tracker) CountCorrection() {
	t.mu.Lock()
	t.snap.Counts.Corrections++
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
