package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/quiffman/BulbdialClock/internal/clock"
)

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{TickMs: 10, Chip: "gpiochip0", SettingsPath: "/var/lib/bulbdial/settings.yaml", HTTPAddr: ":8080"}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.TickMs != 10 {
		t.Errorf("Config.TickMs: got %d, want 10", snap.Config.TickMs)
	}
	if snap.Config.HTTPAddr != ":8080" {
		t.Errorf("Config.HTTPAddr: got %q, want %q", snap.Config.HTTPAddr, ":8080")
	}
	if snap.RTCPresent {
		t.Error("expected RTCPresent=false initially")
	}
	if snap.SerialOn {
		t.Error("expected SerialOn=false initially")
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	settings := clock.DefaultConfig()
	settings.MainBright = 3
	tr.Update(3661, clock.ModeOption, 2, settings, true)

	snap := tr.Snapshot()
	if snap.Seconds != 3661 {
		t.Errorf("Seconds: got %d, want 3661", snap.Seconds)
	}
	if snap.Mode != clock.ModeOption {
		t.Errorf("Mode: got %v, want option", snap.Mode)
	}
	if snap.SubState != 2 {
		t.Errorf("SubState: got %d, want 2", snap.SubState)
	}
	if snap.Settings.MainBright != 3 {
		t.Errorf("Settings.MainBright: got %d, want 3", snap.Settings.MainBright)
	}
	if !snap.Unset {
		t.Error("expected Unset=true")
	}
}

func TestSetRTCPresent(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.SetRTCPresent(true)
	if !tr.Snapshot().RTCPresent {
		t.Error("expected RTCPresent=true")
	}

	tr.SetRTCPresent(false)
	if tr.Snapshot().RTCPresent {
		t.Error("expected RTCPresent=false")
	}
}

func TestSetSerialOn(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.SetSerialOn(true)
	if !tr.Snapshot().SerialOn {
		t.Error("expected SerialOn=true")
	}
}

func TestCounters(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.CountSave()
	tr.CountSave()
	tr.CountSync()
	tr.CountCorrection()

	counts := tr.Snapshot().Counts
	if counts.Saves != 2 {
		t.Errorf("Saves: got %d, want 2", counts.Saves)
	}
	if counts.Syncs != 1 {
		t.Errorf("Syncs: got %d, want 1", counts.Syncs)
	}
	if counts.Corrections != 1 {
		t.Errorf("Corrections: got %d, want 1", counts.Corrections)
	}
}

func TestSnapshotClock(t *testing.T) {
	snap := Snapshot{Seconds: 3661}
	if got := snap.Clock(); got != "1:01:01" {
		t.Errorf("Clock: got %q, want 1:01:01", got)
	}

	snap.Seconds = 0
	if got := snap.Clock(); got != "12:00:00" {
		t.Errorf("Clock at zero: got %q, want 12:00:00", got)
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		StartTime: start,
		Now:       start.Add(15 * time.Minute),
	}

	if snap.Uptime() != 15*time.Minute {
		t.Errorf("Uptime: got %v, want 15m", snap.Uptime())
	}
}

func TestSnapshotNowIsSet(t *testing.T) {
	tr := NewTracker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Config{})

	before := time.Now()
	snap := tr.Snapshot()
	after := time.Now()

	if snap.Now.Before(before) || snap.Now.After(after) {
		t.Errorf("Now (%v) not between %v and %v", snap.Now, before, after)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.Update(100, clock.ModeNormal, 0, clock.DefaultConfig(), false)

	snap1 := tr.Snapshot()

	tr.Update(200, clock.ModeSleep, 0, clock.DefaultConfig(), false)

	// snap1 should still reflect old state
	if snap1.Seconds != 100 {
		t.Error("snapshot should be a copy; Seconds was modified")
	}
	if snap1.Mode != clock.ModeNormal {
		t.Error("snapshot should be a copy; Mode was modified")
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	settings := clock.DefaultConfig()
	settings.MainBright = 5
	settings.CCW = true
	snap := Snapshot{
		Seconds:    3661,
		Mode:       clock.ModeNormal,
		Settings:   settings,
		RTCPresent: true,
		SerialOn:   true,
		Counts:     Counts{Saves: 3, Syncs: 2, Corrections: 1},
		StartTime:  start,
		Now:        start.Add(15 * time.Minute),
		Config:     Config{TickMs: 10, SerialDev: "/dev/ttyAMA0", SettingsPath: "settings.yaml", HTTPAddr: ":8080"},
	}

	data := FormatJSON(snap)

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.Time != "1:01:01" {
		t.Errorf("Time: got %q, want 1:01:01", parsed.Status.Time)
	}
	if parsed.Status.Seconds != 3661 {
		t.Errorf("Seconds: got %d, want 3661", parsed.Status.Seconds)
	}
	if parsed.Status.Mode != "normal" {
		t.Errorf("Mode: got %q, want normal", parsed.Status.Mode)
	}
	if parsed.Status.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", parsed.Status.UptimeSeconds)
	}
	if !parsed.Status.RTC.Present {
		t.Error("expected RTC.Present=true")
	}
	if !parsed.Status.Serial.Enabled {
		t.Error("expected Serial.Enabled=true")
	}
	if parsed.Status.Serial.Device != "/dev/ttyAMA0" {
		t.Errorf("Serial.Device: got %q, want /dev/ttyAMA0", parsed.Status.Serial.Device)
	}
	if parsed.Status.Counts.Saves != 3 {
		t.Errorf("Counts.Saves: got %d, want 3", parsed.Status.Counts.Saves)
	}
	if parsed.Status.Settings.MainBright != 5 {
		t.Errorf("Settings.MainBright: got %d, want 5", parsed.Status.Settings.MainBright)
	}
	if !parsed.Status.Settings.CCW {
		t.Error("expected Settings.CCW=true")
	}
	if parsed.Status.Settings.Fade != "classic-advance" {
		t.Errorf("Settings.Fade: got %q, want classic-advance", parsed.Status.Settings.Fade)
	}
	if parsed.Status.Config.TickMs != 10 {
		t.Errorf("Config.TickMs: got %d, want 10", parsed.Status.Config.TickMs)
	}
}

func TestFormatJSONOmitsSubStateWhenZero(t *testing.T) {
	snap := Snapshot{
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC),
	}

	data := FormatJSON(snap)

	// Verify "sub_state" is not in the raw JSON output
	var raw map[string]interface{}
	json.Unmarshal(data, &raw)
	st := raw["status"].(map[string]interface{})
	if _, exists := st["sub_state"]; exists {
		t.Error("sub_state should be omitted outside a sub-moded state")
	}
	if st["mode"] != "normal" {
		t.Errorf("mode: got %v, want normal", st["mode"])
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	var wg sync.WaitGroup

	// Writer
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tr.Update(i, clock.ModeNormal, 0, clock.DefaultConfig(), false)
			tr.SetRTCPresent(i%2 == 0)
			tr.CountSync()
		}
	}()

	// Reader
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := tr.Snapshot()
			_ = snap.Uptime()
		}
	}()

	wg.Wait()
}
