package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Time          string       `json:"time"`
	Seconds       int          `json:"seconds"`
	Mode          string       `json:"mode"`
	SubState      int          `json:"sub_state,omitempty"`
	Unset         bool         `json:"unset"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	RTC           RTCJSON      `json:"rtc"`
	Serial        SerialJSON   `json:"serial"`
	Counts        CountsJSON   `json:"counts"`
	Settings      SettingsJSON `json:"settings"`
	Config        ConfigJSON   `json:"config"`
}

// RTCJSON reports hardware clock state.
type RTCJSON struct {
	Present bool `json:"present"`
}

// SerialJSON reports the serial time feed state.
type SerialJSON struct {
	Enabled bool   `json:"enabled"`
	Device  string `json:"device,omitempty"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Saves       int `json:"settings_saves"`
	Syncs       int `json:"serial_syncs"`
	Corrections int `json:"rtc_corrections"`
}

// SettingsJSON is the JSON representation of the display settings.
type SettingsJSON struct {
	MainBright   int    `json:"main_bright"`
	HourBright   int    `json:"hour_bright"`
	MinuteBright int    `json:"minute_bright"`
	SecondBright int    `json:"second_bright"`
	CCW          bool   `json:"ccw"`
	Fade         string `json:"fade"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs       int64  `json:"tick_ms"`
	DwellUnitUs  int64  `json:"dwell_unit_us"`
	Chip         string `json:"chip,omitempty"`
	SettingsPath string `json:"settings_path"`
	SerialDev    string `json:"serial_dev,omitempty"`
	HTTPAddr     string `json:"http_addr"`
	Sim          bool   `json:"sim,omitempty"`
}

// FormatJSON returns the JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	inner := StatusInner{
		Time:          snap.Clock(),
		Seconds:       snap.Seconds,
		Mode:          snap.Mode.String(),
		SubState:      snap.SubState,
		Unset:         snap.Unset,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		RTC:           RTCJSON{Present: snap.RTCPresent},
		Serial:        SerialJSON{Enabled: snap.SerialOn, Device: snap.Config.SerialDev},
		Counts: CountsJSON{
			Saves:       snap.Counts.Saves,
			Syncs:       snap.Counts.Syncs,
			Corrections: snap.Counts.Corrections,
		},
		Settings: SettingsJSON{
			MainBright:   snap.Settings.MainBright,
			HourBright:   int(snap.Settings.HourBright),
			MinuteBright: int(snap.Settings.MinuteBright),
			SecondBright: int(snap.Settings.SecondBright),
			CCW:          snap.Settings.CCW,
			Fade:         snap.Settings.Fade.String(),
		},
		Config: ConfigJSON{
			TickMs:       snap.Config.TickMs,
			DwellUnitUs:  snap.Config.DwellUnitUs,
			Chip:         snap.Config.Chip,
			SettingsPath: snap.Config.SettingsPath,
			SerialDev:    snap.Config.SerialDev,
			HTTPAddr:     snap.Config.HTTPAddr,
			Sim:          snap.Config.Sim,
		},
	}

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}
