// Package settings persists the user-adjustable clock configuration as
// a small YAML file. Writes are skipped when nothing changed, to spare
// the flash the clock typically runs from.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/quiffman/BulbdialClock/internal/clock"
)

// record is the on-disk form of clock.Config.
type record struct {
	MainBright   int    `yaml:"main_bright"`
	HourBright   int    `yaml:"hour_bright"`
	MinuteBright int    `yaml:"minute_bright"`
	SecondBright int    `yaml:"second_bright"`
	CCW          bool   `yaml:"ccw"`
	Fade         string `yaml:"fade"`
}

func newRecord(cfg clock.Config) record {
	return record{
		MainBright:   cfg.MainBright,
		HourBright:   int(cfg.HourBright),
		MinuteBright: int(cfg.MinuteBright),
		SecondBright: int(cfg.SecondBright),
		CCW:          cfg.CCW,
		Fade:         cfg.Fade.String(),
	}
}

// config validates the record and converts it. Any field outside its
// range fails the whole record; the caller falls back to defaults
// rather than repairing single fields.
func (r record) config() (clock.Config, error) {
	var zero clock.Config

	if r.MainBright < clock.MainBrightMin || r.MainBright > clock.MainBrightMax {
		return zero, fmt.Errorf("main_bright %d out of range", r.MainBright)
	}
	channels := []struct {
		name  string
		value int
	}{
		{"hour_bright", r.HourBright},
		{"minute_bright", r.MinuteBright},
		{"second_bright", r.SecondBright},
	}
	for _, ch := range channels {
		if ch.value < 0 || ch.value > clock.WeightMax {
			return zero, fmt.Errorf("%s %d out of range", ch.name, ch.value)
		}
	}
	fade, err := clock.ParseFadePolicy(r.Fade)
	if err != nil {
		return zero, err
	}

	return clock.Config{
		MainBright:   r.MainBright,
		HourBright:   uint8(r.HourBright),
		MinuteBright: uint8(r.MinuteBright),
		SecondBright: uint8(r.SecondBright),
		CCW:          r.CCW,
		Fade:         fade,
	}, nil
}

// Store reads and writes the settings file.
type Store struct {
	path string
	last *clock.Config
}

// NewStore creates a store for the given path. Nothing is read until
// Load.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the settings file. A missing file yields the factory
// defaults. A file that cannot be parsed, or that holds any
// out-of-range field, is discarded wholesale and yields the factory
// defaults too; the next save overwrites it.
func (s *Store) Load() clock.Config {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("settings: %s not found, using defaults", s.path)
		} else {
			log.Printf("settings: read %s: %v, using defaults", s.path, err)
		}
		return clock.DefaultConfig()
	}

	var r record
	if err := yaml.Unmarshal(b, &r); err != nil {
		log.Printf("settings: parse %s: %v, using defaults", s.path, err)
		return clock.DefaultConfig()
	}

	cfg, err := r.config()
	if err != nil {
		log.Printf("settings: %s: %v, using defaults", s.path, err)
		return clock.DefaultConfig()
	}

	s.last = &cfg
	return cfg
}

// Save writes cfg unless the file already holds it. It reports whether
// a write was issued.
func (s *Store) Save(cfg clock.Config) (bool, error) {
	if s.last != nil && *s.last == cfg {
		return false, nil
	}

	b, err := yaml.Marshal(newRecord(cfg))
	if err != nil {
		return false, fmt.Errorf("encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return false, fmt.Errorf("create settings dir: %w", err)
	}
	// Write then rename so a power cut mid-save never leaves a torn
	// file behind.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0644); err != nil {
		return false, fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return false, fmt.Errorf("rename %s: %w", tmp, err)
	}

	saved := cfg
	s.last = &saved
	return true, nil
}
