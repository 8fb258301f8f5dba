package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quiffman/BulbdialClock/internal/clock"
)

func testPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "bulbdial.yaml")
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	s := NewStore(testPath(t))
	cfg := s.Load()
	if cfg != clock.DefaultConfig() {
		t.Errorf("expected factory defaults, got %+v", cfg)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := testPath(t)

	cfg := clock.Config{
		MainBright:   3,
		HourBright:   12,
		MinuteBright: 34,
		SecondBright: 56,
		CCW:          true,
		Fade:         clock.FadeContinuousLog,
	}

	wrote, err := NewStore(path).Save(cfg)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !wrote {
		t.Fatal("expected the first save to write")
	}

	got := NewStore(path).Load()
	if got != cfg {
		t.Errorf("round trip mismatch: expected %+v, got %+v", cfg, got)
	}
}

func TestSaveSkipsUnchanged(t *testing.T) {
	path := testPath(t)
	s := NewStore(path)

	cfg := clock.DefaultConfig()
	if wrote, err := s.Save(cfg); err != nil || !wrote {
		t.Fatalf("first save: wrote=%v err=%v", wrote, err)
	}

	// Second save of identical settings must not touch the file.
	if wrote, err := s.Save(cfg); err != nil {
		t.Fatalf("second save: %v", err)
	} else if wrote {
		t.Error("expected the unchanged save to be skipped")
	}

	cfg.MainBright = 2
	if wrote, err := s.Save(cfg); err != nil || !wrote {
		t.Fatalf("changed save: wrote=%v err=%v", wrote, err)
	}
}

func TestSaveAfterLoadIsNoOp(t *testing.T) {
	path := testPath(t)
	if _, err := NewStore(path).Save(clock.DefaultConfig()); err != nil {
		t.Fatalf("seed save: %v", err)
	}

	s := NewStore(path)
	cfg := s.Load()
	if wrote, err := s.Save(cfg); err != nil {
		t.Fatalf("save: %v", err)
	} else if wrote {
		t.Error("saving exactly what was loaded must not write")
	}
}

func TestLoadOutOfRangeResetsWholesale(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"main bright too high", "main_bright: 9\nhour_bright: 10\nminute_bright: 10\nsecond_bright: 10\nccw: true\nfade: classic\n"},
		{"main bright too low", "main_bright: 0\nhour_bright: 10\nminute_bright: 10\nsecond_bright: 10\nccw: true\nfade: classic\n"},
		{"channel too high", "main_bright: 4\nhour_bright: 64\nminute_bright: 10\nsecond_bright: 10\nccw: true\nfade: classic\n"},
		{"channel negative", "main_bright: 4\nhour_bright: 10\nminute_bright: -1\nsecond_bright: 10\nccw: true\nfade: classic\n"},
		{"unknown fade", "main_bright: 4\nhour_bright: 10\nminute_bright: 10\nsecond_bright: 10\nccw: true\nfade: sparkle\n"},
	}

	for _, tt := range tests {
		path := testPath(t)
		if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
			t.Fatalf("%s: write: %v", tt.name, err)
		}

		cfg := NewStore(path).Load()
		// The valid fields are discarded along with the bad one.
		if cfg != clock.DefaultConfig() {
			t.Errorf("%s: expected factory defaults, got %+v", tt.name, cfg)
		}
	}
}

func TestLoadCorruptFileReturnsDefaults(t *testing.T) {
	path := testPath(t)
	if err := os.WriteFile(path, []byte("{not yaml: ["), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := NewStore(path).Load()
	if cfg != clock.DefaultConfig() {
		t.Errorf("expected factory defaults, got %+v", cfg)
	}
}

func TestLoadAfterCorruptionAllowsRepair(t *testing.T) {
	path := testPath(t)
	if err := os.WriteFile(path, []byte("main_bright: 99\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewStore(path)
	cfg := s.Load()

	// Saving the defaults must actually write, replacing the bad file.
	if wrote, err := s.Save(cfg); err != nil || !wrote {
		t.Fatalf("repair save: wrote=%v err=%v", wrote, err)
	}

	if got := NewStore(path).Load(); got != clock.DefaultConfig() {
		t.Errorf("expected repaired defaults, got %+v", got)
	}
}
