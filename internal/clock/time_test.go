package clock

import "testing"

func TestTickWrapsAtHalfDay(t *testing.T) {
	var tm TimeModel
	for i := 0; i < HalfDay; i++ {
		tm.Tick()
		if s := tm.Seconds(); s < 0 || s >= HalfDay {
			t.Fatalf("tick %d: seconds %d out of range", i, s)
		}
	}
	if tm.Seconds() != 0 {
		t.Errorf("expected wrap back to 0 after a full half day, got %d", tm.Seconds())
	}
}

func TestTickSuppressedWhileHeld(t *testing.T) {
	var tm TimeModel
	tm.Set(100)

	tm.Hold(true)
	if !tm.Held() {
		t.Fatal("expected model to report held")
	}
	for i := 0; i < 5; i++ {
		tm.Tick()
	}
	if tm.Seconds() != 100 {
		t.Errorf("expected time frozen at 100 while held, got %d", tm.Seconds())
	}

	tm.Hold(false)
	tm.Tick()
	if tm.Seconds() != 101 {
		t.Errorf("expected tick to resume, got %d", tm.Seconds())
	}
}

func TestAdjustWraps(t *testing.T) {
	tests := []struct {
		name  string
		start int
		unit  Unit
		delta int
		want  int
	}{
		{"hour forward", 0, UnitHour, 1, 3600},
		{"hour backward across zero", 0, UnitHour, -1, HalfDay - 3600},
		{"hour forward across wrap", 11 * 3600, UnitHour, 2, 3600},
		{"minute forward", 0, UnitMinute, 1, 60},
		{"minute backward across zero", 30, UnitMinute, -1, HalfDay - 30},
		{"second forward", 0, UnitSecond, 1, 1},
		{"second backward across zero", 0, UnitSecond, -1, HalfDay - 1},
		{"second forward across wrap", HalfDay - 1, UnitSecond, 2, 1},
	}

	for _, tt := range tests {
		var tm TimeModel
		tm.Set(tt.start)
		tm.Adjust(tt.unit, tt.delta)
		if got := tm.Seconds(); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.want, got)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "12:00:00"},
		{59, "12:00:59"},
		{3600, "1:00:00"},
		{3661, "1:01:01"},
		{HalfDay - 1, "11:59:59"},
		{HalfDay + 5, "12:00:05"},
	}

	for _, tt := range tests {
		if got := FormatSeconds(tt.in); got != tt.want {
			t.Errorf("FormatSeconds(%d): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestSetNormalises(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 0},
		{HalfDay, 0},
		{HalfDay + 1, 1},
		{-1, HalfDay - 1},
		{2*HalfDay + 5, 5},
		{-HalfDay - 5, HalfDay - 5},
	}

	for _, tt := range tests {
		var tm TimeModel
		tm.Set(tt.in)
		if got := tm.Seconds(); got != tt.want {
			t.Errorf("Set(%d): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}
