package display

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quiffman/BulbdialClock/internal/clock"
	"github.com/quiffman/BulbdialClock/internal/gpio"
)

func TestPassActivatesEachLitSlotThenReleases(t *testing.T) {
	driver := gpio.NewFakeDriver()
	r := New(driver, 0)

	var f Frame
	f.Slots[0] = Slot{Hi: 8, Lo: 9, Dwell: 63}
	f.Slots[2] = Slot{Hi: 4, Lo: 9, Dwell: 10}
	r.Publish(f)

	r.Pass()

	want := []gpio.Op{
		{Hi: 8, Lo: 9},
		{Off: true},
		{Hi: 4, Lo: 9},
		{Off: true},
	}
	ops := driver.Ops()
	if len(ops) != len(want) {
		t.Fatalf("expected %d ops, got %d: %+v", len(want), len(ops), ops)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("op %d: expected %+v, got %+v", i, want[i], ops[i])
		}
	}
}

func TestPassAlternatesActivateAndRelease(t *testing.T) {
	driver := gpio.NewFakeDriver()
	r := New(driver, 0)

	var f Frame
	for i := range f.Slots {
		f.Slots[i] = Slot{Hi: clock.Line(i + 1), Lo: clock.Line(i + 2), Dwell: 1}
	}
	r.Publish(f)

	r.Pass()

	// No activation may follow another without a release in between.
	ops := driver.Ops()
	for i := 1; i < len(ops); i++ {
		if !ops[i].Off && !ops[i-1].Off {
			t.Fatalf("op %d: activation without preceding release: %+v", i, ops)
		}
	}
}

func TestPassSkipsDarkFrame(t *testing.T) {
	driver := gpio.NewFakeDriver()
	r := New(driver, 0)

	r.Publish(Frame{Dark: 8})
	r.Pass()

	if n := len(driver.Ops()); n != 0 {
		t.Errorf("expected no line operations for a dark frame, got %d", n)
	}
}

func TestPassRecoversFromDriveError(t *testing.T) {
	driver := gpio.NewFakeDriver()
	driver.ActivateErr = errors.New("simulated error")
	r := New(driver, 0)

	var f Frame
	f.Slots[0] = Slot{Hi: 1, Lo: 2, Dwell: 5}
	f.Slots[1] = Slot{Hi: 3, Lo: 4, Dwell: 5}
	r.Publish(f)

	r.Pass()

	// A failed activation still gets its release.
	ops := driver.Ops()
	if len(ops) != 2 {
		t.Fatalf("expected 2 ops, got %d: %+v", len(ops), ops)
	}
	for i, op := range ops {
		if !op.Off {
			t.Errorf("op %d: expected a release, got %+v", i, op)
		}
	}
}

func TestPublishSwapsWholeFrame(t *testing.T) {
	driver := gpio.NewFakeDriver()
	r := New(driver, 0)

	var first Frame
	first.Slots[0] = Slot{Hi: 1, Lo: 2, Dwell: 1}
	r.Publish(first)
	r.Pass()

	var second Frame
	second.Slots[0] = Slot{Hi: 9, Lo: 10, Dwell: 1}
	r.Publish(second)
	driver.Reset()
	r.Pass()

	ops := driver.Ops()
	if len(ops) == 0 || ops[0] != (gpio.Op{Hi: 9, Lo: 10}) {
		t.Errorf("expected the new frame's pair first, got %+v", ops)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	driver := gpio.NewFakeDriver()
	r := New(driver, time.Microsecond)
	r.Publish(Frame{Dark: 1})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop after cancellation")
	}

	// The matrix ends dark.
	ops := driver.Ops()
	if len(ops) == 0 || !ops[len(ops)-1].Off {
		t.Errorf("expected a final release, got %+v", ops)
	}
}
