package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/quiffman/BulbdialClock/internal/clock"
	"github.com/quiffman/BulbdialClock/internal/display"
	"github.com/quiffman/BulbdialClock/internal/gpio"
	"github.com/quiffman/BulbdialClock/internal/rtc"
	"github.com/quiffman/BulbdialClock/internal/settings"
	"github.com/quiffman/BulbdialClock/internal/status"
	"github.com/quiffman/BulbdialClock/internal/timesync"
	"github.com/quiffman/BulbdialClock/internal/web"
)

var (
	loopTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loop_ticks",
		Help: "count of main loop iterations",
	})

	settingsSaves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settings_saves",
		Help: "count of settings writes that reached disk",
	})

	serialSyncs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "serial_syncs",
		Help: "count of times the clock was set from the serial feed",
	})

	rtcCorrections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rtc_corrections",
		Help: "count of times the clock was corrected from the hardware clock",
	})
)

// options collects everything run needs so tests can build it directly.
type options struct {
	chip         string
	linePins     [clock.NumLines]int
	plusPin      int
	minusPin     int
	zPin         int
	useRTC       bool
	i2cName      string
	serialDev    string
	baud         int
	settingsPath string
	httpAddr     string
	tick         time.Duration
	dwellUnit    time.Duration
	inlineMux    bool
	sim          bool
	saturate     bool
}

func main() {
	chip := flag.String("chip", "gpiochip0", "GPIO chip device name")
	lines := flag.String("lines", pinList(gpio.DefaultLinePins[:]), "comma separated BCM pins for the ten charlieplex lines")
	buttonsFlag := flag.String("buttons", fmt.Sprintf("%d,%d,%d", gpio.PinPlus, gpio.PinMinus, gpio.PinZ), "comma separated BCM pins for the plus, minus and Z buttons")
	useRTC := flag.Bool("rtc", true, "probe for a DS1307 on the I2C bus at startup")
	i2cName := flag.String("i2c", "", "I2C bus name or number for the RTC (empty for the first available)")
	serialDev := flag.String("serial", "", "serial device for time sync (empty to disable)")
	baud := flag.Int("baud", timesync.DefaultBaud, "serial baud rate")
	settingsPath := flag.String("settings", "/var/lib/bulbdial/settings.yaml", "path of the settings file")
	httpAddr := flag.String("http", ":8080", "HTTP status server address (empty to disable)")
	tick := flag.Duration("tick", 10*time.Millisecond, "button and fade update interval")
	dwellUnit := flag.Duration("dwell-unit", 2*time.Microsecond, "LED on time per dwell unit")
	mux := flag.String("mux", "timer", "multiplexing strategy: timer (dedicated goroutine) or inline (one pass per tick)")
	sim := flag.Bool("sim", false, "drive a fake LED matrix instead of GPIO hardware")
	saturate := flag.Bool("bright-saturate", false, "brightness buttons stop at the ends instead of wrapping around")

	flag.Parse()

	linePins, err := parsePins(*lines, clock.NumLines)
	if err != nil {
		log.Fatalf("fatal: -lines: %v", err)
	}
	buttonPins, err := parsePins(*buttonsFlag, 3)
	if err != nil {
		log.Fatalf("fatal: -buttons: %v", err)
	}
	if *mux != "timer" && *mux != "inline" {
		log.Fatalf("fatal: -mux must be timer or inline, got %q", *mux)
	}

	o := options{
		chip:         *chip,
		useRTC:       *useRTC,
		i2cName:      *i2cName,
		serialDev:    *serialDev,
		baud:         *baud,
		settingsPath: *settingsPath,
		httpAddr:     *httpAddr,
		tick:         *tick,
		dwellUnit:    *dwellUnit,
		inlineMux:    *mux == "inline",
		sim:          *sim,
		saturate:     *saturate,
	}
	copy(o.linePins[:], linePins)
	o.plusPin, o.minusPin, o.zPin = buttonPins[0], buttonPins[1], buttonPins[2]

	if err := run(o); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(o options) error {
	var (
		driver  gpio.LineDriver
		buttons gpio.ButtonReader
	)
	if o.sim {
		driver = gpio.NewFakeDriver()
		buttons = gpio.NewFakeButtons(nil)
	} else {
		d, err := gpio.NewRealDriver(o.chip, o.linePins)
		if err != nil {
			return fmt.Errorf("init led lines: %w", err)
		}
		driver = d
		b, err := gpio.NewRealButtons(o.chip, o.plusPin, o.minusPin, o.zPin)
		if err != nil {
			d.Close()
			return fmt.Errorf("init buttons: %w", err)
		}
		buttons = b
	}
	defer driver.Close()
	defer buttons.Close()

	store := settings.NewStore(o.settingsPath)
	cfg := store.Load()

	eng := clock.NewEngine(cfg)
	eng.SetBrightWrap(!o.saturate)

	// The RTC is probed once. If the first read fails the clock runs
	// without it for the rest of the session and blinks until a time
	// arrives some other way.
	var rtcDev *rtc.Device
	if o.useRTC && !o.sim {
		if _, err := host.Init(); err != nil {
			log.Printf("rtc: periph init: %v, continuing without hardware clock", err)
		} else if bus, err := i2creg.Open(o.i2cName); err != nil {
			log.Printf("rtc: open i2c: %v, continuing without hardware clock", err)
		} else {
			defer bus.Close()
			dev := rtc.New(bus)
			if secs, _, err := dev.Correct(0); err != nil {
				log.Printf("rtc: not detected: %v", err)
			} else {
				rtcDev = dev
				eng.SyncTime(secs)
				log.Printf("rtc: time is %s", clock.FormatSeconds(secs))
			}
		}
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		TickMs:       o.tick.Milliseconds(),
		DwellUnitUs:  o.dwellUnit.Microseconds(),
		Chip:         o.chip,
		SettingsPath: o.settingsPath,
		SerialDev:    o.serialDev,
		HTTPAddr:     o.httpAddr,
		Sim:          o.sim,
	})
	tracker.SetRTCPresent(rtcDev != nil)
	tracker.Update(eng.Seconds(), eng.Mode(), eng.Sub(), eng.Config(), eng.Unset())

	var syncC <-chan int
	if o.serialDev != "" {
		port, err := timesync.Open(o.serialDev, o.baud)
		if err != nil {
			return fmt.Errorf("open serial: %w", err)
		}
		defer port.Close()
		syncC = port.Times()
		tracker.SetSerialOn(true)
		log.Printf("timesync: listening on %s at %d baud", o.serialDev, o.baud)
	}

	if o.httpAddr != "" {
		srv := web.New(o.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", o.httpAddr)
	}

	ref := display.New(driver, o.dwellUnit)
	if !o.inlineMux {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			ref.Run(ctx)
			close(done)
		}()
		defer func() {
			cancel()
			<-done
		}()
	}

	log.Printf("started: tick=%v dwell=%v fade=%v bright=%d", o.tick, o.dwellUnit, cfg.Fade, cfg.MainBright)

	ticker := time.NewTicker(o.tick)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(eng, buttons, ref, store, rtcDev, tracker, syncC, o.inlineMux, time.Now, ticker.C, sigCh)
}

// runLoop owns the engine. Everything that mutates it happens here, so
// the handlers and the refresher only ever see finished state.
func runLoop(eng *clock.Engine, buttons gpio.ButtonReader, ref *display.Refresher, store *settings.Store, rtcDev *rtc.Device, tracker *status.Tracker, syncC <-chan int, inlineMux bool, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	lastMode := eng.Mode()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			saveSettings(eng, store, tracker)
			return nil

		case secs := <-syncC:
			eng.SyncTime(secs)
			serialSyncs.Inc()
			if tracker != nil {
				tracker.CountSync()
				tracker.Update(eng.Seconds(), eng.Mode(), eng.Sub(), eng.Config(), eng.Unset())
			}
			log.Printf("timesync: clock set to %s", clock.FormatSeconds(secs))

		case <-tick:
			sample, err := buttons.Read()
			if err != nil {
				log.Printf("button read error: %v", err)
				continue
			}

			view, actions := eng.Step(now(), sample)
			ref.Publish(display.Compose(view))
			if inlineMux {
				ref.Pass()
			}
			loopTicks.Inc()

			for _, a := range actions {
				switch a {
				case clock.ActionSaveSettings:
					saveSettings(eng, store, tracker)
				case clock.ActionWriteRTC:
					writeRTC(eng, rtcDev)
				case clock.ActionPollRTC:
					pollRTC(eng, rtcDev, tracker)
				}
			}

			if m := eng.Mode(); m != lastMode {
				log.Printf("mode: %v -> %v", lastMode, m)
				lastMode = m
			}

			if tracker != nil {
				tracker.Update(eng.Seconds(), eng.Mode(), eng.Sub(), eng.Config(), eng.Unset())
			}
		}
	}
}

func saveSettings(eng *clock.Engine, store *settings.Store, tracker *status.Tracker) {
	wrote, err := store.Save(eng.Config())
	if err != nil {
		log.Printf("settings: save: %v", err)
		return
	}
	if wrote {
		settingsSaves.Inc()
		if tracker != nil {
			tracker.CountSave()
		}
		log.Printf("settings: saved")
	}
}

func writeRTC(eng *clock.Engine, dev *rtc.Device) {
	if dev == nil {
		return
	}
	if err := dev.Write(eng.Seconds()); err != nil {
		log.Printf("rtc: write: %v", err)
		return
	}
	log.Printf("rtc: stored %s", clock.FormatSeconds(eng.Seconds()))
}

func pollRTC(eng *clock.Engine, dev *rtc.Device, tracker *status.Tracker) {
	if dev == nil {
		return
	}
	secs, ok, err := dev.Correct(eng.Seconds())
	if err != nil {
		log.Printf("rtc: read: %v", err)
		return
	}
	if !ok {
		return
	}
	eng.SyncTime(secs)
	rtcCorrections.Inc()
	if tracker != nil {
		tracker.CountCorrection()
	}
	log.Printf("rtc: corrected to %s", clock.FormatSeconds(secs))
}

// parsePins splits a comma separated pin list into exactly n BCM numbers.
func parsePins(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d pins, got %d", n, len(parts))
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("pin %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

func pinList(pins []int) string {
	parts := make([]string, len(pins))
	for i, p := range pins {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}
